// Package durations formats lock remainders for display. Locks last
// whole minutes, so everything renders in whole units.
package durations

import (
	"strconv"
	"strings"
	"time"
)

// NiceDuration renders a duration as whole units, largest first, e.g.
// "14 minutes 59 seconds". Durations at or below zero come back as
// "0 seconds".
func NiceDuration(dur time.Duration) string {
	if dur < 0 {
		dur = 0
	}

	secs := int(dur / time.Second)

	units := []struct {
		amount int
		name   string
	}{
		{secs / 86400, "day"},
		{secs / 3600 % 24, "hour"},
		{secs / 60 % 60, "minute"},
		{secs % 60, "second"},
	}

	var sb strings.Builder
	for _, u := range units {
		if u.amount == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(strconv.Itoa(u.amount))
		sb.WriteString(" ")
		sb.WriteString(u.name)
		if u.amount != 1 {
			sb.WriteString("s")
		}
	}

	if sb.Len() == 0 {
		return "0 seconds"
	}

	return sb.String()
}
