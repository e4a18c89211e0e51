package durations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNiceDuration(t *testing.T) {
	assert.Equal(t, "14 minutes 59 seconds", NiceDuration(14*time.Minute+59*time.Second))
	assert.Equal(t, "15 minutes", NiceDuration(15*time.Minute))
	assert.Equal(t, "1 minute", NiceDuration(60*time.Second))
	assert.Equal(t, "1 minute 1 second", NiceDuration(61*time.Second))
	assert.Equal(t, "59 seconds", NiceDuration(59*time.Second))
	assert.Equal(t, "1 second", NiceDuration(time.Second))
	assert.Equal(t, "0 seconds", NiceDuration(0))
	assert.Equal(t, "0 seconds", NiceDuration(-5*time.Second))
	assert.Equal(t, "0 seconds", NiceDuration(300*time.Millisecond))
	assert.Equal(t, "10 hours 5 minutes", NiceDuration(10*time.Hour+5*time.Minute))
	assert.Equal(t, "2 days", NiceDuration(48*time.Hour))
	assert.Equal(t, "1 day 1 hour 1 minute 1 second", NiceDuration(25*time.Hour+time.Minute+time.Second))
}
