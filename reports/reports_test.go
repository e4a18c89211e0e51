package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFileNameForDate(t *testing.T) {
	t.Run("simple date", func(t *testing.T) {
		d := time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, "20250307.zip", FileNameForDate(d))
	})

	t.Run("uses UTC day", func(t *testing.T) {
		// 23:30 UTC-5 is already the next day in UTC
		loc := time.FixedZone("UTC-5", -5*60*60)
		d := time.Date(2025, time.March, 7, 23, 30, 0, 0, loc)
		assert.Equal(t, "20250308.zip", FileNameForDate(d))
	})
}

func TestValidFileName(t *testing.T) {
	assert.True(t, ValidFileName("20250307.zip"))
	assert.True(t, ValidFileName("19991231.zip"))

	assert.False(t, ValidFileName("20250307.ZIP"))
	assert.False(t, ValidFileName("20250307.zip.bak"))
	assert.False(t, ValidFileName("../20250307.zip"))
	assert.False(t, ValidFileName("2025-03-07.zip"))
	assert.False(t, ValidFileName(""))
	assert.False(t, ValidFileName("secrets.txt"))
}
