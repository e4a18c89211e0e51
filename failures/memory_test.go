package failures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCounter_Increment(t *testing.T) {
	c := NewMemoryCounterWithLookback(time.Minute)
	defer c.Stop()

	assert.Equal(t, 1, c.Increment("alice"))
	assert.Equal(t, 2, c.Increment("alice"))
	assert.Equal(t, 3, c.Increment("alice"))

	// other accounts are independent
	assert.Equal(t, 1, c.Increment("bob"))
}

func TestMemoryCounter_Clear(t *testing.T) {
	c := NewMemoryCounterWithLookback(time.Minute)
	defer c.Stop()

	c.Increment("alice")
	c.Increment("alice")
	c.Clear("alice")

	assert.Equal(t, 1, c.Increment("alice"))
}

func TestMemoryCounter_ClearOfUnknownUserIsFine(t *testing.T) {
	c := NewMemoryCounterWithLookback(time.Minute)
	defer c.Stop()

	c.Clear("neverseen")
	assert.Equal(t, 1, c.Increment("neverseen"))
}

func TestMemoryCounter_NormalizesUsernames(t *testing.T) {
	c := NewMemoryCounterWithLookback(time.Minute)
	defer c.Stop()

	assert.Equal(t, 1, c.Increment("Alice"))
	assert.Equal(t, 2, c.Increment("alice"))
	assert.Equal(t, 3, c.Increment("ALICE"))

	c.Clear("aLiCe")
	assert.Equal(t, 1, c.Increment("alice"))
}

func TestMemoryCounter_CountsExpireAfterLookback(t *testing.T) {
	c := NewMemoryCounterWithLookback(50 * time.Millisecond)
	defer c.Stop()

	c.Increment("alice")
	c.Increment("alice")

	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, 1, c.Increment("alice"))
}
