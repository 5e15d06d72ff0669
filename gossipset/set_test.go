package gossipset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAddRemove(t *testing.T) {
	set := NewSet[int]()

	five := AddMessage(5)
	set.Update(&five)
	assert.True(t, set.IsPresent(5))
	assert.False(t, set.IsPresent(6))

	six := AddMessage(6)
	set.Update(&six)
	assert.True(t, set.IsPresent(5))
	assert.True(t, set.IsPresent(6))

	removeSix := RemoveMessage(6)
	set.Update(&removeSix)
	assert.True(t, set.IsPresent(5))
	assert.False(t, set.IsPresent(6))

	removeSixAgain := RemoveMessage(6)
	set.Update(&removeSixAgain)
	assert.True(t, set.IsPresent(5))
	assert.False(t, set.IsPresent(6))
}

func TestSetNeverAddedIsAbsent(t *testing.T) {
	set := NewSet[string]()
	assert.False(t, set.IsPresent("nope"))
}

func TestMessageIDsAreUnique(t *testing.T) {
	a := AddMessage(1)
	b := AddMessage(1)
	assert.NotEqual(t, a.ID(), b.ID())
}
