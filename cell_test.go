package preempt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellIdleHasNoHolder(t *testing.T) {
	c := NewCell(0, "c")
	assert.False(t, c.IsHeldBy(&Handle{}))
}

func TestCellInstallAlwaysSucceeds(t *testing.T) {
	c := NewCell(0, "c")
	a := &Handle{Label: "a"}
	b := &Handle{Label: "b"}

	prev := c.Install(a)
	assert.Nil(t, prev)
	assert.True(t, c.IsHeldBy(a))

	prev = c.Install(b)
	assert.Same(t, a, prev)
	assert.True(t, c.IsHeldBy(b))
	assert.False(t, c.IsHeldBy(a))
}

func TestCellReleaseIsIdempotent(t *testing.T) {
	c := NewCell(0, "c")
	a := &Handle{}
	c.Install(a)

	c.Release(a)
	assert.False(t, c.IsHeldBy(a))
	c.Release(a) // second release: no-op, does not panic or error.
	assert.False(t, c.IsHeldBy(a))
}

func TestCellReleaseByStaleHolderIsNoOp(t *testing.T) {
	c := NewCell(0, "c")
	a := &Handle{}
	b := &Handle{}

	c.Install(a)
	c.Install(b) // b steals from a.

	c.Release(a) // a's release loses the CAS race against b's install.
	assert.True(t, c.IsHeldBy(b), "a stale release must not evict the current holder")
}

func TestCellWithBorrowRequiresCurrentHolder(t *testing.T) {
	c := NewCell(10, "c")
	a := &Handle{}
	b := &Handle{}
	c.Install(a)

	err := c.WithBorrow(b, func(v *int) { *v = 99 })
	assert.Error(t, err)
	var ownershipErr *OwnershipLostError
	assert.ErrorAs(t, err, &ownershipErr)
	assert.Equal(t, "c", ownershipErr.Cell)
	assert.Equal(t, 10, c.value, "a rejected borrow must not mutate the cell")

	err = c.WithBorrow(a, func(v *int) { *v = 99 })
	assert.NoError(t, err)
	assert.Equal(t, 99, c.value)
}
