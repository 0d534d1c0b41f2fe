package diag

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeLockXExcludesEverything(t *testing.T) {
	n := newNodeLock()
	n.XLock()

	done := make(chan struct{})
	go func() {
		n.SLock()
		n.SUnlock()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("SLock should not have been granted while X is held")
	default:
	}

	n.XUnlock()
	<-done
}

func TestNodeLockSharedReaders(t *testing.T) {
	n := newNodeLock()
	n.SLock()
	n.SLock() // a second concurrent S holder must not block.
	n.SUnlock()
	n.SUnlock()
}

func TestNodeLockISAndIXCoexist(t *testing.T) {
	n := newNodeLock()
	n.ISLock()
	n.IXLock() // a reader below and a writer below (different subtrees) coexist.
	n.IXUnlock()
	n.ISUnlock()
}

func TestResourceTreeUpdateThenSnapshot(t *testing.T) {
	tree := NewResourceTree()
	tree.Update("arm.shoulder.motor", func(s *Stats) {
		s.Claims++
	})
	tree.Update("arm.shoulder.motor", func(s *Stats) {
		s.Steals++
	})

	got := tree.Snapshot("arm.shoulder.motor")
	assert.Equal(t, uint64(1), got.Claims)
	assert.Equal(t, uint64(1), got.Steals)
}

func TestResourceTreeDisjointSubtreesDontBlock(t *testing.T) {
	tree := NewResourceTree()
	tree.Update("arm.shoulder.motor", func(s *Stats) { s.Claims++ })
	tree.Update("base.wheel.left", func(s *Stats) { s.Claims++ })

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		tree.Update("arm.shoulder.motor", func(s *Stats) { s.Completes++ })
	}()
	go func() {
		defer wg.Done()
		_ = tree.Snapshot("base.wheel.left")
	}()
	wg.Wait()

	assert.Equal(t, uint64(1), tree.Snapshot("arm.shoulder.motor").Completes)
	assert.Equal(t, uint64(1), tree.Snapshot("base.wheel.left").Claims)
}

func TestResourceTreeConcurrentUpdatesAccumulate(t *testing.T) {
	tree := NewResourceTree()
	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			tree.Update("arm.shoulder.motor", func(s *Stats) { s.Claims++ })
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(n), tree.Snapshot("arm.shoulder.motor").Claims)
}
