package pipeline

import (
	"testing"

	. "github.com/fulldump/biff"
)

func TestSharedState_ReserveBatch_CapsAtBatchSize(t *testing.T) {
	s := NewSharedState(1, 25)

	start, count, terminate := s.reserveBatch(10)
	AssertEqual(terminate, false)
	AssertEqual(start, 1)
	AssertEqual(count, 10)

	start, count, terminate = s.reserveBatch(10)
	AssertEqual(terminate, false)
	AssertEqual(start, 11)
	AssertEqual(count, 10)

	start, count, terminate = s.reserveBatch(10)
	AssertEqual(terminate, false)
	AssertEqual(start, 21)
	AssertEqual(count, 5)

	_, count, terminate = s.reserveBatch(10)
	AssertEqual(terminate, false)
	AssertEqual(count, 0)
}

func TestSharedState_ReserveBatch_TerminateShortCircuits(t *testing.T) {
	s := NewSharedState(1, 25)
	s.beginShutdown(1)

	_, count, terminate := s.reserveBatch(10)
	AssertEqual(terminate, true)
	AssertEqual(count, 0)
}

func TestSharedState_SlotMutualExclusion(t *testing.T) {
	s := NewSharedState(1, 1)

	// Initially empty=1, full=0: full-slot must not be acquirable yet.
	AssertEqual(s.fullSlot.TryAcquire(), false)

	// A generator's publish sequence: acquire empty, write, release full.
	AssertEqual(s.emptySlot.TryAcquire(), true)
	s.publish(1, "1,Ana,25,Cordoba,Gen1")
	s.fullSlot.Release()

	// Now full=1, empty=0: the pair still sums to exactly one permit.
	AssertEqual(s.emptySlot.TryAcquire(), false)
	AssertEqual(s.fullSlot.TryAcquire(), true)
}
