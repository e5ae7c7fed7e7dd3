package pipeline

import (
	"log"
	"math/rand"
	"time"
)

// Generator is one producer, running in its own goroutine, parameterized
// by childIndex (1-based, becomes the Gen<k> suffix). It implements
// spec.md §4.1.
type Generator struct {
	childIndex int
	batchSize  int
	batchPause time.Duration
	state      *SharedState
	log        *log.Logger
	rnd        *rand.Rand
}

func NewGenerator(childIndex, batchSize int, batchPause time.Duration, state *SharedState, logger *log.Logger) *Generator {
	return &Generator{
		childIndex: childIndex,
		batchSize:  batchSize,
		batchPause: batchPause,
		state:      state,
		log:        logger,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano() ^ int64(childIndex)*1337)),
	}
}

// Run reserves and publishes batches until the identifier sequence is
// exhausted or terminate is observed, then decrements active_generators
// exactly once before returning.
func (g *Generator) Run() {
	defer func() {
		g.state.finishGenerator()
		g.log.Printf("Gen%d exiting", g.childIndex)
	}()

	for {
		start, count, terminate := g.state.reserveBatch(g.batchSize)
		if terminate || count == 0 {
			return
		}

		for i := 0; i < count; i++ {
			id := start + i
			line := formatRecord(g.rnd, id, g.childIndex)

			acquired := g.state.emptySlot.Acquire(g.state.terminateSignal)
			if !acquired {
				// Woken by the shutdown broadcast rather than a genuine
				// empty-slot permit: leave without publishing and without
				// posting full-slot, per spec.md §4.1's shutdown path.
				return
			}
			if g.state.isTerminating() {
				// select can resolve both branches of Acquire at once, so a
				// real permit may have been consumed in the same instant
				// terminate flipped true. Hand it straight back so
				// full-slot + empty-slot still sums to 1 for whoever looks
				// next, instead of leaving the invariant quietly broken.
				g.state.emptySlot.Release()
				return
			}

			g.state.publish(id, line)
			g.state.fullSlot.Release()
		}

		time.Sleep(g.batchPause)
	}
}
