package pipeline

import "sync"

// slot is the single-element rendezvous cell shared by every generator and
// the coordinator. Access is always guarded by SharedState's mutex; the
// binarySemaphore pair around it plays the role of the full-slot/empty-slot
// semaphores from the original design.
type slot struct {
	record      string
	publishedID int
}

// binarySemaphore is a counting semaphore capped at one permit, built on a
// buffered channel the way the pack's producer/consumer sketches do it.
// Acquire blocks until a permit is available or the abort channel is closed
// (SharedState closes terminateSignal to wake every blocked generator at
// shutdown without tracking how many permits were actually posted); it
// reports false when woken by abort. TryAcquire never blocks.
type binarySemaphore struct {
	ch chan struct{}
}

func newBinarySemaphore(permits int) *binarySemaphore {
	s := &binarySemaphore{ch: make(chan struct{}, 1)}
	for i := 0; i < permits; i++ {
		s.ch <- struct{}{}
	}
	return s
}

func (s *binarySemaphore) Acquire(abort <-chan struct{}) bool {
	select {
	case <-s.ch:
		return true
	case <-abort:
		return false
	}
}

func (s *binarySemaphore) TryAcquire() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

func (s *binarySemaphore) Release() {
	select {
	case s.ch <- struct{}{}:
	default:
		// already holds a permit; the 0/1 invariant means this is a
		// caller bug, not a condition to block on.
	}
}

// SharedState is the single instance of Core A's shared, mutex-guarded
// state: the identifier counter, the completion counters, the termination
// flag and the one-element slot. This is the process-shared struct from
// spec.md §3, mapped onto a plain mutex-guarded Go struct per §9's
// re-architecture note.
type SharedState struct {
	mu sync.Mutex

	nextID           int
	totalRecords     int
	totalWritten     int
	terminate        bool
	activeGenerators int

	slot slot

	emptySlot *binarySemaphore // permits = 1: the slot has room for a publish
	fullSlot  *binarySemaphore // permits = 0: the slot holds an unconsumed record
	terminateSignal chan struct{}
	shutdownOnce    sync.Once
}

// NewSharedState initializes the invariants of spec.md §3: next_id=1,
// total_written=0, terminate=false, active_generators=N, empty-slot=1,
// full-slot=0.
func NewSharedState(generators, totalRecords int) *SharedState {
	return &SharedState{
		nextID:           1,
		totalRecords:     totalRecords,
		activeGenerators: generators,
		emptySlot:        newBinarySemaphore(1),
		fullSlot:         newBinarySemaphore(0),
		terminateSignal:  make(chan struct{}),
	}
}

// reserveBatch reserves up to `size` identifiers, advancing next_id. It
// returns the first reserved identifier and how many were actually
// reserved (0 if the sequence is exhausted or terminate is set).
func (s *SharedState) reserveBatch(size int) (start, count int, terminate bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminate {
		return 0, 0, true
	}

	remain := s.totalRecords - s.nextID + 1
	if remain <= 0 {
		return 0, 0, false
	}

	block := size
	if remain < block {
		block = remain
	}

	start = s.nextID
	s.nextID += block
	return start, block, false
}

// isTerminating reports the terminate flag under the mutex, the check a
// generator makes right after waking from an empty-slot wait.
func (s *SharedState) isTerminating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminate
}

// publish writes a record into the slot. Caller must already hold the
// empty-slot permit.
func (s *SharedState) publish(id int, record string) {
	if len(record) > 511 {
		record = record[:511]
	}
	s.mu.Lock()
	s.slot.record = record
	s.slot.publishedID = id
	s.mu.Unlock()
}

// finishGenerator decrements active_generators; called exactly once per
// generator on its way out, whether it ran out of work or observed
// terminate.
func (s *SharedState) finishGenerator() {
	s.mu.Lock()
	s.activeGenerators--
	s.mu.Unlock()
}

// consume copies the slot contents out and bumps total_written. Caller must
// already hold the full-slot permit.
func (s *SharedState) consume() (id int, record string) {
	s.mu.Lock()
	id, record = s.slot.publishedID, s.slot.record
	s.totalWritten++
	s.mu.Unlock()
	return
}

// totalWrittenSnapshot reads total_written under the mutex.
func (s *SharedState) totalWrittenSnapshot() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalWritten
}

// canTerminate samples the three conditions of spec.md §4.2 step 2 under
// the mutex.
func (s *SharedState) canTerminate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextID > s.totalRecords && s.activeGenerators == 0 && s.totalWritten == s.totalRecords
}

// beginShutdown sets terminate and releases every generator that might be
// blocked waiting for the slot to empty. Closing terminateSignal wakes all
// of them at once; each generator still re-checks terminate under the
// mutex before deciding whether it was woken to publish or to leave,
// exactly as spec.md §4.1 requires.
func (s *SharedState) beginShutdown(generators int) {
	s.mu.Lock()
	s.terminate = true
	s.mu.Unlock()

	s.shutdownOnce.Do(func() {
		close(s.terminateSignal)
	})
}
