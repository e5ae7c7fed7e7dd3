package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fulldump/coreops/configuration"
)

// Result summarizes a completed run, for cmd/genwriter's optional summary
// line (configuration.PipelineTuning.PrintSummary).
type Result struct {
	TotalWritten int
	Generators   int
}

// Bootstrap wires N generators and one coordinator around a fresh
// SharedState and returns start/stop closures, mirroring the shape of the
// teacher's bootstrap.Bootstrap(cfg) (start, stop func()): start blocks
// until the pipeline drains and every generator has exited; stop marks
// terminate and unblocks anyone left waiting on the slot, the way a SIGINT
// handler does in spec.md §4.2's "Signal behavior".
func Bootstrap(generators, totalRecords int, sink io.Writer, tuning *configuration.PipelineTuning, logger *log.Logger) (start func() (Result, error), stop func()) {
	state := NewSharedState(generators, totalRecords)

	bw := bufio.NewWriter(sink)
	coordinator := NewCoordinator(state, bw, bufferedFlush(bw), tuning.DrainInterval, logger)

	gens := make([]*Generator, generators)
	for i := range gens {
		gens[i] = NewGenerator(i+1, tuning.BatchSize, tuning.BatchPause, state, logger)
	}

	stop = func() {
		coordinator.Shutdown(generators)
	}

	start = func() (Result, error) {
		return runPipeline(state, coordinator, gens, logger)
	}

	return start, stop
}

func runPipeline(state *SharedState, coordinator *Coordinator, gens []*Generator, logger *log.Logger) (Result, error) {
	if err := coordinator.WriteHeader(); err != nil {
		return Result{}, err
	}

	wg := &sync.WaitGroup{}
	for _, g := range gens {
		wg.Add(1)
		go func(g *Generator) {
			defer wg.Done()
			g.Run()
		}(g)
	}

	total, err := coordinator.Run()
	if err != nil {
		coordinator.Shutdown(len(gens))
		wg.Wait()
		return Result{TotalWritten: total, Generators: len(gens)}, err
	}

	coordinator.Shutdown(len(gens))
	wg.Wait()

	return Result{TotalWritten: total, Generators: len(gens)}, nil
}

// RunWithInterrupt runs the pipeline to completion, cancelling early on
// SIGINT per spec.md §4.2's "Signal behavior": the coordinator sets
// terminate and children observe it on their next mutex acquisition.
func RunWithInterrupt(generators, totalRecords int, sink io.Writer, tuning *configuration.PipelineTuning, logger *log.Logger) (Result, error) {
	state := NewSharedState(generators, totalRecords)

	bw := bufio.NewWriter(sink)
	coordinator := NewCoordinator(state, bw, bufferedFlush(bw), tuning.DrainInterval, logger)

	gens := make([]*Generator, generators)
	for i := range gens {
		gens[i] = NewGenerator(i+1, tuning.BatchSize, tuning.BatchPause, state, logger)
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalChan)

	interrupted := make(chan struct{})
	go func() {
		select {
		case sig := <-signalChan:
			logger.Printf("signal received: %s, shutting down", sig)
			coordinator.Shutdown(generators)
			close(interrupted)
		case <-interrupted:
		}
	}()

	result, err := runPipeline(state, coordinator, gens, logger)
	select {
	case <-interrupted:
	default:
		close(interrupted)
	}

	if err != nil {
		return result, fmt.Errorf("pipeline: %w", err)
	}
	return result, nil
}
