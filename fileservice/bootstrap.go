package fileservice

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulldump/coreops/configuration"
)

// Bootstrap wires a Listener the same shape as pipeline.Bootstrap: a start
// function that runs until the listener is stopped, and a stop function
// safe to call from a signal handler or a test.
func Bootstrap(addr, storePath string, n, m int, tuning *configuration.ServiceTuning, logger *log.Logger) (start func() error, stop func(), err error) {
	l, err := NewListener(addr, storePath, n, m, tuning.PollInterval, logger)
	if err != nil {
		return nil, nil, err
	}

	stop = l.Stop
	start = l.Run

	return start, stop, nil
}

// RunWithInterrupt runs the listener until SIGINT/SIGTERM, then stops it
// and waits for in-flight handlers to drain before returning.
func RunWithInterrupt(addr, storePath string, n, m int, tuning *configuration.ServiceTuning, logger *log.Logger) error {
	start, stop, err := Bootstrap(addr, storePath, n, m, tuning, logger)
	if err != nil {
		return err
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalChan)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-signalChan:
			logger.Printf("received signal %s, shutting down", sig)
			stop()
		case <-done:
		}
	}()

	err = start()
	close(done)

	return err
}
