package main

import (
	"os"
	"os/signal"

	"github.com/winux-core/ptree/pkg/logging"
)

// installSignalCancellation returns a channel that closes the first time an
// interrupt is received, suitable for orchestrator.Config.Cancelled. A
// second interrupt forces an immediate exit, in case a stuck worker never
// observes the cancel flag.
func installSignalCancellation(logger *logging.Logger) <-chan struct{} {
	cancelled := make(chan struct{})
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, os.Interrupt)

	go func() {
		<-signals
		logger.Warn(errInterrupted)
		close(cancelled)
		<-signals
		os.Exit(int(orchestratorExitCancelledForced))
	}()

	return cancelled
}

const orchestratorExitCancelledForced = 130

var errInterrupted = interruptError{}

type interruptError struct{}

func (interruptError) Error() string { return "interrupted, finishing in-flight work" }
