package common

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"sync/atomic"
	"syscall"
)

var shell = "sh"

type RunResult struct {
	// Interrupted is set when the subprocess died from a signal forwarded by
	// us, which counts as a user-intended stop rather than a failure.
	Interrupted bool
}

// RunScript runs a shell script with the console's streams attached.
// Interrupt and termination signals received while the script runs are
// forwarded to it; the handler is registered just before the subprocess
// starts and removed on every exit path so repeated invocations never leak
// handlers.
func RunScript(script string) (RunResult, error) {
	cmd := exec.Command(shell, script)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	if err := cmd.Start(); err != nil {
		return RunResult{}, fmt.Errorf("error starting %s: %v", script, err)
	}

	var forwarded atomic.Bool
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case sig := <-sigs:
				forwarded.Store(true)
				if err := cmd.Process.Signal(sig); err != nil {
					fmt.Fprintf(os.Stderr, "error forwarding %v to %s: %v\n", sig, script, err)
				}
			case <-done:
				return
			}
		}
	}()

	err := cmd.Wait()
	if err == nil {
		return RunResult{}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && forwarded.Load() {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return RunResult{Interrupted: true}, nil
		}
	}

	return RunResult{}, fmt.Errorf("error running %s: %v", script, err)
}
