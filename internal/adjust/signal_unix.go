//go:build unix

package adjust

import (
	"os"
	"os/signal"
	"syscall"
)

// NotifySignals wires process signals to the scheduler's coalescing
// flags: SIGINT and SIGTERM request shutdown, SIGUSR1 toggles the
// adjustment on and off.
func NotifySignals(disable, shutdown *Flag) {
	signals := make(chan os.Signal, 4)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)

	go func() {
		for sig := range signals {
			if sig == syscall.SIGUSR1 {
				disable.Raise()
			} else {
				shutdown.Raise()
			}
		}
	}()
}
