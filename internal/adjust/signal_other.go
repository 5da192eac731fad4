//go:build !unix

package adjust

import (
	"os"
	"os/signal"
)

// NotifySignals wires interrupt signals to the shutdown flag. The
// disable toggle has no signal binding on non-unix platforms.
func NotifySignals(disable, shutdown *Flag) {
	signals := make(chan os.Signal, 4)
	signal.Notify(signals, os.Interrupt)

	go func() {
		for range signals {
			shutdown.Raise()
		}
	}()
}
