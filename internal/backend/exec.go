package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"

	"github.com/heliodor/duskshift/pkg/config"
)

// Exec drives an external gamma helper such as sct. The helper is
// invoked with the configured arguments plus the Kelvin value; the
// screen, CRTC and gamma settings are exported in its environment.
// Restore invokes it with the neutral temperature.
type Exec struct {
	logger  *slog.Logger
	command string
	args    []string
	screen  int
	crtc    int
	gamma   [3]float64
}

// NewExec resolves the configured gamma helper. Fails when no command
// is configured or the command is not on PATH, so the prober can move
// on.
func NewExec(cfg *config.Config, logger *slog.Logger) (*Exec, error) {
	if cfg.GammaCommand == "" {
		return nil, errors.New("no gamma command configured")
	}
	path, err := exec.LookPath(cfg.GammaCommand)
	if err != nil {
		return nil, fmt.Errorf("gamma command not found: %w", err)
	}

	e := &Exec{
		logger:  logger,
		command: path,
		args:    cfg.GammaCommandArgs,
		screen:  cfg.Screen,
		crtc:    cfg.CRTC,
		gamma:   [3]float64{1.0, 1.0, 1.0},
	}

	// Probe run: apply the neutral temperature once so a broken helper
	// fails at init instead of mid-run.
	if err := e.run(neutralTemp, [3]float64{1.0, 1.0, 1.0}); err != nil {
		return nil, fmt.Errorf("gamma command probe failed: %w", err)
	}

	return e, nil
}

func (e *Exec) run(kelvin int, gamma [3]float64) error {
	args := append(append([]string{}, e.args...), strconv.Itoa(kelvin))

	cmd := exec.Command(e.command, args...)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("DUSKSHIFT_HELPER_GAMMA=%g:%g:%g", gamma[0], gamma[1], gamma[2]),
	)
	if e.screen > -1 {
		cmd.Env = append(cmd.Env, fmt.Sprintf("DUSKSHIFT_HELPER_SCREEN=%d", e.screen))
	}
	if e.crtc > -1 {
		cmd.Env = append(cmd.Env, fmt.Sprintf("DUSKSHIFT_HELPER_CRTC=%d", e.crtc))
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w: %s", e.command, err, output)
	}
	return nil
}

// SetTemperature runs the helper with the new temperature.
func (e *Exec) SetTemperature(kelvin int, gamma [3]float64) error {
	if err := e.run(kelvin, gamma); err != nil {
		return err
	}
	e.gamma = gamma
	e.logger.Debug("Applied color temperature", "method", "exec", "kelvin", kelvin)
	return nil
}

// Restore runs the helper with the neutral temperature. The helper has
// no way to report the ramp that was active before we started, so
// neutral stands in for it.
func (e *Exec) Restore() error {
	return e.run(neutralTemp, e.gamma)
}

// Free has nothing to release; each helper run is a separate process.
func (e *Exec) Free() {}
