package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"camera-preset-cli/pkg/models"
)

// Settings bounds the timing and tolerance of a restore.
type Settings struct {
	SettleInterval       time.Duration // wait after a move before each position poll
	FocusSettle          time.Duration // wait after forcing manual focus
	WakeDelay            time.Duration // wait after leaving standby
	MaxAttempts          int
	ZoomTolerancePercent int
}

func DefaultSettings() Settings {
	return Settings{
		SettleInterval:       4 * time.Second,
		FocusSettle:          time.Second,
		WakeDelay:            3 * time.Second,
		MaxAttempts:          3,
		ZoomTolerancePercent: 10,
	}
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Outcome is the result of reconciling one preset.
type Outcome struct {
	PresetID  int             `json:"presetId"`
	CameraID  int             `json:"cameraId"`
	Name      string          `json:"name"`
	Converged bool            `json:"converged"`
	Attempts  int             `json:"attempts"`
	Target    models.Position `json:"target"`
	Last      models.Position `json:"last"`
}

// attempt is the per-preset convergence state. It lives for one Reconcile call.
type attempt struct {
	count     int
	max       int
	last      models.Position
	converged bool
}

func (a *attempt) exhausted() bool {
	return a.count >= a.max
}

// Reconciler drives cameras to backed-up positions and stores presets once
// the camera reports it is there.
type Reconciler struct {
	Cameras   Cameras
	Inventory Inventory
	Settings  Settings
	Sleep     SleepFunc
	Logger    *slog.Logger
	Metrics   *Metrics
}

func (r *Reconciler) sleep(ctx context.Context, d time.Duration) error {
	if r.Sleep != nil {
		return r.Sleep(ctx, d)
	}
	return Sleep(ctx, d)
}

func (r *Reconciler) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Prepare turns off automatic camera steering for the whole device.
// It must run once before the first Reconcile.
func (r *Reconciler) Prepare(ctx context.Context) error {
	if err := r.Cameras.SetSpeakerTrack(ctx, false); err != nil {
		return fmt.Errorf("deactivate speakertrack: %w", err)
	}
	return nil
}

// Reconcile moves the preset's camera to the preset position, polls until the
// camera reports that position or attempts run out, then stores the preset.
// The store is issued on exhaustion too, at whatever position was reached.
// A focus mode forced to manual is put back before returning, whatever the outcome.
func (r *Reconciler) Reconcile(ctx context.Context, p models.Preset) (out Outcome, err error) {
	cameraID := int(p.CameraID)
	target := p.Target()
	logger := r.logger().With("preset_id", int(p.PresetID), "camera_id", cameraID)
	out = Outcome{PresetID: int(p.PresetID), CameraID: cameraID, Name: p.Name, Target: target}

	logger.Info("setting camera position to preset",
		"name", p.Name, "pan", target.Pan, "tilt", target.Tilt, "zoom", target.Zoom, "lens", target.Lens)

	focus, err := r.Cameras.FocusMode(ctx, cameraID)
	if err != nil {
		return out, fmt.Errorf("camera %d focus mode: %w", cameraID, err)
	}
	logger.Debug("camera focus mode", "mode", focus)

	if focus == models.FocusAuto {
		logger.Info("setting camera focus mode to manual")
		if err := r.Cameras.SetFocusMode(ctx, cameraID, models.FocusManual); err != nil {
			return out, fmt.Errorf("camera %d set focus manual: %w", cameraID, err)
		}
		defer func() {
			if rerr := r.Cameras.SetFocusMode(ctx, cameraID, focus); rerr != nil {
				err = errors.Join(err, fmt.Errorf("camera %d restore focus %s: %w", cameraID, focus, rerr))
				return
			}
			logger.Debug("camera focus mode restored", "mode", focus)
		}()
		if err := r.sleep(ctx, r.Settings.FocusSettle); err != nil {
			return out, err
		}
	}

	if err := r.Cameras.SetPosition(ctx, cameraID, target); err != nil {
		return out, fmt.Errorf("camera %d position set: %w", cameraID, err)
	}

	a := attempt{max: max(r.Settings.MaxAttempts, 1)}
	for !a.exhausted() {
		logger.Debug("waiting for camera to settle", "wait", r.Settings.SettleInterval)
		if err := r.sleep(ctx, r.Settings.SettleInterval); err != nil {
			return out, err
		}

		live, err := r.Cameras.Position(ctx, cameraID)
		if err != nil {
			return out, fmt.Errorf("camera %d position: %w", cameraID, err)
		}
		a.count++
		a.last = live
		r.Metrics.observePoll()

		if Converged(target, live, r.Settings.ZoomTolerancePercent) {
			a.converged = true
			break
		}
		logger.Warn("camera not in position", "attempt", a.count)
		logMismatch(logger, target, live, r.Settings.ZoomTolerancePercent)
	}

	out.Attempts = a.count
	out.Last = a.last
	out.Converged = a.converged

	if a.converged {
		logger.Info("camera is in position, storing preset", "attempts", a.count)
	} else {
		logger.Warn("max attempts reached, storing preset at last position",
			"attempts", a.count,
			"target_pan", target.Pan, "target_tilt", target.Tilt, "target_zoom", target.Zoom,
			"pan", a.last.Pan, "tilt", a.last.Tilt, "zoom", a.last.Zoom)
	}

	if err := r.Inventory.StorePreset(ctx, models.StoreRequestFor(p)); err != nil {
		return out, fmt.Errorf("store preset %d: %w", p.PresetID, err)
	}
	r.Metrics.observeOutcome(out)
	return out, nil
}

// Converged reports whether live matches target: pan and tilt exactly, zoom
// within tolerancePercent of the target zoom (strictly inside the band).
// A target zoom of zero only accepts a live zoom of zero.
func Converged(target, live models.Position, tolerancePercent int) bool {
	return target.Pan == live.Pan && target.Tilt == live.Tilt &&
		ZoomWithin(target.Zoom, live.Zoom, tolerancePercent)
}

// ZoomWithin evaluates |live-target| < tolerancePercent/100 * target in integer arithmetic.
func ZoomWithin(target, live, tolerancePercent int) bool {
	if target == 0 {
		return live == 0
	}
	diff := live - target
	if diff < 0 {
		diff = -diff
	}
	return diff*100 < tolerancePercent*target
}

func logMismatch(logger *slog.Logger, target, live models.Position, tolerancePercent int) {
	if target.Pan != live.Pan {
		logger.Warn("pan does not match preset", "preset_pan", target.Pan, "camera_pan", live.Pan)
	}
	if target.Tilt != live.Tilt {
		logger.Warn("tilt does not match preset", "preset_tilt", target.Tilt, "camera_tilt", live.Tilt)
	}
	if !ZoomWithin(target.Zoom, live.Zoom, tolerancePercent) {
		diff := live.Zoom - target.Zoom
		if diff < 0 {
			diff = -diff
		}
		logger.Warn("zoom does not match preset",
			"preset_zoom", target.Zoom, "camera_zoom", live.Zoom, "zoom_diff", diff)
	}
}
