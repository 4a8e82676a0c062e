package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"camera-preset-cli/pkg/models"
)

// Run statuses reported back to the caller.
const (
	StatusCompleted   = "completed"
	StatusNoPresets   = "no_presets"
	StatusNoBackup    = "no_backup"
	StatusEmptyBackup = "empty_backup"
	StatusPartial     = "partial"
)

// Report summarises a finished run.
type Report struct {
	Flow     string             `json:"flow"`
	Snapshot string             `json:"snapshot"`
	Status   string             `json:"status"`
	Presets  int                `json:"presets"`
	Removed  int                `json:"removed,omitempty"`
	Outcomes []Outcome          `json:"outcomes,omitempty"`
	Edits    []ListPositionEdit `json:"edits,omitempty"`
	Missing  int                `json:"missing,omitempty"`
}

// BestEffort counts presets stored without the camera reaching position.
func (r Report) BestEffort() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Converged {
			n++
		}
	}
	return n
}

// Runner executes one backup or restore against a single endpoint.
// Every exit path ends with Lifecycle.SelfDisable.
type Runner struct {
	Device    Device
	Lifecycle Lifecycle
	Store     SnapshotStore   // where backups are written and restores read from
	Mirrors   []SnapshotStore // extra copies written by Backup
	Name      string          // snapshot name
	Settings  Settings
	Sleep     SleepFunc
	Logger    *slog.Logger
	Metrics   *Metrics
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Runner) sleep(ctx context.Context, d time.Duration) error {
	if r.Sleep != nil {
		return r.Sleep(ctx, d)
	}
	return Sleep(ctx, d)
}

// finish is deferred by both flows so self-disable is always the last action.
func (r *Runner) finish(ctx context.Context, start time.Time, errp *error) {
	if r.Lifecycle != nil {
		r.logger().Info("deactivating", "snapshot", r.Name)
		if err := r.Lifecycle.SelfDisable(ctx); err != nil {
			*errp = errors.Join(*errp, fmt.Errorf("self disable: %w", err))
		}
	}
	r.Metrics.finish(start, *errp)
	if *errp != nil {
		r.logger().Error("run failed", "error", *errp, "elapsed", time.Since(start))
	}
}

// Backup captures every preset on the device and persists it under Name.
func (r *Runner) Backup(ctx context.Context) (rep Report, err error) {
	start := time.Now()
	defer r.finish(ctx, start, &err)
	rep = Report{Flow: "backup", Snapshot: r.Name}
	logger := r.logger()

	presets, err := ReadInventory(ctx, r.Device)
	if err != nil {
		return rep, err
	}
	rep.Presets = len(presets)
	r.Metrics.observeBackup(len(presets))

	if len(presets) == 0 {
		logger.Warn("no camera presets found, cancelling backup")
		rep.Status = StatusNoPresets
		return rep, nil
	}

	logger.Info("camera presets found, backing up", "count", len(presets), "snapshot", r.Name)
	if err := r.Store.Save(ctx, r.Name, presets); err != nil {
		return rep, fmt.Errorf("save snapshot %q: %w", r.Name, err)
	}
	for _, m := range r.Mirrors {
		if err := m.Save(ctx, r.Name, presets); err != nil {
			return rep, fmt.Errorf("save snapshot copy %q: %w", r.Name, err)
		}
	}

	rep.Status = StatusCompleted
	logger.Info("backup completed", "count", len(presets))
	return rep, nil
}

// Restore loads the snapshot named Name and rebuilds the device's presets from it.
func (r *Runner) Restore(ctx context.Context) (rep Report, err error) {
	start := time.Now()
	defer r.finish(ctx, start, &err)
	rep = Report{Flow: "restore", Snapshot: r.Name}
	logger := r.logger()

	logger.Info("loading backup", "snapshot", r.Name)
	backup, err := r.Store.Load(ctx, r.Name)
	if errors.Is(err, ErrSnapshotNotFound) {
		logger.Warn("no camera presets backup loaded, cancelling restore",
			"snapshot", r.Name, "hint", "ensure the backup has been uploaded to this device")
		rep.Status = StatusNoBackup
		return rep, nil
	}
	if err != nil {
		return rep, fmt.Errorf("load snapshot %q: %w", r.Name, err)
	}
	rep.Presets = len(backup)
	if len(backup) == 0 {
		logger.Warn("backup contains no presets, cancelling restore", "snapshot", r.Name)
		rep.Status = StatusEmptyBackup
		return rep, nil
	}
	if err := backup.Validate(); err != nil {
		return rep, fmt.Errorf("invalid snapshot %q: %w", r.Name, err)
	}
	logger.Info("camera presets loaded, beginning restore", "count", len(backup))

	if err := Wake(ctx, r.Device, r.Settings.WakeDelay, r.sleep, logger); err != nil {
		return rep, err
	}

	removed, err := ClearInventory(ctx, r.Device, logger)
	rep.Removed = removed
	if err != nil {
		return rep, err
	}

	rec := &Reconciler{
		Cameras:   r.Device,
		Inventory: r.Device,
		Settings:  r.Settings,
		Sleep:     r.Sleep,
		Logger:    logger,
		Metrics:   r.Metrics,
	}
	if err := restoreAll(ctx, rec, backup, &rep, logger); err != nil {
		return rep, err
	}

	v := &Validator{Inventory: r.Device, Logger: logger, Metrics: r.Metrics}
	edits, err := v.Validate(ctx, backup)
	rep.Edits = edits

	var partial *PartialInventoryError
	switch {
	case errors.Is(err, ErrEmptyInventory):
		logger.Warn("no current camera presets found")
		rep.Status = StatusNoPresets
		return rep, nil
	case errors.As(err, &partial):
		logger.Warn("camera presets missing after restore", "missing", partial.Missing)
		rep.Missing = partial.Missing
		rep.Status = StatusPartial
		return rep, nil
	case err != nil:
		return rep, err
	}

	rep.Status = StatusCompleted
	return rep, nil
}

func restoreAll(ctx context.Context, rec *Reconciler, backup models.Snapshot, rep *Report, logger *slog.Logger) error {
	logger.Info("restoring camera presets", "count", len(backup))
	if err := rec.Prepare(ctx); err != nil {
		return err
	}
	for _, p := range backup {
		out, err := rec.Reconcile(ctx, p)
		if err != nil {
			return err
		}
		rep.Outcomes = append(rep.Outcomes, out)
	}
	logger.Info("camera preset restore completed",
		"stored", len(rep.Outcomes), "best_effort", rep.BestEffort())
	return nil
}

// Wake makes sure the device is awake before cameras are moved. An awake
// device only has its standby timers reset; otherwise standby is left and
// the device gets delay to bring cameras up.
func Wake(ctx context.Context, sb Standby, delay time.Duration, sleep SleepFunc, logger *slog.Logger) error {
	state, err := sb.StandbyState(ctx)
	if err != nil {
		return fmt.Errorf("standby state: %w", err)
	}
	if state == models.StandbyOff {
		logger.Info("device is already awake, resetting halfwake and standby timers")
		if err := sb.ResetStandbyTimers(ctx); err != nil {
			return fmt.Errorf("reset standby timers: %w", err)
		}
		return nil
	}

	logger.Info("waking device out of standby", "state", state, "wait", delay)
	if err := sb.LeaveStandby(ctx); err != nil {
		return fmt.Errorf("leave standby: %w", err)
	}
	if sleep == nil {
		sleep = Sleep
	}
	return sleep(ctx, delay)
}
