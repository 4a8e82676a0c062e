// Package transfer backs up camera presets from an endpoint and restores
// them, driving each camera back into position before a preset is stored.
package transfer

import (
	"context"

	"camera-preset-cli/pkg/models"
)

// Inventory is the endpoint's preset table.
type Inventory interface {
	ListPresets(ctx context.Context) ([]models.PresetSummary, error)
	ShowPreset(ctx context.Context, presetID int) (models.Preset, error)
	RemovePreset(ctx context.Context, presetID int) error
	StorePreset(ctx context.Context, req models.StoreRequest) error
	EditPreset(ctx context.Context, presetID, listPosition int) error
}

// Cameras moves cameras and reads their live state.
type Cameras interface {
	SetPosition(ctx context.Context, cameraID int, pos models.Position) error
	Position(ctx context.Context, cameraID int) (models.Position, error)
	FocusMode(ctx context.Context, cameraID int) (models.FocusMode, error)
	SetFocusMode(ctx context.Context, cameraID int, mode models.FocusMode) error
	SetSpeakerTrack(ctx context.Context, enabled bool) error
}

// Standby controls the endpoint's sleep state.
type Standby interface {
	StandbyState(ctx context.Context) (models.StandbyState, error)
	LeaveStandby(ctx context.Context) error
	ResetStandbyTimers(ctx context.Context) error
}

// Lifecycle is the terminal call of every run.
type Lifecycle interface {
	SelfDisable(ctx context.Context) error
}

// SnapshotStore persists snapshots under a name. Load wraps
// ErrSnapshotNotFound when nothing is stored under that name.
type SnapshotStore interface {
	Save(ctx context.Context, name string, snap models.Snapshot) error
	Load(ctx context.Context, name string) (models.Snapshot, error)
}

// Device is everything a restore needs from one endpoint.
type Device interface {
	Inventory
	Cameras
	Standby
}
