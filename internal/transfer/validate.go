package transfer

import (
	"context"
	"fmt"
	"log/slog"

	"camera-preset-cli/pkg/models"
)

// ListPositionEdit corrects the list position of one live preset.
type ListPositionEdit struct {
	PresetID int `json:"presetId"`
	From     int `json:"from"`
	To       int `json:"to"`
}

// Validator brings live list positions back in line with a backup.
type Validator struct {
	Inventory Inventory
	Logger    *slog.Logger
	Metrics   *Metrics
}

// Validate re-reads the live inventory and edits every preset whose list
// position differs from the backup entry with the same preset id.
// An empty inventory returns ErrEmptyInventory, fewer live presets than backed up
// returns a *PartialInventoryError; no edits are issued in either case.
func (v *Validator) Validate(ctx context.Context, backup models.Snapshot) ([]ListPositionEdit, error) {
	logger := v.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("validating camera presets")

	live, err := ReadInventory(ctx, v.Inventory)
	if err != nil {
		return nil, err
	}

	edits, err := PlanListPositions(live, backup)
	if err != nil {
		return nil, err
	}
	logger.Info("camera presets found, validating", "count", len(live))

	for i, e := range edits {
		logger.Info("changing list position", "preset_id", e.PresetID, "from", e.From, "to", e.To)
		if err := v.Inventory.EditPreset(ctx, e.PresetID, e.To); err != nil {
			return edits[:i], fmt.Errorf("edit preset %d: %w", e.PresetID, err)
		}
		v.Metrics.observeEdit()
	}
	logger.Info("camera validation completed", "edits", len(edits))
	return edits, nil
}

// PlanListPositions compares live presets against the backup without touching the device.
// Live presets missing from the backup are left alone, as are backup ids absent from live.
// A preset id listed more than once in the backup gets one edit per differing entry,
// in backup order, so the last of them decides the final list position.
func PlanListPositions(live, backup models.Snapshot) ([]ListPositionEdit, error) {
	if len(live) == 0 {
		return nil, ErrEmptyInventory
	}
	if len(live) < len(backup) {
		return nil, &PartialInventoryError{Live: len(live), Backup: len(backup), Missing: len(backup) - len(live)}
	}

	want := make(map[int][]int, len(backup))
	for _, b := range backup {
		id := int(b.PresetID)
		want[id] = append(want[id], int(b.ListPosition))
	}

	var edits []ListPositionEdit
	for _, p := range live {
		for _, pos := range want[int(p.PresetID)] {
			if pos == int(p.ListPosition) {
				continue
			}
			edits = append(edits, ListPositionEdit{PresetID: int(p.PresetID), From: int(p.ListPosition), To: pos})
		}
	}
	return edits, nil
}
