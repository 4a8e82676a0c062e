package transfer

import (
	"context"
	"fmt"
	"log/slog"

	"camera-preset-cli/pkg/models"
)

// ReadInventory lists every preset and fetches its details, keeping the device's listing order.
func ReadInventory(ctx context.Context, inv Inventory) (models.Snapshot, error) {
	summaries, err := inv.ListPresets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	out := make(models.Snapshot, 0, len(summaries))
	for _, s := range summaries {
		p, err := inv.ShowPreset(ctx, s.PresetID)
		if err != nil {
			return nil, fmt.Errorf("show preset %d: %w", s.PresetID, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// ClearInventory removes every preset currently on the device and returns how many were removed.
func ClearInventory(ctx context.Context, inv Inventory, logger *slog.Logger) (int, error) {
	logger.Info("clearing existing camera presets")
	summaries, err := inv.ListPresets(ctx)
	if err != nil {
		return 0, fmt.Errorf("list presets: %w", err)
	}
	logger.Info("camera presets found", "count", len(summaries))
	for i, s := range summaries {
		logger.Debug("removing preset", "preset_id", s.PresetID, "name", s.Name)
		if err := inv.RemovePreset(ctx, s.PresetID); err != nil {
			return i, fmt.Errorf("remove preset %d: %w", s.PresetID, err)
		}
	}
	logger.Info("camera preset clear completed", "removed", len(summaries))
	return len(summaries), nil
}
