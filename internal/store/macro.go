// Package store persists preset snapshots on the endpoint or on local disk.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"camera-preset-cli/internal/client"
	"camera-preset-cli/internal/transfer"
	"camera-preset-cli/pkg/models"
)

// MacroFiles is the slice of the xAPI client that Macro needs.
type MacroFiles interface {
	SaveMacro(ctx context.Context, name, content string) error
	MacroContent(ctx context.Context, name string) (string, error)
}

// Macro keeps the snapshot as JSON inside a macro file on the device, where
// it can be downloaded from and uploaded to the macro editor.
type Macro struct {
	Files MacroFiles
}

func (m Macro) Save(ctx context.Context, name string, snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return m.Files.SaveMacro(ctx, name, string(data))
}

func (m Macro) Load(ctx context.Context, name string) (models.Snapshot, error) {
	content, err := m.Files.MacroContent(ctx, name)
	if client.IsReason(err, client.NoSuchMacro) {
		return nil, fmt.Errorf("macro %q: %w", name, transfer.ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("macro %q is empty: %w", name, transfer.ErrSnapshotNotFound)
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(content), &snap); err != nil {
		return nil, fmt.Errorf("decode macro %q: %w", name, err)
	}
	return snap, nil
}
