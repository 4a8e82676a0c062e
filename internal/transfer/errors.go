package transfer

import (
	"errors"
	"fmt"
)

var (
	// ErrSnapshotNotFound means no backup exists under the requested name.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrEmptyInventory means the endpoint has no presets.
	ErrEmptyInventory = errors.New("no camera presets found")
)

// PartialInventoryError reports presets missing after a restore.
type PartialInventoryError struct {
	Live    int
	Backup  int
	Missing int
}

func (e *PartialInventoryError) Error() string {
	return fmt.Sprintf("missing %d camera presets (%d live, %d in backup)", e.Missing, e.Live, e.Backup)
}

// IsTerminal reports whether err ends a run cleanly rather than failing it.
func IsTerminal(err error) bool {
	var partial *PartialInventoryError
	return errors.Is(err, ErrSnapshotNotFound) ||
		errors.Is(err, ErrEmptyInventory) ||
		errors.As(err, &partial)
}
