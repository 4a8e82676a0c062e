package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Snapshot is the ordered preset collection captured by one backup run.
// Order is the device's listing order, not ListPosition order.
type Snapshot []Preset

var snapshotValidate = validator.New()

// Validate checks every preset before any camera command is issued for it.
func (s Snapshot) Validate() error {
	var errs []error
	for i, p := range s {
		if err := snapshotValidate.Struct(p); err != nil {
			errs = append(errs, fmt.Errorf("preset %d (id %d): %w", i, p.PresetID, err))
		}
	}
	return errors.Join(errs...)
}
