package client

import (
	"context"
	"errors"
)

// Lifecycle ends a run against the endpoint: it deactivates the macro that
// triggered the run (if any) and closes the HTTP session if the run opened it.
// A session saved by the login command is left alive for the next run.
type Lifecycle struct {
	API          *XAPIClient
	TriggerMacro string
}

func (l Lifecycle) SelfDisable(ctx context.Context) error {
	var errs []error
	if l.TriggerMacro != "" {
		if err := l.API.DeactivateMacro(ctx, l.TriggerMacro); err != nil && !IsReason(err, NoSuchMacro) {
			errs = append(errs, err)
		}
	}
	if l.API.OwnsSession() {
		if err := l.API.Logout(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
