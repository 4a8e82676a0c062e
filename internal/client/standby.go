package client

import (
	"context"

	"camera-preset-cli/pkg/models"
)

type standbyStatus struct {
	State string `xml:"Standby>State"`
}

func (c *XAPIClient) StandbyState(ctx context.Context) (models.StandbyState, error) {
	var res standbyStatus
	if err := c.get(ctx, "/Status/Standby/State", &res); err != nil {
		return "", err
	}
	return models.StandbyState(res.State), nil
}

// LeaveStandby runs Standby Deactivate.
func (c *XAPIClient) LeaveStandby(ctx context.Context) error {
	return c.command(ctx, []string{"Standby", "Deactivate"}, nil, "", nil)
}

// ResetStandbyTimers restarts both the standby and the halfwake countdowns.
func (c *XAPIClient) ResetStandbyTimers(ctx context.Context) error {
	if err := c.command(ctx, []string{"Standby", "ResetTimer"}, nil, "", nil); err != nil {
		return err
	}
	return c.command(ctx, []string{"Standby", "ResetHalfwakeTimer"}, nil, "", nil)
}
