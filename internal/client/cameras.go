package client

import (
	"context"
	"fmt"

	"camera-preset-cli/pkg/models"
)

type cameraStatus struct {
	Cameras []models.Camera `xml:"Cameras>Camera"`
}

type focusConfig struct {
	Mode string `xml:"Cameras>Camera>Focus>Mode"`
}

// GetCameras reads Status Cameras.
func (c *XAPIClient) GetCameras(ctx context.Context) ([]models.Camera, error) {
	var res cameraStatus
	if err := c.get(ctx, "/Status/Cameras", &res); err != nil {
		return nil, err
	}
	return res.Cameras, nil
}

// Position reads the live pan/tilt/zoom of one camera.
func (c *XAPIClient) Position(ctx context.Context, cameraID int) (models.Position, error) {
	var res cameraStatus
	if err := c.get(ctx, fmt.Sprintf("/Status/Cameras/Camera[%d]/Position", cameraID), &res); err != nil {
		return models.Position{}, err
	}
	if len(res.Cameras) == 0 {
		return models.Position{}, fmt.Errorf("camera %d: no position reported", cameraID)
	}
	return res.Cameras[0].Position, nil
}

// SetPosition moves all axes of a camera in a single Camera PositionSet.
// Lens is only sent when the position names one.
func (c *XAPIClient) SetPosition(ctx context.Context, cameraID int, pos models.Position) error {
	params := []param{arg("CameraId", cameraID)}
	if pos.Lens != "" {
		params = append(params, arg("Lens", pos.Lens))
	}
	params = append(params,
		arg("Pan", pos.Pan),
		arg("Tilt", pos.Tilt),
		arg("Zoom", pos.Zoom),
	)
	return c.command(ctx, []string{"Camera", "PositionSet"}, params, "", nil)
}

// FocusMode reads Configuration Cameras Camera[n] Focus Mode.
func (c *XAPIClient) FocusMode(ctx context.Context, cameraID int) (models.FocusMode, error) {
	var res focusConfig
	loc := fmt.Sprintf("/Configuration/Cameras/Camera[%d]/Focus/Mode", cameraID)
	if err := c.get(ctx, loc, &res); err != nil {
		return "", err
	}
	return models.FocusMode(res.Mode), nil
}

func (c *XAPIClient) SetFocusMode(ctx context.Context, cameraID int, mode models.FocusMode) error {
	path := []string{"Cameras", fmt.Sprintf("Camera[%d]", cameraID), "Focus", "Mode"}
	return c.configure(ctx, path, string(mode))
}

// SetSpeakerTrack activates or deactivates SpeakerTrack for the whole device.
func (c *XAPIClient) SetSpeakerTrack(ctx context.Context, enabled bool) error {
	action := "Deactivate"
	if enabled {
		action = "Activate"
	}
	return c.command(ctx, []string{"Cameras", "SpeakerTrack", action}, nil, "", nil)
}
