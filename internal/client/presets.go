package client

import (
	"context"

	"camera-preset-cli/pkg/models"
)

type presetListResult struct {
	Presets []models.PresetSummary `xml:"Preset"`
}

// presetShowResult is the flat reply of Camera Preset Show.
type presetShowResult struct {
	PresetID        int    `xml:"PresetId"`
	CameraID        int    `xml:"CameraId"`
	Name            string `xml:"Name"`
	ListPosition    int    `xml:"ListPosition"`
	DefaultPosition string `xml:"DefaultPosition"`
	Pan             int    `xml:"Pan"`
	Tilt            int    `xml:"Tilt"`
	Zoom            int    `xml:"Zoom"`
	Lens            string `xml:"Lens"`
}

// ListPresets runs Camera Preset List. A device with no presets returns an empty slice.
func (c *XAPIClient) ListPresets(ctx context.Context) ([]models.PresetSummary, error) {
	var res presetListResult
	if err := c.command(ctx, []string{"Camera", "Preset", "List"}, nil, "", &res); err != nil {
		return nil, err
	}
	return res.Presets, nil
}

// ShowPreset runs Camera Preset Show for a single preset.
func (c *XAPIClient) ShowPreset(ctx context.Context, presetID int) (models.Preset, error) {
	var res presetShowResult
	err := c.command(ctx, []string{"Camera", "Preset", "Show"},
		[]param{arg("PresetId", presetID)}, "", &res)
	if err != nil {
		return models.Preset{}, err
	}

	def, _ := models.ParseBool(res.DefaultPosition)
	return models.Preset{
		PresetID:        models.Int(res.PresetID),
		CameraID:        models.Int(res.CameraID),
		Name:            res.Name,
		ListPosition:    models.Int(res.ListPosition),
		DefaultPosition: models.Bool(def),
		Pan:             models.Int(res.Pan),
		Tilt:            models.Int(res.Tilt),
		Zoom:            models.Int(res.Zoom),
		Lens:            res.Lens,
	}, nil
}

// RemovePreset runs Camera Preset Remove.
func (c *XAPIClient) RemovePreset(ctx context.Context, presetID int) error {
	return c.command(ctx, []string{"Camera", "Preset", "Remove"},
		[]param{arg("PresetId", presetID)}, "", nil)
}

// StorePreset commits the camera's current position under the given identity.
func (c *XAPIClient) StorePreset(ctx context.Context, req models.StoreRequest) error {
	params := []param{
		arg("CameraId", req.CameraID),
		arg("DefaultPosition", models.BoolLiteral(req.DefaultPosition)),
		arg("ListPosition", req.ListPosition),
		arg("Name", req.Name),
		arg("PresetId", req.PresetID),
	}
	return c.command(ctx, []string{"Camera", "Preset", "Store"}, params, "", nil)
}

// EditPreset changes the list position of an existing preset.
func (c *XAPIClient) EditPreset(ctx context.Context, presetID, listPosition int) error {
	return c.command(ctx, []string{"Camera", "Preset", "Edit"},
		[]param{arg("ListPosition", listPosition), arg("PresetId", presetID)}, "", nil)
}
