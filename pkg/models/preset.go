package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PresetSummary is one row of the Camera Preset List result.
type PresetSummary struct {
	PresetID     int    `xml:"PresetId" json:"PresetId"`
	CameraID     int    `xml:"CameraId" json:"CameraId"`
	Name         string `xml:"Name" json:"Name"`
	ListPosition int    `xml:"ListPosition" json:"ListPosition"`
}

// Preset is a stored camera position together with its identity and ordering metadata.
// JSON keys match the device's own field names so older backup files load unchanged.
type Preset struct {
	PresetID        Int    `json:"PresetId" yaml:"PresetId" validate:"min=1"`
	CameraID        Int    `json:"CameraId" yaml:"CameraId" validate:"min=1"`
	Name            string `json:"Name" yaml:"Name" validate:"max=255"`
	ListPosition    Int    `json:"ListPosition" yaml:"ListPosition" validate:"min=0"`
	DefaultPosition Bool   `json:"DefaultPosition" yaml:"DefaultPosition"`
	Pan             Int    `json:"Pan" yaml:"Pan"`
	Tilt            Int    `json:"Tilt" yaml:"Tilt"`
	Zoom            Int    `json:"Zoom" yaml:"Zoom"`
	Lens            string `json:"Lens,omitempty" yaml:"Lens,omitempty" validate:"omitempty,oneof=Wide Center Left Right"`
}

// Target returns the absolute position the preset describes.
func (p Preset) Target() Position {
	return Position{Pan: int(p.Pan), Tilt: int(p.Tilt), Zoom: int(p.Zoom), Lens: p.Lens}
}

// HasLens reports whether the preset belongs to a multi-lens camera.
func (p Preset) HasLens() bool {
	return p.Lens != ""
}

// StoreRequest carries the identity fields for Camera Preset Store.
// The stored position is whatever the camera currently reports.
type StoreRequest struct {
	CameraID        int
	PresetID        int
	Name            string
	ListPosition    int
	DefaultPosition bool
}

// StoreRequestFor builds the store command for a backed-up preset.
func StoreRequestFor(p Preset) StoreRequest {
	return StoreRequest{
		CameraID:        int(p.CameraID),
		PresetID:        int(p.PresetID),
		Name:            p.Name,
		ListPosition:    int(p.ListPosition),
		DefaultPosition: bool(p.DefaultPosition),
	}
}

// Int is an integer that decodes from either a JSON number or a numeric string.
// The device's JSON output encodes every value as a string.
type Int int

func (i *Int) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*i = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid integer %q: %w", s, err)
		}
		*i = Int(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*i = Int(n)
	return nil
}

// Bool decodes from a JSON bool or the device literals "True"/"False".
// It encodes back to the device literal.
type Bool bool

func (b Bool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte(`"True"`), nil
	}
	return []byte(`"False"`), nil
}

func (b *Bool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParseBool(s)
		if err != nil {
			return err
		}
		*b = Bool(v)
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = Bool(v)
	return nil
}

// ParseBool accepts the device's True/False literals as well as Go's boolean forms.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "1":
		return true, nil
	case "false", "off", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

// BoolLiteral renders a bool the way xAPI expects it.
func BoolLiteral(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
