package models

// Position is an absolute pan/tilt/zoom reading or target.
type Position struct {
	Pan  int    `xml:"Pan" json:"pan"`
	Tilt int    `xml:"Tilt" json:"tilt"`
	Zoom int    `xml:"Zoom" json:"zoom"`
	Lens string `xml:"Lens" json:"lens,omitempty"`
}

// FocusMode is the Cameras Camera[n] Focus Mode configuration value.
type FocusMode string

const (
	FocusAuto   FocusMode = "Auto"
	FocusManual FocusMode = "Manual"
)

// StandbyState mirrors Status Standby State.
type StandbyState string

const (
	StandbyOff             StandbyState = "Off"
	StandbyHalfwake        StandbyState = "Halfwake"
	StandbyEnteringStandby StandbyState = "EnteringStandby"
	StandbyStandby         StandbyState = "Standby"
)

// Camera is a single camera attached to the endpoint (Status Cameras Camera[n])
type Camera struct {
	ID           int      `xml:"item,attr" json:"id"`
	Connected    string   `xml:"Connected" json:"connected"`
	Manufacturer string   `xml:"Manufacturer" json:"manufacturer"`
	Model        string   `xml:"Model" json:"model"`
	SerialNumber string   `xml:"SerialNumber" json:"serialNumber"`
	Position     Position `xml:"Position" json:"position"`
}

// IsConnected reports the device's Connected flag.
func (c Camera) IsConnected() bool {
	v, _ := ParseBool(c.Connected)
	return v
}
