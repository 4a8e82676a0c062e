package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"camera-preset-cli/pkg/models"
)

var errInjected = errors.New("injected failure")

// fakeDevice is an in-memory endpoint. Cameras reach the commanded position
// immediately unless readings are queued or the camera is stuck.
type fakeDevice struct {
	presets  models.Snapshot
	current  map[int]models.Position
	readings map[int][]models.Position
	stuck    map[int]bool
	focus    map[int]models.FocusMode
	standby  models.StandbyState

	dropStore map[int]bool // preset ids whose store silently does nothing
	failOn    string       // method name that returns errInjected

	calls        []string
	stores       []models.StoreRequest
	edits        []ListPositionEdit
	setPositions []models.Position
	focusSets    []models.FocusMode
	speakerTrack []bool
	polls        int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		current:   map[int]models.Position{},
		readings:  map[int][]models.Position{},
		stuck:     map[int]bool{},
		focus:     map[int]models.FocusMode{},
		standby:   models.StandbyOff,
		dropStore: map[int]bool{},
	}
}

func (f *fakeDevice) record(name string) error {
	f.calls = append(f.calls, name)
	if f.failOn == name {
		return fmt.Errorf("%s: %w", name, errInjected)
	}
	return nil
}

func (f *fakeDevice) cameraCalls() int {
	n := 0
	for _, c := range f.calls {
		switch c {
		case "SetPosition", "Position", "FocusMode", "SetFocusMode", "SetSpeakerTrack", "StorePreset", "EditPreset", "RemovePreset":
			n++
		}
	}
	return n
}

func (f *fakeDevice) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeDevice) ListPresets(ctx context.Context) ([]models.PresetSummary, error) {
	if err := f.record("ListPresets"); err != nil {
		return nil, err
	}
	out := make([]models.PresetSummary, 0, len(f.presets))
	for _, p := range f.presets {
		out = append(out, models.PresetSummary{
			PresetID: int(p.PresetID), CameraID: int(p.CameraID), Name: p.Name, ListPosition: int(p.ListPosition),
		})
	}
	return out, nil
}

func (f *fakeDevice) ShowPreset(ctx context.Context, presetID int) (models.Preset, error) {
	if err := f.record("ShowPreset"); err != nil {
		return models.Preset{}, err
	}
	for _, p := range f.presets {
		if int(p.PresetID) == presetID {
			return p, nil
		}
	}
	return models.Preset{}, fmt.Errorf("preset %d not found", presetID)
}

func (f *fakeDevice) RemovePreset(ctx context.Context, presetID int) error {
	if err := f.record("RemovePreset"); err != nil {
		return err
	}
	for i, p := range f.presets {
		if int(p.PresetID) == presetID {
			f.presets = append(f.presets[:i], f.presets[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeDevice) StorePreset(ctx context.Context, req models.StoreRequest) error {
	if err := f.record("StorePreset"); err != nil {
		return err
	}
	f.stores = append(f.stores, req)
	if f.dropStore[req.PresetID] {
		return nil
	}
	pos := f.current[req.CameraID]
	f.presets = append(f.presets, models.Preset{
		PresetID:        models.Int(req.PresetID),
		CameraID:        models.Int(req.CameraID),
		Name:            req.Name,
		ListPosition:    models.Int(req.ListPosition),
		DefaultPosition: models.Bool(req.DefaultPosition),
		Pan:             models.Int(pos.Pan),
		Tilt:            models.Int(pos.Tilt),
		Zoom:            models.Int(pos.Zoom),
		Lens:            pos.Lens,
	})
	return nil
}

func (f *fakeDevice) EditPreset(ctx context.Context, presetID, listPosition int) error {
	if err := f.record("EditPreset"); err != nil {
		return err
	}
	for i := range f.presets {
		if int(f.presets[i].PresetID) == presetID {
			f.edits = append(f.edits, ListPositionEdit{PresetID: presetID, From: int(f.presets[i].ListPosition), To: listPosition})
			f.presets[i].ListPosition = models.Int(listPosition)
		}
	}
	return nil
}

func (f *fakeDevice) SetPosition(ctx context.Context, cameraID int, pos models.Position) error {
	if err := f.record("SetPosition"); err != nil {
		return err
	}
	f.setPositions = append(f.setPositions, pos)
	if !f.stuck[cameraID] {
		f.current[cameraID] = pos
	}
	return nil
}

func (f *fakeDevice) Position(ctx context.Context, cameraID int) (models.Position, error) {
	if err := f.record("Position"); err != nil {
		return models.Position{}, err
	}
	f.polls++
	if q := f.readings[cameraID]; len(q) > 0 {
		f.current[cameraID] = q[0]
		f.readings[cameraID] = q[1:]
	}
	return f.current[cameraID], nil
}

func (f *fakeDevice) FocusMode(ctx context.Context, cameraID int) (models.FocusMode, error) {
	if err := f.record("FocusMode"); err != nil {
		return "", err
	}
	if m, ok := f.focus[cameraID]; ok {
		return m, nil
	}
	return models.FocusManual, nil
}

func (f *fakeDevice) SetFocusMode(ctx context.Context, cameraID int, mode models.FocusMode) error {
	if err := f.record("SetFocusMode"); err != nil {
		return err
	}
	f.focusSets = append(f.focusSets, mode)
	f.focus[cameraID] = mode
	return nil
}

func (f *fakeDevice) SetSpeakerTrack(ctx context.Context, enabled bool) error {
	if err := f.record("SetSpeakerTrack"); err != nil {
		return err
	}
	f.speakerTrack = append(f.speakerTrack, enabled)
	return nil
}

func (f *fakeDevice) StandbyState(ctx context.Context) (models.StandbyState, error) {
	if err := f.record("StandbyState"); err != nil {
		return "", err
	}
	return f.standby, nil
}

func (f *fakeDevice) LeaveStandby(ctx context.Context) error {
	if err := f.record("LeaveStandby"); err != nil {
		return err
	}
	f.standby = models.StandbyOff
	return nil
}

func (f *fakeDevice) ResetStandbyTimers(ctx context.Context) error {
	return f.record("ResetStandbyTimers")
}

// fakeLifecycle shares the device's call log so ordering can be asserted.
type fakeLifecycle struct {
	dev   *fakeDevice
	calls int
}

func (l *fakeLifecycle) SelfDisable(ctx context.Context) error {
	l.calls++
	l.dev.calls = append(l.dev.calls, "SelfDisable")
	return nil
}

type memStore struct {
	snaps map[string]models.Snapshot
	saves int
}

func newMemStore() *memStore {
	return &memStore{snaps: map[string]models.Snapshot{}}
}

func (m *memStore) Save(ctx context.Context, name string, snap models.Snapshot) error {
	m.saves++
	m.snaps[name] = append(models.Snapshot(nil), snap...)
	return nil
}

func (m *memStore) Load(ctx context.Context, name string) (models.Snapshot, error) {
	s, ok := m.snaps[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrSnapshotNotFound)
	}
	return s, nil
}

// sleepRecorder replaces real waits in tests.
type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func preset(id, camera, pan, tilt, zoom, listPos int) models.Preset {
	return models.Preset{
		PresetID:     models.Int(id),
		CameraID:     models.Int(camera),
		Name:         fmt.Sprintf("Preset %d", id),
		ListPosition: models.Int(listPos),
		Pan:          models.Int(pan),
		Tilt:         models.Int(tilt),
		Zoom:         models.Int(zoom),
	}
}
