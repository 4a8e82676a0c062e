package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camera-preset-cli/pkg/models"
)

// endpoint is a minimal xAPI HTTP server. putxml bodies are recorded and
// answered from replies keyed by a substring of the request body. Requests
// need either a live session cookie or valid basic auth.
type endpoint struct {
	bodies   []string
	replies  map[string]string
	status   map[string]string
	sessions map[string]bool
	ended    int
}

func newEndpoint(t *testing.T) (*endpoint, *XAPIClient) {
	e := &endpoint{replies: map[string]string{}, status: map[string]string{}, sessions: map[string]bool{}}
	srv := httptest.NewServer(http.HandlerFunc(e.serve))
	t.Cleanup(srv.Close)
	return e, New(ClientConfig{BaseURL: srv.URL, Username: "admin", Password: "secret"})
}

func (e *endpoint) authorized(r *http.Request) bool {
	if ck, err := r.Cookie(SessionCookie); err == nil && e.sessions[ck.Value] {
		return true
	}
	user, pass, ok := r.BasicAuth()
	return ok && user == "admin" && pass == "secret"
}

func (e *endpoint) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/putxml" || r.URL.Path == "/getxml" {
		if !e.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
	}
	switch r.URL.Path {
	case "/xmlapi/session/begin":
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		e.sessions["abc123"] = true
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "abc123"})
		w.WriteHeader(http.StatusNoContent)
	case "/xmlapi/session/end":
		if ck, err := r.Cookie(SessionCookie); err == nil {
			delete(e.sessions, ck.Value)
		}
		e.ended++
		w.WriteHeader(http.StatusNoContent)
	case "/putxml":
		body, _ := io.ReadAll(r.Body)
		e.bodies = append(e.bodies, string(body))
		for key, reply := range e.replies {
			if strings.Contains(string(body), key) {
				_, _ = io.WriteString(w, reply)
				return
			}
		}
		_, _ = io.WriteString(w, `<?xml version="1.0"?><Command><Result status="OK"/></Command>`)
	case "/getxml":
		reply, ok := e.status[r.URL.Query().Get("location")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, reply)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	_, api := newEndpoint(t)

	session, err := api.Login()
	require.NoError(t, err)
	assert.Equal(t, "abc123", session)
	assert.Equal(t, "abc123", api.Session())

	assert.True(t, api.OwnsSession())

	require.NoError(t, api.Logout(context.Background()))
	assert.Empty(t, api.Session())
	assert.False(t, api.OwnsSession())
}

func TestLogoutHonoursContext(t *testing.T) {
	e, api := newEndpoint(t)
	_, err := api.Login()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, api.Logout(ctx))
	assert.Equal(t, 0, e.ended)
	assert.Equal(t, "abc123", api.Session())
}

func TestLoginRejected(t *testing.T) {
	_, api := newEndpoint(t)
	api.Config.Password = "wrong"
	api.HTTP.SetBasicAuth("admin", "wrong")

	_, err := api.Login()
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}

func TestListAndShowPresets(t *testing.T) {
	e, api := newEndpoint(t)
	e.replies["<List>"] = `<?xml version="1.0"?>
<Command><PresetListResult status="OK">
  <Preset item="1"><CameraId>1</CameraId><ListPosition>2</ListPosition><Name>Door</Name><PresetId>3</PresetId></Preset>
  <Preset item="2"><CameraId>2</CameraId><ListPosition>1</ListPosition><Name>Table</Name><PresetId>5</PresetId></Preset>
</PresetListResult></Command>`
	e.replies["<Show>"] = `<?xml version="1.0"?>
<Command><PresetShowResult status="OK">
  <CameraId>2</CameraId><DefaultPosition>True</DefaultPosition><Focus>4500</Focus><Lens>Wide</Lens>
  <ListPosition>1</ListPosition><Name>Table</Name><Pan>-120</Pan><PresetId>5</PresetId><Tilt>35</Tilt><Zoom>8000</Zoom>
</PresetShowResult></Command>`

	ctx := context.Background()
	list, err := api.ListPresets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.PresetSummary{
		{PresetID: 3, CameraID: 1, Name: "Door", ListPosition: 2},
		{PresetID: 5, CameraID: 2, Name: "Table", ListPosition: 1},
	}, list)

	p, err := api.ShowPreset(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, models.Preset{
		PresetID: 5, CameraID: 2, Name: "Table", ListPosition: 1, DefaultPosition: true,
		Pan: -120, Tilt: 35, Zoom: 8000, Lens: "Wide",
	}, p)
	assert.Contains(t, e.bodies[1], "<Command><Camera><Preset><Show><PresetId>5</PresetId></Show></Preset></Camera></Command>")
}

func TestStorePresetDocument(t *testing.T) {
	e, api := newEndpoint(t)

	err := api.StorePreset(context.Background(), models.StoreRequest{
		CameraID: 1, PresetID: 4, Name: "Q&A <stage>", ListPosition: 2, DefaultPosition: false,
	})
	require.NoError(t, err)
	require.Len(t, e.bodies, 1)
	assert.Equal(t,
		"<Command><Camera><Preset><Store>"+
			"<CameraId>1</CameraId><DefaultPosition>False</DefaultPosition><ListPosition>2</ListPosition>"+
			"<Name>Q&amp;A &lt;stage&gt;</Name><PresetId>4</PresetId>"+
			"</Store></Preset></Camera></Command>",
		e.bodies[0])
}

func TestSetPositionOmitsEmptyLens(t *testing.T) {
	e, api := newEndpoint(t)
	ctx := context.Background()

	require.NoError(t, api.SetPosition(ctx, 1, models.Position{Pan: 10, Tilt: -5, Zoom: 2000}))
	require.NoError(t, api.SetPosition(ctx, 1, models.Position{Pan: 10, Tilt: -5, Zoom: 2000, Lens: "Left"}))

	assert.NotContains(t, e.bodies[0], "<Lens>")
	assert.Contains(t, e.bodies[0], "<PositionSet><CameraId>1</CameraId><Pan>10</Pan><Tilt>-5</Tilt><Zoom>2000</Zoom></PositionSet>")
	assert.Contains(t, e.bodies[1], "<CameraId>1</CameraId><Lens>Left</Lens><Pan>10</Pan>")
}

func TestCommandErrorReason(t *testing.T) {
	e, api := newEndpoint(t)
	e.replies["<Get>"] = `<?xml version="1.0"?>
<Command><MacroGetResult status="Error"><Reason>No such macro</Reason></MacroGetResult></Command>`

	_, err := api.MacroContent(context.Background(), "Presets Backup File")
	require.Error(t, err)
	assert.True(t, IsReason(err, NoSuchMacro))

	var ce *CommandError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Macros Macro Get", ce.Command)
}

func TestSaveAndReadMacro(t *testing.T) {
	e, api := newEndpoint(t)
	e.replies["<Get>"] = `<?xml version="1.0"?>
<Command><MacroGetResult status="OK"><Macro item="1"><Name>Presets Backup File</Name><Active>False</Active>` +
		`<Content>[{"PresetId":"1"}]</Content></Macro></MacroGetResult></Command>`
	ctx := context.Background()

	require.NoError(t, api.SaveMacro(ctx, "Presets Backup File", `[{"PresetId":"1"}]`))
	assert.Contains(t, e.bodies[0], "<Overwrite>True</Overwrite>")
	assert.Contains(t, e.bodies[0], "<body>[{&#34;PresetId&#34;:&#34;1&#34;}]</body>")

	content, err := api.MacroContent(ctx, "Presets Backup File")
	require.NoError(t, err)
	assert.Equal(t, `[{"PresetId":"1"}]`, content)
}

func TestStatusAndConfiguration(t *testing.T) {
	e, api := newEndpoint(t)
	e.status["/Status/Cameras/Camera[2]/Position"] = `<?xml version="1.0"?>
<Status><Cameras><Camera item="2"><Position><Focus>4400</Focus><Pan>-40</Pan><Roll>0</Roll><Tilt>12</Tilt><Zoom>5100</Zoom></Position></Camera></Cameras></Status>`
	e.status["/Configuration/Cameras/Camera[2]/Focus/Mode"] = `<?xml version="1.0"?>
<Configuration><Cameras><Camera item="2"><Focus><Mode valueSpaceRef="/Valuespace/TTPAR_AutoManual">Auto</Mode></Focus></Camera></Cameras></Configuration>`
	e.status["/Status/Standby/State"] = `<?xml version="1.0"?><Status><Standby><State>Halfwake</State></Standby></Status>`
	ctx := context.Background()

	pos, err := api.Position(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, models.Position{Pan: -40, Tilt: 12, Zoom: 5100}, pos)

	mode, err := api.FocusMode(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, models.FocusAuto, mode)

	state, err := api.StandbyState(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StandbyHalfwake, state)

	require.NoError(t, api.SetFocusMode(ctx, 2, models.FocusManual))
	assert.Equal(t,
		`<Configuration><Cameras><Camera item="2"><Focus><Mode>Manual</Mode></Focus></Camera></Cameras></Configuration>`,
		e.bodies[0])
}

func TestHTTPErrorOnMissingStatus(t *testing.T) {
	_, api := newEndpoint(t)

	_, err := api.Position(context.Background(), 9)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestLifecycleDeactivatesTriggerMacro(t *testing.T) {
	e, api := newEndpoint(t)
	_, err := api.Login()
	require.NoError(t, err)

	require.NoError(t, Lifecycle{API: api, TriggerMacro: "Preset Restore"}.SelfDisable(context.Background()))
	require.Len(t, e.bodies, 1)
	assert.Contains(t, e.bodies[0], "<Macros><Macro><Deactivate><Name>Preset Restore</Name></Deactivate></Macro></Macros>")
	assert.Equal(t, 1, e.ended)
	assert.Empty(t, api.Session())
}

func TestSelfDisableKeepsSavedSession(t *testing.T) {
	e, login := newEndpoint(t)
	e.replies["<List>"] = `<?xml version="1.0"?><Command><PresetListResult status="OK"/></Command>`
	saved, err := login.Login()
	require.NoError(t, err)

	// Later runs only have the saved session, no password.
	resume := func() *XAPIClient {
		api := New(ClientConfig{BaseURL: login.Config.BaseURL, Username: "admin"})
		api.UseSession(saved)
		return api
	}

	run := resume()
	assert.False(t, run.OwnsSession())
	_, err = run.ListPresets(context.Background())
	require.NoError(t, err)
	require.NoError(t, Lifecycle{API: run}.SelfDisable(context.Background()))
	assert.Equal(t, 0, e.ended)
	assert.Equal(t, saved, run.Session())

	_, err = resume().ListPresets(context.Background())
	require.NoError(t, err)
}

func TestRevokedSessionIsRejected(t *testing.T) {
	e, login := newEndpoint(t)
	saved, err := login.Login()
	require.NoError(t, err)
	require.NoError(t, login.Logout(context.Background()))
	require.Equal(t, 1, e.ended)

	api := New(ClientConfig{BaseURL: login.Config.BaseURL, Username: "admin"})
	api.UseSession(saved)
	_, err = api.ListPresets(context.Background())
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}
