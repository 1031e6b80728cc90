package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/riddlechain/internal/app"
	"github.com/roach88/riddlechain/internal/engine"
	"github.com/roach88/riddlechain/internal/kv"
	"github.com/roach88/riddlechain/internal/library"
	"github.com/roach88/riddlechain/internal/metrics"
	"github.com/roach88/riddlechain/internal/schema"
	"github.com/roach88/riddlechain/internal/sequence"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	router  *gin.Engine
	ctrl    *app.Controller
	metrics *metrics.Observer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	lib := library.Load(t.Context(), kv.NewMemory(), library.WithLogger(logger))
	obs := metrics.New()
	ctrl := app.New(lib, app.WithLogger(logger), app.WithRunOptions(
		engine.WithFeedbackDelay(0),
		engine.WithObserver(obs),
		engine.WithTokenGenerator(engine.NewFixedGenerator("run-http")),
	))
	v, err := schema.New()
	require.NoError(t, err)

	srv := New(ctrl, WithLogger(logger), WithValidator(v), WithMetrics(obs.Handler()))
	return &fixture{router: srv.Router(), ctrl: ctrl, metrics: obs}
}

func (f *fixture) do(t *testing.T, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// viewBody mirrors the parts of app.View the tests read. The run's puzzle is
// an interface and cannot be decoded back.
type viewBody struct {
	Screen app.Screen
	Mode   app.Mode
	Run    *struct {
		RunToken   string
		Phase      engine.Phase
		IntroIndex int
		StepIndex  int
		Score      int
	}
}

type answerBody struct {
	Verdict struct {
		Valid   bool
		Correct bool
		Message string
	}
	View viewBody
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLibraryList(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/library", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[LibraryResponse](t, rec)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "seq-1", resp.Entries[0].ID)
	assert.Equal(t, sequence.DefaultTitle, resp.Entries[0].Title)
	assert.Equal(t, "Overall: no results yet – play a sequence to start collecting points.", resp.Overall)
}

func TestGetSequence_NotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/library/seq-404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeNotFound, decode[ErrorResponse](t, rec).Code)
}

func TestCreateAndSave(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/library", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[sequence.Sequence](t, rec)
	assert.Equal(t, "seq-2", created.ID)
	assert.Equal(t, app.ModeEdit, f.ctrl.Mode())

	created.Title = "River Roads"
	body, err := json.Marshal(created)
	require.NoError(t, err)

	rec = f.do(t, http.MethodPut, "/api/library/seq-2", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "River Roads", decode[sequence.Sequence](t, rec).Title)
	assert.Equal(t, app.ModePlay, f.ctrl.Mode())
}

func TestSave_SchemaViolation(t *testing.T) {
	f := newFixture(t)

	q := sequence.Default()
	q.Steps[0].SecondChance.Options = []string{"only one"}
	body, err := json.Marshal(q)
	require.NoError(t, err)

	rec := f.do(t, http.MethodPut, "/api/library/seq-1", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, CodeSchema, decode[ErrorResponse](t, rec).Code)
}

func TestSave_EmptyBody(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPut, "/api/library/seq-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportExport(t *testing.T) {
	f := newFixture(t)

	q := sequence.Default()
	q.ID = "seq-1"
	q.Title = "Imported"
	q.StatsRuns = 9
	body, err := json.Marshal(q)
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/api/import", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	imported := decode[sequence.Sequence](t, rec)
	assert.Equal(t, "seq-2", imported.ID)
	assert.Zero(t, imported.StatsRuns)

	rec = f.do(t, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 2)
}

func TestRun_NoActiveRun(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/run/begin", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, CodeNoActiveRun, decode[ErrorResponse](t, rec).Code)
}

func TestRun_PlayFlow(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/library/seq-1/play", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[viewBody](t, rec)
	require.NotNil(t, v.Run)
	assert.Equal(t, engine.PhaseIntro, v.Run.Phase)
	assert.Equal(t, "run-http", v.Run.RunToken)

	rec = f.do(t, http.MethodPost, "/api/run/skip", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(engine.ErrCodeWrongPhase), decode[ErrorResponse](t, rec).Code)

	rec = f.do(t, http.MethodPost, "/api/run/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[viewBody](t, rec).Run.IntroIndex)

	rec = f.do(t, http.MethodPost, "/api/run/back", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[viewBody](t, rec).Run.IntroIndex)

	rec = f.do(t, http.MethodPost, "/api/run/begin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, engine.PhaseMain, decode[viewBody](t, rec).Run.Phase)

	rec = f.do(t, http.MethodPost, "/api/run/answer", []byte(`{}`))
	require.Equal(t, http.StatusOK, rec.Code)
	ans := decode[answerBody](t, rec)
	assert.False(t, ans.Verdict.Valid)
	assert.Equal(t, "Choose one of the two answers.", ans.Verdict.Message)

	rec = f.do(t, http.MethodPost, "/api/run/answer", []byte(`{"selected":[0]}`))
	require.Equal(t, http.StatusOK, rec.Code)
	ans = decode[answerBody](t, rec)
	assert.True(t, ans.Verdict.Correct)
	assert.Equal(t, 8, ans.View.Run.Score)
	assert.Equal(t, engine.PhaseContext, ans.View.Run.Phase)

	rec = f.do(t, http.MethodPost, "/api/run/continue", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[viewBody](t, rec).Run.StepIndex)

	rec = f.do(t, http.MethodPost, "/api/run/restart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[viewBody](t, rec).Run.Score)

	rec = f.do(t, http.MethodPost, "/api/run/leave", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, app.ScreenLibrary, decode[viewBody](t, rec).Screen)
}

func TestRun_BadAnswerBody(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.SelectSequence("seq-1"))
	require.NoError(t, f.ctrl.BeginSequence())

	rec := f.do(t, http.MethodPost, "/api/run/answer", []byte(`{"selected":"zero"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.SelectSequence("seq-1"))
	require.NoError(t, f.ctrl.BeginSequence())
	f.do(t, http.MethodPost, "/api/run/answer", []byte(`{"selected":[1]}`))

	rec := f.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `riddles_answers_total{kind="closedQuestion",result="incorrect",stage="main"} 1`)
}

func TestRequestIDHeader(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/library", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
