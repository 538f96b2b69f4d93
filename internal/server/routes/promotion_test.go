package routes_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ngrobisa/artifactory-plugin/internal/auth"
	"github.com/ngrobisa/artifactory-plugin/internal/config"
	"github.com/ngrobisa/artifactory-plugin/internal/server"
	"github.com/ngrobisa/artifactory-plugin/internal/usecase"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted stand-in for the remote Artifactory promotion endpoint
type fakeArtifactory struct {
	mu        sync.Mutex
	responses []struct {
		code int
		body string
	}
	calls      atomic.Int64
	blockFirst chan struct{}
}

func (f *fakeArtifactory) respond(code int, body string) *fakeArtifactory {
	f.responses = append(f.responses, struct {
		code int
		body string
	}{code, body})
	return f
}

func (f *fakeArtifactory) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := f.calls.Add(1)
		if f.blockFirst != nil && n == 1 {
			<-f.blockFirst
		}
		f.mu.Lock()
		idx := int(n) - 1
		if idx >= len(f.responses) {
			idx = len(f.responses) - 1
		}
		resp := f.responses[idx]
		f.mu.Unlock()
		w.WriteHeader(resp.code)
		w.Write([]byte(resp.body))
	}
}

func newTestServer(t *testing.T, artifactoryURL string, promoters []string) *echo.Echo {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = "" // in-memory database
	cfg.Permissions.Promote = promoters
	cfg.Worker.MinVisibleDuration = 0
	cfg.Servers = []config.Server{{
		ID:                  "main",
		URL:                 artifactoryURL,
		ReleaseRepositories: []string{"libs-release-local"},
		Repositories:        []string{"libs-snapshot-local"},
		Deployer:            config.Credentials{Username: "ci", Password: "secret"},
	}}
	require.NoError(t, cfg.Validate())
	return server.New(&server.Config{Config: cfg, Logger: zerolog.Nop()}).Echo()
}

func doJSON(e *echo.Echo, method, path, body, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if user != "" {
		req.Header.Set(auth.UserHeader, user)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func doForm(e *echo.Echo, path, form, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if user != "" {
		req.Header.Set(auth.UserHeader, user)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func registerBuild(t *testing.T, e *echo.Echo) {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/api/builds", `{"project":"app","number":7,"server_id":"main"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func getView(t *testing.T, e *echo.Echo) usecase.PromotionView {
	t.Helper()
	view, ok := tryView(e)
	require.True(t, ok, "view chooser request failed")
	return view
}

// tryView is the non-fatal variant used inside Eventually polls.
func tryView(e *echo.Echo) (usecase.PromotionView, bool) {
	rec := doJSON(e, http.MethodGet, "/api/builds/app/7/promote", "", "")
	if rec.Code != http.StatusOK {
		return usecase.PromotionView{}, false
	}
	var view usecase.PromotionView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		return usecase.PromotionView{}, false
	}
	return view, true
}

const promoteForm = "targetStatus=Released&repositoryKey=libs-release-local&comment=ga&useCopy=true&includeDependencies=false"

func TestHealth(t *testing.T) {
	e := newTestServer(t, "http://artifactory.invalid", []string{"*"})
	rec := doJSON(e, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterBuild(t *testing.T) {
	e := newTestServer(t, "http://artifactory.invalid", []string{"*"})

	registerBuild(t, e)

	rec := doJSON(e, http.MethodPost, "/api/builds", `{"project":"app","number":7,"server_id":"main"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/builds", `{"project":"app","number":8,"server_id":"nope"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/builds", `{"project":"","number":1,"server_id":"main"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/builds", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Builds []struct {
			Project string `json:"project"`
			Number  int    `json:"number"`
		} `json:"builds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Builds, 1)
	assert.Equal(t, "app", resp.Builds[0].Project)
}

func TestPromotionFlow(t *testing.T) {
	fake := (&fakeArtifactory{blockFirst: make(chan struct{})}).
		respond(200, `{"messages":[]}`).
		respond(200, `{"messages":[{"level":"INFO","message":"Promoted"}]}`)
	art := httptest.NewServer(fake.handler())
	defer art.Close()

	e := newTestServer(t, art.URL, []string{"alice"})
	registerBuild(t, e)

	view := getView(t, e)
	assert.EqualValues(t, "form", view.View)
	assert.EqualValues(t, []string{"libs-release-local", "libs-snapshot-local"}, view.Repositories)
	require.Len(t, view.Statuses, 2)
	assert.EqualValues(t, "Released", view.Statuses[0])
	assert.EqualValues(t, "Rolled-back", view.Statuses[1])
	assert.Empty(t, view.LastRepository)

	rec := doForm(e, "/api/builds/app/7/promote", promoteForm, "alice")
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	require.Eventually(t, func() bool { return fake.calls.Load() == 1 }, 3*time.Second, 5*time.Millisecond)
	view = getView(t, e)
	assert.EqualValues(t, "progress", view.View)
	assert.NotNil(t, view.StartedAt)
	assert.NotEmpty(t, view.Log)

	// duplicate submission while running is rejected, no second session
	rec = doForm(e, "/api/builds/app/7/promote", promoteForm, "alice")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.EqualValues(t, 1, fake.calls.Load())

	close(fake.blockFirst)
	require.Eventually(t, func() bool {
		view, ok := tryView(e)
		return ok && view.View == "form"
	}, 3*time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 2, fake.calls.Load())

	view = getView(t, e)
	assert.Equal(t, "libs-release-local", view.LastRepository)

	rec = doJSON(e, http.MethodGet, "/api/builds/app/7/promote/log", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var log usecase.PromotionLog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &log))
	assert.False(t, log.Running)
	assert.Contains(t, log.Log, "Dry run finished successfully.")
	assert.Contains(t, log.Log, "Promotion completed successfully!")
	require.Len(t, log.History, 1)
	assert.True(t, log.History[0].Succeeded)
	assert.Equal(t, "alice", log.History[0].CiUser)
}

func TestPromotionDryRunConflict(t *testing.T) {
	fake := (&fakeArtifactory{}).respond(409, `conflict`)
	art := httptest.NewServer(fake.handler())
	defer art.Close()

	e := newTestServer(t, art.URL, []string{"*"})
	registerBuild(t, e)

	rec := doForm(e, "/api/builds/app/7/promote", promoteForm, "alice")
	require.Equal(t, http.StatusAccepted, rec.Code)

	require.Eventually(t, func() bool {
		view, ok := tryView(e)
		return ok && view.View == "form"
	}, 3*time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 1, fake.calls.Load(), "no real run after a failed dry run")

	rec = doJSON(e, http.MethodGet, "/api/builds/app/7/promote/log", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var log usecase.PromotionLog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &log))
	require.Len(t, log.History, 1)
	assert.False(t, log.History[0].DryRunPassed)
	assert.False(t, log.History[0].Succeeded)

	joined := strings.Join(log.Log, "\n")
	assert.Contains(t, joined, "no change in Artifactory was done")
}

func TestPromotionErrors(t *testing.T) {
	e := newTestServer(t, "http://artifactory.invalid", []string{"alice"})
	registerBuild(t, e)

	// unknown build
	rec := doForm(e, "/api/builds/app/99/promote", promoteForm, "alice")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// anonymous caller lacks the promote capability
	rec = doForm(e, "/api/builds/app/7/promote", promoteForm, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// missing repository key
	rec = doForm(e, "/api/builds/app/7/promote", "targetStatus=Released&repositoryKey=", "alice")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// disabled status
	rec = doForm(e, "/api/builds/app/7/promote", "targetStatus=Staged&repositoryKey=libs-release-local", "alice")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// malformed build number
	rec = doJSON(e, http.MethodGet, "/api/builds/app/x/promote", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
