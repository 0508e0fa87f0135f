package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topicwheel/internal/auth"
	"topicwheel/internal/config"
	"topicwheel/internal/filestore"
	"topicwheel/internal/http/handler"
	"topicwheel/internal/moderation"
	"topicwheel/internal/topics"
	"topicwheel/internal/workflow"
)

const tokenSecret = "0123456789abcdef0123456789abcdef"

type testServer struct {
	t       *testing.T
	handler http.Handler
	dir     string
}

func newTestServer(t *testing.T, withTokens bool) *testServer {
	t.Helper()

	dir := t.TempDir()
	writeTopics(t, dir, "easy", `[{"id":"e1","title":"Todo","description":"Todo app","acceptance_criteria":"CRUD"}]`)
	writeTopics(t, dir, "hard", `[{"id":"h1","title":"Chat","description":"Realtime chat","acceptance_criteria":"Rooms"}]`)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := filestore.New(filepath.Join(dir, "state.json"))
	_, err := store.Load(context.Background())
	require.NoError(t, err)

	catalog := topics.NewCatalog(dir, topics.WithIntn(func(int) int { return 0 }))

	var jwtSvc *auth.JWT
	if withTokens {
		jwtSvc = auth.NewJWT(tokenSecret, "topicwheel", time.Hour)
	}

	h := NewRouter(config.CORSConfig{}, logger, jwtSvc, Handlers{
		Participant: handler.NewParticipantHandler(workflow.NewService(logger, store, catalog), jwtSvc, logger),
		Admin:       handler.NewAdminHandler(moderation.NewService(logger, store, auth.ParseAllowlist("Boss")), logger),
		Health: handler.NewHealthHandler("test-version",
			handler.HealthCheck{Name: "store", Pinger: store},
			handler.HealthCheck{Name: "topics", Pinger: catalog},
		),
	})

	return &testServer{t: t, handler: h, dir: dir}
}

func writeTopics(t *testing.T, dir, pool, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "topics_"+pool+".json"), []byte(body), 0o644))
}

type response struct {
	code int
	body map[string]any
	raw  string
}

func (s *testServer) do(method, path, body, token string) response {
	s.t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	resp := response{code: rec.Code, raw: rec.Body.String()}
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp.body), rec.Body.String())
	}
	return resp
}

func (s *testServer) post(path, body string) response { return s.do(http.MethodPost, path, body, "") }
func (s *testServer) get(path string) response        { return s.do(http.MethodGet, path, "", "") }

func field(t *testing.T, m map[string]any, path ...string) any {
	t.Helper()
	var cur any = m
	for _, p := range path {
		obj, ok := cur.(map[string]any)
		require.True(t, ok, "no object at %q in %v", p, m)
		cur = obj[p]
	}
	return cur
}

const ideaText = "Build a task tracker with calendar sync and reminders for teams"

func TestScenario_OwnIdeaRejectedAndResubmitted(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	resp := s.post("/api/login", `{"name":"Ivan Ivanov","level":"beginner"}`)
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	assert.Equal(t, true, resp.body["created"])
	assert.Nil(t, resp.body["token"])

	resp = s.post("/api/flow", `{"name":"ivan ivanov","flow":"own"}`)
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	assert.Equal(t, "own", field(t, resp.body, "user", "flow"))

	resp = s.post("/api/idea", `{"name":"Ivan Ivanov","idea":"`+ideaText+`"}`)
	require.Equal(t, http.StatusCreated, resp.code, resp.raw)
	firstID := field(t, resp.body, "submission", "id").(string)
	assert.Nil(t, field(t, resp.body, "user", "topic"))

	resp = s.get("/api/me?name=Ivan%20Ivanov")
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	assert.Equal(t, "pending", resp.body["status"])
	assert.Equal(t, ideaText, field(t, resp.body, "submission", "text"))
	assert.NotEmpty(t, field(t, resp.body, "submission", "createdAt"))

	resp = s.post("/api/admin/submissions/"+firstID+"/reject", `{"name":"Ivan Ivanov","adminComment":"nope"}`)
	assert.Equal(t, http.StatusForbidden, resp.code)

	resp = s.post("/api/admin/submissions/"+firstID+"/reject", `{"name":"boss","adminComment":"Too vague, add monetization"}`)
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	assert.Equal(t, "rejected", field(t, resp.body, "submission", "status"))

	resp = s.get("/api/me?name=ivan%20ivanov")
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	assert.Equal(t, "rejected", resp.body["status"])
	assert.Equal(t, "Too vague, add monetization", resp.body["adminComment"])
	assert.Equal(t, true, resp.body["canResubmit"])

	resp = s.post("/api/idea", `{"name":"Ivan Ivanov","idea":"`+ideaText+` and paid plans"}`)
	require.Equal(t, http.StatusCreated, resp.code, resp.raw)
	assert.NotEqual(t, firstID, field(t, resp.body, "submission", "id"))

	resp = s.get("/api/admin/submissions?name=boss&status=rejected")
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	rejected := resp.body["submissions"].([]any)
	require.Len(t, rejected, 1)
	old := rejected[0].(map[string]any)
	assert.Equal(t, firstID, old["id"])
	assert.Equal(t, ideaText, old["text"])

	resp = s.get("/api/admin/submissions?name=boss&status=pending")
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	assert.Len(t, resp.body["submissions"], 1)
}

func TestScenario_RandomDraw(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	require.Equal(t, http.StatusOK, s.post("/api/login", `{"name":"Anna Petrova","level":"experienced"}`).code)
	require.Equal(t, http.StatusOK, s.post("/api/flow", `{"name":"Anna Petrova","flow":"random"}`).code)

	resp := s.post("/api/spin", `{"name":"Anna Petrova"}`)
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	assert.Equal(t, "h1", resp.body["topicId"])
	assert.Equal(t, "Chat\n\nRealtime chat\n\nAcceptance criteria: Rooms", resp.body["topic"])

	resp = s.post("/api/spin", `{"name":"Anna Petrova"}`)
	require.Equal(t, http.StatusConflict, resp.code, resp.raw)
	assert.Equal(t, "topic_assigned", resp.body["reason"])

	resp = s.get("/api/me?name=Anna%20Petrova")
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	assert.Equal(t, "topic_assigned", resp.body["status"])
	assert.EqualValues(t, 14, resp.body["daysRemaining"])

	chosen, err := time.Parse(time.RFC3339Nano, field(t, resp.body, "user", "chosenAt").(string))
	require.NoError(t, err)
	deadline, err := time.Parse(time.RFC3339Nano, field(t, resp.body, "user", "deadlineAt").(string))
	require.NoError(t, err)
	assert.Equal(t, 14*24*time.Hour, deadline.Sub(chosen))

	// The only hard topic is used now.
	require.Equal(t, http.StatusOK, s.post("/api/login", `{"name":"Olga","level":"experienced"}`).code)
	resp = s.post("/api/spin", `{"name":"Olga"}`)
	require.Equal(t, http.StatusConflict, resp.code, resp.raw)
	assert.Equal(t, "pool_exhausted", resp.body["reason"])
}

func TestApproveThenComplete(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	require.Equal(t, http.StatusOK, s.post("/api/login", `{"name":"Ivan","level":"beginner"}`).code)
	resp := s.post("/api/idea", `{"name":"Ivan","idea":"`+ideaText+`"}`)
	require.Equal(t, http.StatusCreated, resp.code, resp.raw)
	id := field(t, resp.body, "submission", "id").(string)

	resp = s.post("/api/admin/submissions/"+id+"/approve",
		`{"name":"Boss","approvedTopicText":"Team task tracker","adminComment":"Good one"}`)
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	assert.Equal(t, "Team task tracker", field(t, resp.body, "user", "topic"))
	assert.Nil(t, field(t, resp.body, "user", "deadlineAt"))

	resp = s.post("/api/admin/submissions/"+id+"/approve", `{"name":"Boss"}`)
	require.Equal(t, http.StatusConflict, resp.code)
	assert.Equal(t, "submission_resolved", resp.body["reason"])

	resp = s.get("/api/admin/users?name=boss")
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	users := resp.body["users"].([]any)
	require.Len(t, users, 1)
	assert.Nil(t, users[0].(map[string]any)["daysLeft"], "the admin view does not start the clock")

	resp = s.get("/api/me?name=Ivan")
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	assert.Equal(t, "topic_assigned", resp.body["status"])
	assert.Equal(t, "Good one", resp.body["adminComment"])
	assert.NotNil(t, field(t, resp.body, "user", "deadlineAt"))
	assert.EqualValues(t, 14, resp.body["daysRemaining"])

	resp = s.post("/api/complete", `{"name":"Ivan","gitLink":"https://git.example/ivan"}`)
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	assert.Equal(t, "https://git.example/ivan", field(t, resp.body, "user", "gitLink"))

	resp = s.post("/api/complete", `{"name":"Ivan"}`)
	require.Equal(t, http.StatusConflict, resp.code)
	assert.Equal(t, "already_completed", resp.body["reason"])
}

func TestErrors(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)
	require.Equal(t, http.StatusOK, s.post("/api/login", `{"name":"Ivan","level":"beginner"}`).code)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
		reason string
	}{
		{name: "bad json", method: http.MethodPost, path: "/api/login", body: `{"name":`, code: http.StatusBadRequest},
		{name: "bad level", method: http.MethodPost, path: "/api/login", body: `{"name":"x","level":"guru"}`, code: http.StatusBadRequest},
		{name: "missing name", method: http.MethodGet, path: "/api/me", code: http.StatusBadRequest},
		{name: "unknown user", method: http.MethodGet, path: "/api/me?name=ghost", code: http.StatusNotFound},
		{name: "short idea", method: http.MethodPost, path: "/api/idea", body: `{"name":"Ivan","idea":"   short   "}`, code: http.StatusBadRequest},
		{name: "complete without topic", method: http.MethodPost, path: "/api/complete", body: `{"name":"Ivan"}`, code: http.StatusConflict, reason: "no_topic"},
		{name: "admin without name", method: http.MethodGet, path: "/api/admin/users", code: http.StatusUnauthorized},
		{name: "admin not allowed", method: http.MethodGet, path: "/api/admin/users?name=Ivan", code: http.StatusForbidden},
		{name: "bad status filter", method: http.MethodGet, path: "/api/admin/submissions?name=boss&status=lost", code: http.StatusBadRequest},
		{name: "unknown submission", method: http.MethodPost, path: "/api/admin/submissions/nope/reject", body: `{"name":"boss","adminComment":"x"}`, code: http.StatusNotFound},
	}

	for _, tt := range tests {
		resp := s.do(tt.method, tt.path, tt.body, "")
		assert.Equal(t, tt.code, resp.code, "%s: %s", tt.name, resp.raw)
		assert.NotEmpty(t, resp.body["error"], tt.name)
		if tt.reason != "" {
			assert.Equal(t, tt.reason, resp.body["reason"], tt.name)
		}
	}
}

func TestRejectRequiresComment(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	require.Equal(t, http.StatusOK, s.post("/api/login", `{"name":"Ivan","level":"beginner"}`).code)
	resp := s.post("/api/idea", `{"name":"Ivan","idea":"`+ideaText+`"}`)
	id := field(t, resp.body, "submission", "id").(string)

	resp = s.post("/api/admin/submissions/"+id+"/reject", `{"name":"boss","adminComment":"   "}`)
	require.Equal(t, http.StatusBadRequest, resp.code)
	fields := resp.body["fields"].([]any)
	require.Len(t, fields, 1)
	assert.Equal(t, "adminComment", fields[0].(map[string]any)["field"])

	resp = s.get("/api/me?name=Ivan")
	assert.Equal(t, "pending", resp.body["status"])
}

func TestSessionTokens(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, true)

	resp := s.post("/api/login", `{"name":"Anna","level":"experienced"}`)
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	token, _ := resp.body["token"].(string)
	require.NotEmpty(t, token)

	resp = s.do(http.MethodGet, "/api/me", "", token)
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	assert.Equal(t, "Anna", field(t, resp.body, "user", "name"))

	// The token identity wins over the name in the body.
	require.Equal(t, http.StatusOK, s.post("/api/login", `{"name":"Olga","level":"beginner"}`).code)
	resp = s.do(http.MethodPost, "/api/spin", `{"name":"Olga"}`, token)
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	assert.Equal(t, "Anna", field(t, resp.body, "user", "name"))

	resp = s.do(http.MethodGet, "/api/me?name=Anna", "", "forged")
	assert.Equal(t, http.StatusUnauthorized, resp.code)

	resp = s.get("/api/me?name=Olga")
	require.Equal(t, http.StatusOK, resp.code)
	assert.Equal(t, "selecting", resp.body["status"])
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	resp := s.get("/health")
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	assert.Equal(t, "ok", resp.body["status"])
	assert.Equal(t, "test-version", resp.body["version"])
	assert.Equal(t, "ok", field(t, resp.body, "components", "store", "status"))

	require.NoError(t, os.Remove(filepath.Join(s.dir, "topics_hard.json")))
	resp = s.get("/health")
	require.Equal(t, http.StatusServiceUnavailable, resp.code)
	assert.Equal(t, "down", field(t, resp.body, "components", "topics", "status"))
	assert.Equal(t, "ok", field(t, resp.body, "components", "store", "status"))
}
