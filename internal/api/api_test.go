package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/yourname/northstar/internal"
	"github.com/yourname/northstar/internal/api"
	"github.com/yourname/northstar/internal/auth"
	"github.com/yourname/northstar/internal/storage"
)

const testToken = "MOCK-TOKEN"

type testServer struct {
	router *gin.Engine
	store  *storage.SQLiteStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := internal.NewZapLogger(zap.NewNop().Sugar())
	store, err := storage.NewSQLiteStore(":memory:", logger)
	assert.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	app := api.NewApp(logger, store)
	router := api.NewRouter(app, auth.NewLocalProvider(testToken, logger))
	return &testServer{router: router, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/objectives"},
		{http.MethodPost, "/objectives"},
		{http.MethodGet, "/tasks"},
		{http.MethodPost, "/rituals/r1/completions"},
	} {
		w := s.do(t, route.method, route.path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	}
}

func TestRootAndWaitlistArePublic(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	w = s.do(t, http.MethodPost, "/waitlist", gin.H{"email": "Ada@Example.com"}, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}

func TestWaitlistValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/waitlist", gin.H{"email": ""}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Email is required"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/waitlist", gin.H{"email": "not-an-email"}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid email format"}`, w.Body.String())

	// A repeat signup is indistinguishable from the first.
	w = s.do(t, http.MethodPost, "/waitlist", gin.H{"email": "ada@example.com"}, false)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/waitlist", gin.H{"email": "ADA@example.com"}, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}

func TestObjectiveLifecycle(t *testing.T) {
	s := newTestServer(t)

	// Validation failure leaves nothing behind.
	w := s.do(t, http.MethodPost, "/objectives", gin.H{"category": "health"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Name and category are required"}`, w.Body.String())

	// A nested child missing its name is called out specifically.
	w = s.do(t, http.MethodPost, "/objectives", gin.H{
		"name":     "Learn piano",
		"category": "growth",
		"pillars":  []gin.H{{"weight": 2}},
	}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Each pillar requires a name"}`, w.Body.String())

	// Nested create with a client-supplied ID.
	payload := gin.H{
		"id":       "obj-client",
		"name":     "Learn piano",
		"category": "growth",
		"pillars":  []gin.H{{"name": "Technique", "weight": 2}},
		"metrics":  []gin.H{{"name": "Practice hours", "unit": "h", "target": 100}},
		"rituals":  []gin.H{{"name": "Daily scales", "frequency": "daily", "daysOfWeek": []string{"mon", "tue"}}},
	}
	w = s.do(t, http.MethodPost, "/objectives", payload, true)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Objective internal.Objective `json:"objective"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "obj-client", created.Objective.ID)
	assert.Len(t, created.Objective.Pillars, 1)
	assert.Len(t, created.Objective.Metrics, 1)
	assert.Len(t, created.Objective.Rituals, 1)

	// A second, bare objective to check ordering.
	w = s.do(t, http.MethodPost, "/objectives", gin.H{"name": "Ship the app", "category": "work"}, true)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/objectives", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Objectives []internal.Objective `json:"objectives"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed.Objectives, 2)
	assert.Equal(t, "Ship the app", listed.Objectives[0].Name)

	// Detail fetch.
	w = s.do(t, http.MethodGet, "/objectives/obj-client", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)

	// Partial update.
	w = s.do(t, http.MethodPatch, "/objectives/obj-client", gin.H{"name": "Master piano"}, true)
	assert.Equal(t, http.StatusOK, w.Code)
	var patched struct {
		Objective internal.Objective `json:"objective"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &patched))
	assert.Equal(t, "Master piano", patched.Objective.Name)
	assert.Equal(t, "growth", patched.Objective.Category)

	// Delete, then the resource is gone.
	w = s.do(t, http.MethodDelete, "/objectives/obj-client", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/objectives/obj-client", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Objective not found"}`, w.Body.String())
}

func seedForeignObjective(t *testing.T, s *testServer) {
	t.Helper()
	now := time.Now()
	obj := &internal.Objective{
		ID: "obj-foreign", UserID: "u2", Name: "Someone else's goal", Category: "other",
		CreatedAt: now, UpdatedAt: now,
		Metrics: []internal.Metric{
			{ID: "met-foreign", ObjectiveID: "obj-foreign", Name: "Theirs", CreatedAt: now, UpdatedAt: now},
		},
		Rituals: []internal.Ritual{
			{ID: "rit-foreign", ObjectiveID: "obj-foreign", Name: "Theirs", CreatedAt: now, UpdatedAt: now},
		},
	}
	assert.NoError(t, s.store.CreateObjective(context.Background(), obj))
}

func TestForeignResourcesLookAbsent(t *testing.T) {
	s := newTestServer(t)
	seedForeignObjective(t, s)

	for _, probe := range []struct {
		method, path, body, want string
	}{
		{http.MethodGet, "/objectives/obj-foreign", "", "Objective not found"},
		{http.MethodPatch, "/objectives/obj-foreign", `{"name":"x"}`, "Objective not found"},
		{http.MethodDelete, "/objectives/obj-foreign", "", "Objective not found"},
		{http.MethodGet, "/metrics/met-foreign/entries", "", "Metric not found"},
		{http.MethodPost, "/rituals/rit-foreign/completions", `{}`, "Ritual not found"},
	} {
		req := httptest.NewRequest(probe.method, probe.path, bytes.NewBufferString(probe.body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+testToken)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, probe.path)
		assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, probe.want), w.Body.String())
	}
}

func createObjective(t *testing.T, s *testServer) internal.Objective {
	t.Helper()
	payload := gin.H{
		"name":     "Get fit",
		"category": "health",
		"metrics":  []gin.H{{"name": "Weight", "unit": "kg", "target": 70, "targetDirection": "down"}},
		"rituals":  []gin.H{{"name": "Evening walk", "frequency": "daily"}},
	}
	w := s.do(t, http.MethodPost, "/objectives", payload, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Objective internal.Objective `json:"objective"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	return created.Objective
}

func TestTaskFlow(t *testing.T) {
	s := newTestServer(t)
	obj := createObjective(t, s)

	w := s.do(t, http.MethodPost, "/tasks", gin.H{"objectiveId": obj.ID}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Title, objectiveId, and scheduledAt are required"}`, w.Body.String())

	// Tasks against an objective you do not own read as absent.
	seedForeignObjective(t, s)
	w = s.do(t, http.MethodPost, "/tasks", gin.H{
		"title": "Sneak in", "objectiveId": "obj-foreign", "scheduledAt": time.Now(),
	}, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Objective not found"}`, w.Body.String())

	scheduled := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	w = s.do(t, http.MethodPost, "/tasks", gin.H{
		"title": "Gym session", "objectiveId": obj.ID, "scheduledAt": scheduled,
	}, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Task internal.Task `json:"task"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 30, created.Task.DurationMinutes)
	assert.Equal(t, internal.TaskStatusPending, created.Task.Status)
	assert.Nil(t, created.Task.CompletedAt)
	taskID := created.Task.ID

	// Day and objective filters.
	w = s.do(t, http.MethodGet, "/tasks?date=2026-03-10", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Tasks []internal.Task `json:"tasks"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed.Tasks, 1)

	w = s.do(t, http.MethodGet, "/tasks?date=2026-03-11", nil, true)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Empty(t, listed.Tasks)

	w = s.do(t, http.MethodGet, "/tasks?date=not-a-date", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid date, expected YYYY-MM-DD"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/tasks?objectiveId="+obj.ID, nil, true)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed.Tasks, 1)

	// Completing stamps completedAt once.
	w = s.do(t, http.MethodPatch, "/tasks/"+taskID, gin.H{"status": "completed"}, true)
	assert.Equal(t, http.StatusOK, w.Code)
	var completed struct {
		Task internal.Task `json:"task"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &completed))
	assert.NotNil(t, completed.Task.CompletedAt)
	firstStamp := *completed.Task.CompletedAt

	w = s.do(t, http.MethodPatch, "/tasks/"+taskID, gin.H{"status": "completed"}, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &completed))
	assert.NotNil(t, completed.Task.CompletedAt)
	assert.True(t, completed.Task.CompletedAt.Equal(firstStamp))

	w = s.do(t, http.MethodDelete, "/tasks/"+taskID, nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = s.do(t, http.MethodDelete, "/tasks/"+taskID, nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Task not found"}`, w.Body.String())
}

func TestMetricEntryFlow(t *testing.T) {
	s := newTestServer(t)
	obj := createObjective(t, s)
	metricID := obj.Metrics[0].ID

	w := s.do(t, http.MethodPost, "/metrics/"+metricID+"/entries", gin.H{}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Value is required"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/metrics/"+metricID+"/entries", gin.H{"value": 82.5}, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Entry internal.MetricEntry `json:"entry"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 82.5, created.Entry.Value)
	assert.False(t, created.Entry.RecordedAt.IsZero())

	// A backdated entry still becomes the current value.
	backdated := time.Now().AddDate(0, 0, -7)
	w = s.do(t, http.MethodPost, "/metrics/"+metricID+"/entries", gin.H{"value": 81.0, "recordedAt": backdated}, true)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/objectives/"+obj.ID, nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Objective internal.Objective `json:"objective"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, 81.0, detail.Objective.Metrics[0].Current)

	// Entries list newest first by recordedAt.
	w = s.do(t, http.MethodGet, "/metrics/"+metricID+"/entries", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Entries []internal.MetricEntry `json:"entries"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed.Entries, 2)
	assert.Equal(t, 82.5, listed.Entries[0].Value)
	assert.Equal(t, 81.0, listed.Entries[1].Value)
}

func TestRitualCompletionStreak(t *testing.T) {
	s := newTestServer(t)
	obj := createObjective(t, s)
	ritualID := obj.Rituals[0].ID

	type completionResponse struct {
		Completion internal.RitualCompletion `json:"completion"`
		Streak     int                       `json:"streak"`
	}

	yesterday := time.Now().AddDate(0, 0, -1)
	w := s.do(t, http.MethodPost, "/rituals/"+ritualID+"/completions", gin.H{"completedAt": yesterday}, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	var resp completionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Streak)

	w = s.do(t, http.MethodPost, "/rituals/"+ritualID+"/completions", gin.H{"note": "felt great"}, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Streak)
	assert.NotNil(t, resp.Completion.Note)

	// The persisted streaks follow.
	w = s.do(t, http.MethodGet, "/objectives/"+obj.ID, nil, true)
	var detail struct {
		Objective internal.Objective `json:"objective"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, 2, detail.Objective.Rituals[0].CurrentStreak)
	assert.Equal(t, 2, detail.Objective.Rituals[0].LongestStreak)
}

func TestRitualStreakResetsAfterGap(t *testing.T) {
	s := newTestServer(t)
	obj := createObjective(t, s)
	ritualID := obj.Rituals[0].ID

	// Two consecutive days build a streak of 2.
	for _, daysAgo := range []int{-4, -3} {
		completedAt := time.Now().AddDate(0, 0, daysAgo)
		w := s.do(t, http.MethodPost, "/rituals/"+ritualID+"/completions", gin.H{"completedAt": completedAt}, true)
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	// A completion after a multi-day gap resets the current streak.
	w := s.do(t, http.MethodPost, "/rituals/"+ritualID+"/completions", gin.H{}, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Streak int `json:"streak"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Streak)

	// The longest streak never decreases: it keeps the broken run's 2
	// while the current streak drops to 1.
	w = s.do(t, http.MethodGet, "/objectives/"+obj.ID, nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Objective internal.Objective `json:"objective"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, 1, detail.Objective.Rituals[0].CurrentStreak)
	assert.Equal(t, 2, detail.Objective.Rituals[0].LongestStreak)
}

func TestRequestIDPropagation(t *testing.T) {
	s := newTestServer(t)

	// A caller-supplied correlation ID is echoed back.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	// Without one, the server generates an ID.
	w = s.do(t, http.MethodGet, "/", nil, false)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestInvalidJSONRejected(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/objectives", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON"}`, w.Body.String())
}
