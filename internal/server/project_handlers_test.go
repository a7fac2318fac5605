package server

import (
	"net/http"
	"testing"
	"time"

	"shelfware/internal/database"
	"shelfware/internal/models"
	"shelfware/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// register signs a user up through the API and returns its token and id.
func (e *testEnv) register(t *testing.T, email string) (string, string) {
	t.Helper()
	var out authResponse
	resp := e.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"email": email, "password": "password123"}, "", &out)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	id, _ := out.User["id"].(string)
	return out.Token, id
}

func (e *testEnv) createProject(t *testing.T, token string, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	resp := e.do(t, http.MethodPost, "/api/projects", body, token, &out)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return out
}

func (e *testEnv) countProjects(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.Project{}).Count(&n).Error)
	return n
}

func TestCreateProject_OwnedByCaller(t *testing.T) {
	env := newTestEnv(t, testConfig())
	token, userID := env.register(t, "demo@example.com")

	created := env.createProject(t, token, map[string]interface{}{
		"title":        "4-bit CPU",
		"status":       "In Progress",
		"description":  "Breadboard computer",
		"githubUrl":    "https://github.com/demo/cpu",
		"hardwareInfo": map[string]interface{}{"chips": []string{"74LS181"}},
		"userId":       uuid.NewString(),
	})

	assert.NotEmpty(t, created["id"])
	assert.Equal(t, "4-bit CPU", created["title"])
	assert.Equal(t, "In Progress", created["status"])
	assert.Equal(t, userID, created["userId"])
	assert.Equal(t, map[string]interface{}{"chips": []interface{}{"74LS181"}}, created["hardwareInfo"])
	assert.Nil(t, created["docsUrl"])

	var fetched map[string]interface{}
	resp := env.do(t, http.MethodGet, "/api/projects/"+created["id"].(string), nil, token, &fetched)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, created["id"], fetched["id"])
	assert.Equal(t, created["hardwareInfo"], fetched["hardwareInfo"])
}

func TestCreateProject_Validation(t *testing.T) {
	env := newTestEnv(t, testConfig())
	token, _ := env.register(t, "demo@example.com")

	tests := []struct {
		name    string
		body    interface{}
		wantMsg string
	}{
		{"missing title", map[string]interface{}{"status": "Planning"}, "Title and status are required"},
		{"missing status", map[string]interface{}{"title": "Thing"}, "Title and status are required"},
		{"blank title", map[string]interface{}{"title": "   ", "status": "Planning"}, "Title and status are required"},
		{"malformed body", `{"title":`, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body models.ErrorResponse
			resp := env.do(t, http.MethodPost, "/api/projects", tt.body, token, &body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.wantMsg, body.Error)
		})
	}

	var body models.ErrorResponse
	resp := env.do(t, http.MethodPost, "/api/projects",
		map[string]interface{}{"title": "Thing", "status": "Shipped"}, token, &body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body.Error, "status")

	assert.Equal(t, int64(0), env.countProjects(t))
}

func TestCreateProject_RequiresAuth(t *testing.T) {
	env := newTestEnv(t, testConfig())

	resp := env.do(t, http.MethodPost, "/api/projects",
		map[string]interface{}{"title": "Thing", "status": "Planning"}, "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int64(0), env.countProjects(t))
}

func TestListProjects_Scoping(t *testing.T) {
	env := newTestEnv(t, testConfig())
	aliceToken, aliceID := env.register(t, "alice@example.com")
	bobToken, _ := env.register(t, "bob@example.com")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	aliceUUID := uuid.MustParse(aliceID)
	testutil.CreateProject(t, env.db, "Alice Old", &aliceUUID, base)
	testutil.CreateProject(t, env.db, "Alice New", &aliceUUID, base.Add(time.Hour))
	testutil.CreateProject(t, env.db, "Legacy", nil, base)
	env.createProject(t, bobToken, map[string]interface{}{"title": "Bob", "status": "Planning"})

	titles := func(projects []map[string]interface{}) []string {
		out := make([]string, 0, len(projects))
		for _, p := range projects {
			out = append(out, p["title"].(string))
		}
		return out
	}

	var mine []map[string]interface{}
	resp := env.do(t, http.MethodGet, "/api/projects", nil, aliceToken, &mine)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Alice New", "Alice Old"}, titles(mine))

	var anonymous []map[string]interface{}
	resp = env.do(t, http.MethodGet, "/api/projects", nil, "", &anonymous)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Legacy"}, titles(anonymous))

	// An unusable token is treated as no token.
	var invalid []map[string]interface{}
	resp = env.do(t, http.MethodGet, "/api/projects", nil, "garbage", &invalid)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Legacy"}, titles(invalid))
}

func TestListProjects_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t, testConfig())
	token, _ := env.register(t, "demo@example.com")

	var body []interface{}
	resp := env.do(t, http.MethodGet, "/api/projects", nil, token, &body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotNil(t, body)
	assert.Empty(t, body)
}

func TestProjectOwnership(t *testing.T) {
	env := newTestEnv(t, testConfig())
	ownerToken, _ := env.register(t, "owner@example.com")
	otherToken, _ := env.register(t, "other@example.com")

	created := env.createProject(t, ownerToken, map[string]interface{}{"title": "Private", "status": "Planning"})
	path := "/api/projects/" + created["id"].(string)
	update := map[string]interface{}{"title": "Hijacked", "status": "Abandoned"}

	tests := []struct {
		name    string
		method  string
		body    interface{}
		wantMsg string
	}{
		{"get", http.MethodGet, nil, "You do not have permission to access this project"},
		{"update", http.MethodPut, update, "You do not have permission to modify this project"},
		{"delete", http.MethodDelete, nil, "You do not have permission to delete this project"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body models.ErrorResponse
			resp := env.do(t, tt.method, path, tt.body, otherToken, &body)
			assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
			assert.Equal(t, tt.wantMsg, body.Error)
		})
	}

	var stored models.Project
	require.NoError(t, env.db.First(&stored, "id = ?", created["id"]).Error)
	assert.Equal(t, "Private", stored.Title)
}

func TestUnownedProject_OpenToAuthenticatedCallers(t *testing.T) {
	env := newTestEnv(t, testConfig())
	token, _ := env.register(t, "demo@example.com")
	legacy := testutil.CreateProject(t, env.db, "Legacy", nil, time.Now())
	path := "/api/projects/" + legacy.ID.String()

	resp := env.do(t, http.MethodGet, path, nil, "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var fetched map[string]interface{}
	resp = env.do(t, http.MethodGet, path, nil, token, &fetched)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Nil(t, fetched["userId"])

	var updated map[string]interface{}
	resp = env.do(t, http.MethodPut, path, map[string]interface{}{"title": "Revived", "status": "In Progress"}, token, &updated)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Revived", updated["title"])
	assert.Nil(t, updated["userId"])
}

func TestUpdateProject_ReplacesAllFields(t *testing.T) {
	env := newTestEnv(t, testConfig())
	token, userID := env.register(t, "demo@example.com")

	created := env.createProject(t, token, map[string]interface{}{
		"title":        "Smart Light Controller",
		"status":       "Planning",
		"description":  "ESP32 lights",
		"deployedUrl":  "https://lights.example.com",
		"hardwareInfo": map[string]interface{}{"board": "ESP32"},
	})
	path := "/api/projects/" + created["id"].(string)

	var updated map[string]interface{}
	resp := env.do(t, http.MethodPut, path, map[string]interface{}{"title": "Lights v2", "status": "Completed"}, token, &updated)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, "Lights v2", updated["title"])
	assert.Equal(t, "Completed", updated["status"])
	assert.Nil(t, updated["description"])
	assert.Nil(t, updated["deployedUrl"])
	assert.Nil(t, updated["hardwareInfo"])
	assert.Equal(t, userID, updated["userId"])
	createdAt, err := time.Parse(time.RFC3339Nano, created["createdAt"].(string))
	require.NoError(t, err)
	keptAt, err := time.Parse(time.RFC3339Nano, updated["createdAt"].(string))
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(keptAt), "createdAt changed: %v -> %v", createdAt, keptAt)

	var stored models.Project
	require.NoError(t, env.db.First(&stored, "id = ?", created["id"]).Error)
	assert.Nil(t, stored.Description)
	assert.Nil(t, stored.DeployedURL)
	assert.Equal(t, models.StatusCompleted, stored.Status)
}

func TestUpdateProject_Errors(t *testing.T) {
	env := newTestEnv(t, testConfig())
	token, _ := env.register(t, "demo@example.com")
	created := env.createProject(t, token, map[string]interface{}{"title": "Thing", "status": "Planning"})
	path := "/api/projects/" + created["id"].(string)
	valid := map[string]interface{}{"title": "Thing", "status": "Completed"}

	var body models.ErrorResponse
	resp := env.do(t, http.MethodPut, path, map[string]interface{}{"status": "Completed"}, token, &body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Title and status are required", body.Error)

	resp = env.do(t, http.MethodPut, "/api/projects/"+uuid.NewString(), valid, token, &body)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Project not found", body.Error)

	// Validation runs before the lookup.
	resp = env.do(t, http.MethodPut, "/api/projects/"+uuid.NewString(), map[string]interface{}{}, token, &body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDeleteProject(t *testing.T) {
	env := newTestEnv(t, testConfig())
	token, _ := env.register(t, "demo@example.com")
	created := env.createProject(t, token, map[string]interface{}{"title": "Thing", "status": "Planning"})
	path := "/api/projects/" + created["id"].(string)

	resp := env.do(t, http.MethodDelete, path, nil, token, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, int64(0), env.countProjects(t))

	var body models.ErrorResponse
	resp = env.do(t, http.MethodDelete, path, nil, token, &body)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Project not found", body.Error)

	resp = env.do(t, http.MethodGet, path, nil, token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProjectRoutes_InvalidID(t *testing.T) {
	env := newTestEnv(t, testConfig())
	token, _ := env.register(t, "demo@example.com")
	valid := map[string]interface{}{"title": "Thing", "status": "Planning"}

	tests := []struct {
		method string
		body   interface{}
	}{
		{http.MethodGet, nil},
		{http.MethodPut, valid},
		{http.MethodDelete, nil},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			var body models.ErrorResponse
			resp := env.do(t, tt.method, "/api/projects/not-a-uuid", tt.body, token, &body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "Invalid project ID format", body.Error)
		})
	}
}

func TestTokenResolution_StoreFailureIsServerError(t *testing.T) {
	cfg := testConfig()
	cfg.Env = "production"
	env := newTestEnv(t, cfg)
	token, _ := env.register(t, "demo@example.com")

	require.NoError(t, database.Close(env.db))

	tests := []struct {
		name string
		path string
	}{
		{"optional auth list", "/api/projects"},
		{"required auth profile", "/api/auth/profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body models.ErrorResponse
			resp := env.do(t, http.MethodGet, tt.path, nil, token, &body)
			assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
			assert.Equal(t, models.InternalErrorMessage, body.Error)
			assert.Empty(t, body.Details)
		})
	}
}
