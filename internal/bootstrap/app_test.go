package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	sharedauth "github.com/Nirnoy12/covercraft-ai-tools/internal/shared/auth"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/config"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/storage/db"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Env:              "dev",
		LogLevel:         "error",
		CORSAllowOrigin:  []string{"*"},
		DocumentStore:    "memory",
		LLMProvider:      "openai",
		LLMModel:         "gpt-4o-mini",
		ObjectStoreType:  "local",
		LocalStoreDir:    t.TempDir(),
		QuarantinePrefix: "quarantine",
		AuthJWTSecret:    "test-secret",
		UIRedirectURL:    "/dashboard",
	}
}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	signer, err := sharedauth.NewHMAC("test-secret", "", "")
	require.NoError(t, err)
	token, err := signer.Sign(sharedauth.Identity{Subject: subject, Email: subject + "@example.com"})
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(app *App, method, path, auth, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	return resp
}

func TestBuildDevApp(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { app.Close(context.Background()) })

	require.Nil(t, app.DB)
	require.False(t, app.GoogleAuth.Configured())

	resp := serve(app, http.MethodGet, "/api/v1/health", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"ok":true`)
}

func TestPreflightIsPermissive(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/generate-resume", nil)
	req.Header.Set("Origin", "https://app.example.com")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusNoContent, resp.Code)
	require.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, resp.Header().Get("Access-Control-Allow-Headers"), "authorization")
}

func TestAPIRequiresBearer(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)

	require.Equal(t, http.StatusUnauthorized, serve(app, http.MethodGet, "/api/v1/documents", "", "").Code)
	require.Equal(t, http.StatusUnauthorized, serve(app, http.MethodGet, "/api/v1/documents", "Bearer nope", "").Code)

	resp := serve(app, http.MethodGet, "/api/v1/documents", bearer(t, "user-a"), "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `[]`, resp.Body.String())
}

func TestGenerationThroughRouter(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)
	auth := bearer(t, "user-a")

	missing := serve(app, http.MethodPost, "/api/v1/generate-resume", auth, `{"jobDescription":"Engineer","userId":"user-a"}`)
	require.Equal(t, http.StatusBadRequest, missing.Code)

	mismatch := serve(app, http.MethodPost, "/api/v1/generate-resume", auth,
		`{"jobDescription":"Engineer","experience":"x","skills":"Go","userId":"user-b"}`)
	require.Equal(t, http.StatusForbidden, mismatch.Code)

	// No OPENAI_API_KEY in dev: the placeholder client fails generation cleanly.
	failed := serve(app, http.MethodPost, "/api/v1/generate-cover-letter", auth,
		`{"jobTitle":"Go Developer","company":"Acme","jobDescription":"APIs","experience":"x","skills":"Go","userId":"user-a"}`)
	require.Equal(t, http.StatusInternalServerError, failed.Code)
	require.Contains(t, failed.Body.String(), `"error":"Failed to generate cover letter"`)
}

func TestWebPagesMounted(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, serve(app, http.MethodGet, "/", "", "").Code)
	dash := serve(app, http.MethodGet, "/dashboard", "", "")
	require.Equal(t, http.StatusSeeOther, dash.Code)
	require.Equal(t, http.StatusOK, serve(app, http.MethodGet, "/dashboard", bearer(t, "user-a"), "").Code)
}

func TestBuildRejectsProductionWithoutAuth(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "production"
	cfg.AuthJWTSecret = ""
	cfg.OpenAIAPIKey = "sk-test"
	_, err := Build(context.Background(), cfg)
	require.Error(t, err)
}

func TestBuildRejectsUnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLMProvider = "mystery"
	_, err := Build(context.Background(), cfg)
	require.Error(t, err)
}

func TestBuildClosesPoolWhenMigrationsFail(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	prevConnect, prevMigrate := connectDB, migrateDB
	t.Cleanup(func() { connectDB, migrateDB = prevConnect, prevMigrate })
	connectDB = func(ctx context.Context, url string, opts db.Options) (*sql.DB, error) {
		return pool, nil
	}
	migrateDB = func(ctx context.Context, p *sql.DB) error {
		return errors.New("relation goose_db_version: permission denied")
	}

	cfg := testConfig(t)
	cfg.DatabaseURL = "postgres://covercraft@localhost/covercraft"
	_, err = Build(context.Background(), cfg)
	require.ErrorContains(t, err, "run migrations")
	require.NoError(t, mock.ExpectationsWereMet())
}
