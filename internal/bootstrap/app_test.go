package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/employee_crud/internal/config"
	"github.com/locvowork/employee_crud/internal/database"
	"github.com/locvowork/employee_crud/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := config.Default()
	cfg.Primary.Env = "test"
	cfg.Log.Level = "error"
	cfg.Database = config.DatabaseConfig{
		Driver:      database.DriverSQLite,
		Path:        filepath.Join(t.TempDir(), "employees.db"),
		AutoMigrate: true,
	}

	app := NewApp()
	require.NoError(t, app.InitializeWithConfig(context.Background(), cfg))
	t.Cleanup(func() { _ = app.DB.Close() })
	return app
}

func call(app *App, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func TestEmployeeLifecycle(t *testing.T) {
	app := newTestApp(t)

	rec := call(app, http.MethodPost, "/api/employees", `{"firstName":"Angelos","lastName":"Toutsios","email":"a@x.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Employee
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	assert.Equal(t, "a@x.com", created.Email)

	path := fmt.Sprintf("/api/employees/%d", created.ID)

	rec = call(app, http.MethodPost, "/api/employees", `{"firstName":"Other","lastName":"Person","email":"a@x.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(app, http.MethodGet, "/api/employees", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []domain.Employee
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Equal(t, []domain.Employee{created}, all)

	rec = call(app, http.MethodPut, path, `{"firstName":"Angelos","lastName":"T","email":"angelos@x.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		fmt.Sprintf(`{"id":%d,"firstName":"Angelos","lastName":"T","email":"angelos@x.com"}`, created.ID),
		rec.Body.String())

	rec = call(app, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "angelos@x.com")

	rec = call(app, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Employee Deleted Successfully", rec.Body.String())

	rec = call(app, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = call(app, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(app, http.MethodGet, "/api/employees", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestOperationalRoutes(t *testing.T) {
	app := newTestApp(t)

	rec := call(app, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","database":"ok"}`, rec.Body.String())

	call(app, http.MethodGet, "/api/employees", "")
	rec = call(app, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "employee_crud_http_requests_total")

	rec = call(app, http.MethodGet, "/api/nowhere", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Route not found")

	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestInitializeRejectsUnreachableDatabase(t *testing.T) {
	cfg := config.Default()
	cfg.Database = config.DatabaseConfig{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "missing", "employees.db"),
	}

	err := NewApp().InitializeWithConfig(context.Background(), cfg)
	assert.Error(t, err)
}
