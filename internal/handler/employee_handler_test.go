package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/employee_crud/internal/domain"
	"github.com/locvowork/employee_crud/internal/errs"
	"github.com/locvowork/employee_crud/internal/export"
	"github.com/locvowork/employee_crud/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type mockEmployeeService struct {
	mock.Mock
}

func (m *mockEmployeeService) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	args := m.Called(ctx, e)
	out, _ := args.Get(0).(*domain.Employee)
	return out, args.Error(1)
}

func (m *mockEmployeeService) ListAll(ctx context.Context) ([]domain.Employee, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]domain.Employee)
	return out, args.Error(1)
}

func (m *mockEmployeeService) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*domain.Employee)
	return out, args.Error(1)
}

func (m *mockEmployeeService) Update(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	args := m.Called(ctx, e)
	out, _ := args.Get(0).(*domain.Employee)
	return out, args.Error(1)
}

func (m *mockEmployeeService) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func setupEmployeeHandler(svc *mockEmployeeService) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	NewEmployeeHandler(svc, export.NewExporter(export.DefaultLayout())).Register(e.Group("/api"))
	return e
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeHTTPError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

const angelosBody = `{"firstName":"Angelos","lastName":"Toutsios","email":"a@x.com"}`

func TestCreateHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(mockEmployeeService)
		svc.On("Create", mock.Anything, &domain.Employee{FirstName: "Angelos", LastName: "Toutsios", Email: "a@x.com"}).
			Return(&domain.Employee{ID: 1, FirstName: "Angelos", LastName: "Toutsios", Email: "a@x.com"}, nil)

		rec := doRequest(setupEmployeeHandler(svc), http.MethodPost, "/api/employees", angelosBody)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"id":1,"firstName":"Angelos","lastName":"Toutsios","email":"a@x.com"}`, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("body id is ignored", func(t *testing.T) {
		svc := new(mockEmployeeService)
		svc.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.Employee) bool { return e.ID == 0 })).
			Return(&domain.Employee{ID: 3, FirstName: "Angelos", LastName: "Toutsios", Email: "a@x.com"}, nil)

		rec := doRequest(setupEmployeeHandler(svc), http.MethodPost, "/api/employees",
			`{"id":99,"firstName":"Angelos","lastName":"Toutsios","email":"a@x.com"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("email taken", func(t *testing.T) {
		svc := new(mockEmployeeService)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, &domain.ConflictError{Email: "a@x.com"})

		rec := doRequest(setupEmployeeHandler(svc), http.MethodPost, "/api/employees", angelosBody)

		require.Equal(t, http.StatusConflict, rec.Code)
		body := decodeHTTPError(t, rec)
		assert.Equal(t, errs.CodeEmployeeAlreadyExists, body.Code)
		assert.Equal(t, "employee already exists with given email a@x.com", body.Message)
	})

	t.Run("validation failure", func(t *testing.T) {
		svc := new(mockEmployeeService)

		rec := doRequest(setupEmployeeHandler(svc), http.MethodPost, "/api/employees", `{"firstName":"Angelos","email":"nope"}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeHTTPError(t, rec)
		assert.Equal(t, errs.CodeValidationFailed, body.Code)
		assert.Len(t, body.Errors, 2)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := new(mockEmployeeService)

		rec := doRequest(setupEmployeeHandler(svc), http.MethodPost, "/api/employees", `{"firstName":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store failure hides the cause", func(t *testing.T) {
		svc := new(mockEmployeeService)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

		rec := doRequest(setupEmployeeHandler(svc), http.MethodPost, "/api/employees", angelosBody)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestListHandler(t *testing.T) {
	t.Run("empty is an array", func(t *testing.T) {
		svc := new(mockEmployeeService)
		svc.On("ListAll", mock.Anything).Return(nil, nil)

		rec := doRequest(setupEmployeeHandler(svc), http.MethodGet, "/api/employees", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("rows", func(t *testing.T) {
		svc := new(mockEmployeeService)
		svc.On("ListAll", mock.Anything).Return([]domain.Employee{
			{ID: 1, FirstName: "Ramesh", LastName: "Fadarate", Email: "ramesh@x.com"},
			{ID: 2, FirstName: "Angelos", LastName: "Toutsios", Email: "a@x.com"},
		}, nil)

		rec := doRequest(setupEmployeeHandler(svc), http.MethodGet, "/api/employees", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var got []domain.Employee
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, int64(2), got[1].ID)
	})
}

func TestGetHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(mockEmployeeService)
		svc.On("GetByID", mock.Anything, int64(7)).
			Return(&domain.Employee{ID: 7, FirstName: "Maria", LastName: "Kontouri", Email: "m@x.com"}, nil)

		rec := doRequest(setupEmployeeHandler(svc), http.MethodGet, "/api/employees/7", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":7,"firstName":"Maria","lastName":"Kontouri","email":"m@x.com"}`, rec.Body.String())
	})

	t.Run("absent is an empty 404", func(t *testing.T) {
		svc := new(mockEmployeeService)
		svc.On("GetByID", mock.Anything, int64(999)).Return(nil, nil)

		rec := doRequest(setupEmployeeHandler(svc), http.MethodGet, "/api/employees/999", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	for _, id := range []string{"abc", "0", "-4"} {
		t.Run("invalid id "+id, func(t *testing.T) {
			svc := new(mockEmployeeService)

			rec := doRequest(setupEmployeeHandler(svc), http.MethodGet, "/api/employees/"+id, "")

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid employee ID", decodeHTTPError(t, rec).Message)
			svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateHandler(t *testing.T) {
	t.Run("merges onto the stored employee", func(t *testing.T) {
		svc := new(mockEmployeeService)
		svc.On("GetByID", mock.Anything, int64(5)).
			Return(&domain.Employee{ID: 5, FirstName: "Old", LastName: "Name", Email: "old@x.com"}, nil)
		want := &domain.Employee{ID: 5, FirstName: "Angelos", LastName: "Toutsios", Email: "a@x.com"}
		svc.On("Update", mock.Anything, want).Return(want, nil)

		rec := doRequest(setupEmployeeHandler(svc), http.MethodPut, "/api/employees/5",
			`{"id":42,"firstName":"Angelos","lastName":"Toutsios","email":"a@x.com"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":5,"firstName":"Angelos","lastName":"Toutsios","email":"a@x.com"}`, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("absent is an empty 404", func(t *testing.T) {
		svc := new(mockEmployeeService)
		svc.On("GetByID", mock.Anything, int64(5)).Return(nil, nil)

		rec := doRequest(setupEmployeeHandler(svc), http.MethodPut, "/api/employees/5", angelosBody)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
		svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("email taken by someone else", func(t *testing.T) {
		svc := new(mockEmployeeService)
		svc.On("GetByID", mock.Anything, int64(5)).
			Return(&domain.Employee{ID: 5, FirstName: "Old", LastName: "Name", Email: "old@x.com"}, nil)
		svc.On("Update", mock.Anything, mock.Anything).Return(nil, &domain.ConflictError{Email: "a@x.com"})

		rec := doRequest(setupEmployeeHandler(svc), http.MethodPut, "/api/employees/5", angelosBody)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("deleted between read and write", func(t *testing.T) {
		svc := new(mockEmployeeService)
		svc.On("GetByID", mock.Anything, int64(5)).
			Return(&domain.Employee{ID: 5, FirstName: "Old", LastName: "Name", Email: "old@x.com"}, nil)
		svc.On("Update", mock.Anything, mock.Anything).Return(nil, domain.ErrEmployeeNotFound)

		rec := doRequest(setupEmployeeHandler(svc), http.MethodPut, "/api/employees/5", angelosBody)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, errs.CodeEmployeeNotFound, decodeHTTPError(t, rec).Code)
	})
}

func TestDeleteHandler(t *testing.T) {
	svc := new(mockEmployeeService)
	svc.On("DeleteByID", mock.Anything, int64(12345)).Return(nil)

	rec := doRequest(setupEmployeeHandler(svc), http.MethodDelete, "/api/employees/12345", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, DeleteConfirmation, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestExportHandler(t *testing.T) {
	svc := new(mockEmployeeService)
	svc.On("ListAll", mock.Anything).Return([]domain.Employee{
		{ID: 1, FirstName: "Ramesh", LastName: "Fadarate", Email: "ramesh@x.com"},
	}, nil)

	rec := doRequest(setupEmployeeHandler(svc), http.MethodGet, "/api/employees/export", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "employees_")
	svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Employees")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"1", "Ramesh", "Fadarate", "ramesh@x.com"}, rows[2])
}
