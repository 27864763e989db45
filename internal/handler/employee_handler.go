package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/employee_crud/internal/domain"
	"github.com/locvowork/employee_crud/internal/errs"
	"github.com/locvowork/employee_crud/internal/export"
	"github.com/locvowork/employee_crud/internal/logger"
	"github.com/locvowork/employee_crud/internal/service"
	"github.com/locvowork/employee_crud/internal/validation"
)

const DeleteConfirmation = "Employee Deleted Successfully"

type EmployeeHandler struct {
	svc      service.EmployeeService
	exporter *export.Exporter
}

func NewEmployeeHandler(svc service.EmployeeService, exporter *export.Exporter) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, exporter: exporter}
}

// Register mounts the employee routes on g.
func (h *EmployeeHandler) Register(g *echo.Group) {
	g.POST("/employees", h.CreateHandler)
	g.GET("/employees", h.ListHandler)
	g.GET("/employees/export", h.ExportHandler)
	g.GET("/employees/:id", h.GetHandler)
	g.PUT("/employees/:id", h.UpdateHandler)
	g.DELETE("/employees/:id", h.DeleteHandler)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewBadRequestError("Invalid employee ID", "", nil)
	}
	return id, nil
}

func (h *EmployeeHandler) CreateHandler(c echo.Context) error {
	var req EmployeeRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}

	emp := req.ToDomain()
	created, err := h.svc.Create(c.Request().Context(), &emp)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

func (h *EmployeeHandler) ListHandler(c echo.Context) error {
	employees, err := h.svc.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	if employees == nil {
		employees = []domain.Employee{}
	}

	return c.JSON(http.StatusOK, employees)
}

// GetHandler responds 404 with an empty body when the employee does not exist.
func (h *EmployeeHandler) GetHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	emp, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if emp == nil {
		return c.NoContent(http.StatusNotFound)
	}

	return c.JSON(http.StatusOK, emp)
}

// UpdateHandler merges first name, last name and email onto the stored
// employee. The id from the path wins over anything in the body.
func (h *EmployeeHandler) UpdateHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req EmployeeRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	emp, err := h.svc.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if emp == nil {
		return c.NoContent(http.StatusNotFound)
	}

	emp.ApplyChanges(req.ToDomain())

	updated, err := h.svc.Update(ctx, emp)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteHandler always confirms; deleting an unknown id is a no-op.
func (h *EmployeeHandler) DeleteHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteByID(c.Request().Context(), id); err != nil {
		return err
	}

	return c.String(http.StatusOK, DeleteConfirmation)
}

func (h *EmployeeHandler) ExportHandler(c echo.Context) error {
	ctx := c.Request().Context()

	employees, err := h.svc.ListAll(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.exporter.WriteTo(&buf, employees); err != nil {
		logger.ErrorLog(ctx, "failed to export employees: %v", err)
		return err
	}

	filename := fmt.Sprintf("employees_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}
