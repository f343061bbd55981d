package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/contribtrack/contribution-tracker/internal/api/metrics"
	"github.com/contribtrack/contribution-tracker/internal/core/domain"
	"github.com/contribtrack/contribution-tracker/internal/core/ports"
)

const exportFilename = "contributions.csv"

// ContributionHandler handles HTTP requests for contribution operations.
// Domain errors are returned as-is and rendered by the HTTP error handler.
type ContributionHandler struct {
	service ports.ContributionService
	export  ports.ExportService
}

func NewContributionHandler(service ports.ContributionService, export ports.ExportService) *ContributionHandler {
	return &ContributionHandler{service: service, export: export}
}

// Create handles POST /api/contributions.
//
// @Summary      Create a contribution
// @Tags         contributions
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true   "Title"
// @Param        category     formData  string  true   "Category"
// @Param        link         formData  string  false  "Link"
// @Param        description  formData  string  false  "Description"
// @Param        date         formData  string  false  "Date (YYYY-MM-DD)"
// @Param        screenshot   formData  file    false  "Screenshot image"
// @Success      201          {object}  domain.Contribution
// @Failure      400          {object}  errorResponse
// @Failure      401          {object}  errorResponse
// @Failure      413          {object}  errorResponse
// @Failure      500          {object}  errorResponse
// @Router       /contributions [post]
func (h *ContributionHandler) Create(c echo.Context) error {
	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createContributionRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	shot, closeShot, err := screenshotUpload(c)
	if err != nil {
		return err
	}
	if closeShot != nil {
		defer closeShot()
	}

	created, err := h.service.Create(c.Request().Context(), toCreateInput(req, ownerID, shot))
	countUpload(shot, err)
	if err != nil {
		return err
	}

	metrics.ContributionsCreatedTotal.WithLabelValues(metrics.CategoryLabel(created.Category)).Inc()
	return c.JSON(http.StatusCreated, created)
}

// List handles GET /api/contributions.
//
// @Summary      List the caller's contributions, newest date first
// @Tags         contributions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Contribution
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /contributions [get]
func (h *ContributionHandler) List(c echo.Context) error {
	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	list, err := h.service.List(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /api/contributions/:id.
//
// @Summary      Get a contribution
// @Tags         contributions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contribution ID"
// @Success      200  {object}  domain.Contribution
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /contributions/{id} [get]
func (h *ContributionHandler) Get(c echo.Context) error {
	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	found, err := h.service.Get(c.Request().Context(), c.Param("id"), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, found)
}

// Update handles PUT /api/contributions/:id. Only supplied fields change.
//
// @Summary      Update a contribution
// @Tags         contributions
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true   "Contribution ID"
// @Param        title        formData  string  false  "Title"
// @Param        category     formData  string  false  "Category"
// @Param        link         formData  string  false  "Link"
// @Param        description  formData  string  false  "Description"
// @Param        date         formData  string  false  "Date (YYYY-MM-DD)"
// @Param        screenshot   formData  file    false  "Replacement screenshot"
// @Success      200          {object}  domain.Contribution
// @Failure      400          {object}  errorResponse
// @Failure      401          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Failure      413          {object}  errorResponse
// @Router       /contributions/{id} [put]
func (h *ContributionHandler) Update(c echo.Context) error {
	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateContributionRequest
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := c.Bind(&req); err != nil {
			return bindError(c, err)
		}
	} else {
		form, err := c.FormParams()
		if err != nil {
			return bindError(c, err)
		}
		req = formPatch(form)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	shot, closeShot, err := screenshotUpload(c)
	if err != nil {
		return err
	}
	if closeShot != nil {
		defer closeShot()
	}

	updated, err := h.service.Update(c.Request().Context(), toUpdateInput(req, c.Param("id"), ownerID, shot))
	countUpload(shot, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/contributions/:id.
//
// @Summary      Delete a contribution
// @Tags         contributions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contribution ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /contributions/{id} [delete]
func (h *ContributionHandler) Delete(c echo.Context) error {
	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), ownerID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Deleted successfully"})
}

// ExportCSV handles GET /api/contributions/export/csv.
//
// @Summary      Export the caller's contributions as CSV
// @Tags         contributions
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /contributions/export/csv [get]
func (h *ContributionHandler) ExportCSV(c echo.Context) error {
	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	data, err := h.export.ExportCSV(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}

	metrics.ExportsTotal.Inc()
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+exportFilename+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}

// countUpload records the outcome of a request that carried a screenshot.
func countUpload(shot *ports.UploadInput, err error) {
	if shot == nil {
		return
	}
	switch {
	case err == nil:
		metrics.UploadsTotal.WithLabelValues("stored").Inc()
	case errors.Is(err, domain.ErrUploadTooLarge), errors.Is(err, domain.ErrUnsupportedUpload):
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
	default:
		metrics.UploadsTotal.WithLabelValues("error").Inc()
	}
}

// bindError keeps body-limit rejections as 413; anything else is a bad payload.
func bindError(c echo.Context, err error) error {
	if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
		return echo.ErrStatusRequestEntityTooLarge
	}
	return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
}
