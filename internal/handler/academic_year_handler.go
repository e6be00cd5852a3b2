package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/schoolward/timetable-api/internal/models"
	"github.com/schoolward/timetable-api/internal/service"
	appErrors "github.com/schoolward/timetable-api/pkg/errors"
	"github.com/schoolward/timetable-api/pkg/response"
)

// AcademicYearHandler exposes academic year endpoints.
type AcademicYearHandler struct {
	service *service.AcademicYearService
}

// NewAcademicYearHandler constructs an academic year handler.
func NewAcademicYearHandler(svc *service.AcademicYearService) *AcademicYearHandler {
	return &AcademicYearHandler{service: svc}
}

// List godoc
// @Summary List academic years
// @Tags Academic Years
// @Produce json
// @Param isActive query bool false "Filter by active flag"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /academic-years [get]
func (h *AcademicYearHandler) List(c *gin.Context) {
	var filter models.AcademicYearFilter
	if isActive := c.Query("isActive"); isActive != "" {
		if val, err := strconv.ParseBool(isActive); err == nil {
			filter.IsActive = &val
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	years, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, years, pagination)
}

// Get godoc
// @Summary Get academic year
// @Tags Academic Years
// @Produce json
// @Param id path string true "Academic year ID"
// @Success 200 {object} response.Envelope
// @Router /academic-years/{id} [get]
func (h *AcademicYearHandler) Get(c *gin.Context) {
	year, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, year, nil)
}

// GetCurrent godoc
// @Summary Get active academic year
// @Tags Academic Years
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /academic-years/current [get]
func (h *AcademicYearHandler) GetCurrent(c *gin.Context) {
	year, err := h.service.GetActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, year, nil)
}

// GetCurrentQuarter godoc
// @Summary Get the quarter containing today
// @Description Returns null when no active year exists or today is outside all quarters
// @Tags Academic Years
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /academic-years/current/quarter [get]
func (h *AcademicYearHandler) GetCurrentQuarter(c *gin.Context) {
	info, err := h.service.CurrentQuarter(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}

// GetQuarters godoc
// @Summary Compute quarter ranges for a year
// @Tags Academic Years
// @Produce json
// @Param id path string true "Academic year ID"
// @Success 200 {object} response.Envelope
// @Router /academic-years/{id}/quarters [get]
func (h *AcademicYearHandler) GetQuarters(c *gin.Context) {
	quarters, err := h.service.Quarters(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, quarters, nil)
}

// Create godoc
// @Summary Create academic year
// @Tags Academic Years
// @Accept json
// @Produce json
// @Param payload body service.CreateAcademicYearRequest true "Academic year payload"
// @Success 201 {object} response.Envelope
// @Router /academic-years [post]
func (h *AcademicYearHandler) Create(c *gin.Context) {
	var req service.CreateAcademicYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	year, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, year)
}

// Update godoc
// @Summary Update academic year
// @Tags Academic Years
// @Accept json
// @Produce json
// @Param id path string true "Academic year ID"
// @Param payload body service.UpdateAcademicYearRequest true "Academic year payload"
// @Success 200 {object} response.Envelope
// @Router /academic-years/{id} [put]
func (h *AcademicYearHandler) Update(c *gin.Context) {
	var req service.UpdateAcademicYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	year, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, year, nil)
}

// Activate godoc
// @Summary Mark an academic year as the active one
// @Tags Academic Years
// @Produce json
// @Param id path string true "Academic year ID"
// @Success 200 {object} response.Envelope
// @Router /academic-years/{id}/activate [post]
func (h *AcademicYearHandler) Activate(c *gin.Context) {
	year, err := h.service.SetActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, year, nil)
}

// Delete godoc
// @Summary Delete academic year
// @Tags Academic Years
// @Param id path string true "Academic year ID"
// @Success 204
// @Router /academic-years/{id} [delete]
func (h *AcademicYearHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
