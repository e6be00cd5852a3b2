package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/schoolward/timetable-api/internal/models"
	"github.com/schoolward/timetable-api/internal/service"
	appErrors "github.com/schoolward/timetable-api/pkg/errors"
	"github.com/schoolward/timetable-api/pkg/response"
)

type scheduleSlotService interface {
	List(ctx context.Context, filter models.SlotFilter) ([]models.ScheduleSlot, error)
	Get(ctx context.Context, id string) (*models.ScheduleSlot, error)
	Create(ctx context.Context, req service.CreateSlotRequest) (*models.ScheduleSlot, error)
	Patch(ctx context.Context, id string, req service.PatchSlotRequest) (*models.ScheduleSlot, error)
	Delete(ctx context.Context, id string) error
	Replace(ctx context.Context, subjectGroupID string, req service.ReplaceScheduleRequest) ([]models.ScheduleSlot, error)
}

type timetableExporter interface {
	Timetable(ctx context.Context, subjectGroupID, format string) ([]byte, string, error)
}

// ScheduleSlotHandler exposes the slot-storage endpoints and the bulk
// schedule replace flow.
type ScheduleSlotHandler struct {
	service scheduleSlotService
	export  timetableExporter
}

// NewScheduleSlotHandler constructs a schedule slot handler.
func NewScheduleSlotHandler(svc scheduleSlotService, export timetableExporter) *ScheduleSlotHandler {
	return &ScheduleSlotHandler{service: svc, export: export}
}

// List godoc
// @Summary List schedule slots for a subject group
// @Tags Schedule Slots
// @Produce json
// @Param subject_group query string true "Subject group ID"
// @Param day query int false "Filter by day of week (0=Monday)"
// @Param quarter query int false "Filter by quarter (includes unscoped slots)"
// @Success 200 {object} response.Envelope
// @Router /schedule-slots [get]
func (h *ScheduleSlotHandler) List(c *gin.Context) {
	filter := models.SlotFilter{SubjectGroupID: c.Query("subject_group")}
	if day := c.Query("day"); day != "" {
		if val, err := strconv.Atoi(day); err == nil {
			filter.DayOfWeek = &val
		}
	}
	if quarter := c.Query("quarter"); quarter != "" {
		if val, err := strconv.Atoi(quarter); err == nil {
			filter.Quarter = &val
		}
	}

	slots, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Get godoc
// @Summary Get one schedule slot
// @Tags Schedule Slots
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Envelope
// @Router /schedule-slots/{id} [get]
func (h *ScheduleSlotHandler) Get(c *gin.Context) {
	slot, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Create godoc
// @Summary Create schedule slot
// @Tags Schedule Slots
// @Accept json
// @Produce json
// @Param payload body service.CreateSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Router /schedule-slots [post]
func (h *ScheduleSlotHandler) Create(c *gin.Context) {
	var req service.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// Patch godoc
// @Summary Partially update a schedule slot
// @Tags Schedule Slots
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param payload body service.PatchSlotRequest true "Slot patch"
// @Success 200 {object} response.Envelope
// @Router /schedule-slots/{id} [patch]
func (h *ScheduleSlotHandler) Patch(c *gin.Context) {
	var req service.PatchSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.service.Patch(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Delete godoc
// @Summary Delete schedule slot
// @Tags Schedule Slots
// @Param id path string true "Slot ID"
// @Success 204
// @Router /schedule-slots/{id} [delete]
func (h *ScheduleSlotHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Replace godoc
// @Summary Replace a subject group's whole weekly schedule
// @Description Reconciles the submitted slot list against the persisted one. Clearing a non-empty schedule requires confirm_clear.
// @Tags Schedule Slots
// @Accept json
// @Produce json
// @Param id path string true "Subject group ID"
// @Param payload body service.ReplaceScheduleRequest true "Schedule payload"
// @Success 200 {object} response.Envelope
// @Router /subject-groups/{id}/schedule-slots [put]
func (h *ScheduleSlotHandler) Replace(c *gin.Context) {
	var req service.ReplaceScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slots, err := h.service.Replace(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Export godoc
// @Summary Export a subject group's schedule
// @Tags Schedule Slots
// @Produce text/csv
// @Param id path string true "Subject group ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /subject-groups/{id}/schedule-slots/export [get]
func (h *ScheduleSlotHandler) Export(c *gin.Context) {
	payload, contentType, err := h.export.Timetable(c.Request.Context(), c.Param("id"), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, payload)
}
