// Package slotapi is an HTTP client for the slot-storage and academic-year
// services. It satisfies the scheduling facade's SlotStore interface so the
// same editing and reconciliation flow runs against a remote API.
package slotapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/schoolward/timetable-api/internal/models"
	"github.com/schoolward/timetable-api/internal/service"
	"github.com/schoolward/timetable-api/pkg/config"
)

// Client talks to a remote slot-storage service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New builds a client from config.
func New(cfg config.SlotAPIConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// slotPayload is the wire shape of one slot. Times always travel as "HH:MM"
// regardless of the precision they were received in.
type slotPayload struct {
	ID           string  `json:"id,omitempty"`
	SubjectGroup string  `json:"subject_group,omitempty"`
	DayOfWeek    int     `json:"day_of_week"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	Room         *string `json:"room,omitempty"`
	Quarter      *int    `json:"quarter,omitempty"`
}

func toPayload(slot models.ScheduleSlot) slotPayload {
	return slotPayload{
		ID:           slot.ID,
		SubjectGroup: slot.SubjectGroupID,
		DayOfWeek:    slot.DayOfWeek,
		StartTime:    slot.StartTime.String(),
		EndTime:      slot.EndTime.String(),
		Room:         slot.Room,
		Quarter:      slot.Quarter,
	}
}

func (p slotPayload) toModel() models.ScheduleSlot {
	return models.ScheduleSlot{
		ID:             p.ID,
		SubjectGroupID: p.SubjectGroup,
		DayOfWeek:      p.DayOfWeek,
		StartTime:      models.ParseClockTime(p.StartTime),
		EndTime:        models.ParseClockTime(p.EndTime),
		Room:           p.Room,
		Quarter:        p.Quarter,
	}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// List fetches the persisted slots of a subject group.
func (c *Client) List(ctx context.Context, subjectGroupID string) ([]models.ScheduleSlot, error) {
	endpoint := fmt.Sprintf("%s/schedule-slots?subject_group=%s", c.baseURL, url.QueryEscape(subjectGroupID))
	var payloads []slotPayload
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &payloads); err != nil {
		return nil, err
	}

	slots := make([]models.ScheduleSlot, len(payloads))
	for i, p := range payloads {
		slots[i] = p.toModel()
	}
	return slots, nil
}

// Create persists a new slot and returns the canonical record with its
// server-assigned ID.
func (c *Client) Create(ctx context.Context, slot models.ScheduleSlot) (*models.ScheduleSlot, error) {
	var created slotPayload
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/schedule-slots", toPayload(slot), &created); err != nil {
		return nil, err
	}
	result := created.toModel()
	return &result, nil
}

// Update patches all mutable fields of a persisted slot.
func (c *Client) Update(ctx context.Context, id string, slot models.ScheduleSlot) (*models.ScheduleSlot, error) {
	var updated slotPayload
	endpoint := fmt.Sprintf("%s/schedule-slots/%s", c.baseURL, url.PathEscape(id))
	if err := c.do(ctx, http.MethodPatch, endpoint, toPayload(slot), &updated); err != nil {
		return nil, err
	}
	result := updated.toModel()
	return &result, nil
}

// Delete removes a persisted slot.
func (c *Client) Delete(ctx context.Context, id string) error {
	endpoint := fmt.Sprintf("%s/schedule-slots/%s", c.baseURL, url.PathEscape(id))
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

// CurrentAcademicYear fetches the active academic year, or nil when none is
// configured.
func (c *Client) CurrentAcademicYear(ctx context.Context) (*models.AcademicYear, error) {
	var year models.AcademicYear
	err := c.do(ctx, http.MethodGet, c.baseURL+"/academic-years/current", nil, &year)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &year, nil
}

// CurrentQuarter classifies "now" against the remote active year's quarters.
// Returns 0 when no active year exists or now falls outside every quarter.
func (c *Client) CurrentQuarter(ctx context.Context) (int, error) {
	year, err := c.CurrentAcademicYear(ctx)
	if err != nil {
		return 0, err
	}
	return service.ClassifyDate(time.Now(), service.ComputeQuarters(year)), nil
}

// APIError carries the remote error body and HTTP status.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("slot api: %s (%d)", e.Message, e.Status)
	}
	return fmt.Sprintf("slot api: unexpected status %d", e.Status)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body interface{}, dest interface{}) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var env envelope
		if jsonErr := json.Unmarshal(raw, &env); jsonErr == nil && env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if dest == nil {
		return nil
	}

	// Responses arrive in the common {data: ...} envelope; tolerate a bare
	// body for other server implementations of the same contract.
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		raw = env.Data
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
