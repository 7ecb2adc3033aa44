package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"community-event-planner/internal/attendance"
	"community-event-planner/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Handler serves the HTTP API on top of an EventService.
type Handler struct {
	svc       *EventService
	jwtSecret string
	tokenTTL  time.Duration
	publicURL string
	location  *time.Location
}

func NewHandler(svc *EventService, jwtSecret string, tokenTTL time.Duration, publicURL string) *Handler {
	return &Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		publicURL: publicURL,
		location:  time.Local,
	}
}

// -----------------------------
// Helper functions
// -----------------------------

func jsonError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

// writeServiceError turns a service or store error into a response. action
// names the refused operation in permission notices.
func writeServiceError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		jsonError(c, http.StatusUnauthorized, "please log in to "+action)
	case errors.Is(err, ErrForbidden):
		jsonError(c, http.StatusForbidden, fmt.Sprintf("you don't have permission to %s this event", action))
	case errors.Is(err, store.ErrNotFound):
		jsonError(c, http.StatusNotFound, "event not found")
	case errors.Is(err, attendance.ErrInvalidStatus):
		jsonError(c, http.StatusBadRequest, "status must be one of: going, maybe, notgoing")
	case errors.Is(err, attendance.ErrEmptyUser):
		jsonError(c, http.StatusUnauthorized, "please log in to "+action)
	default:
		log.Error().Err(err).Str("action", action).Str("request_id", c.GetString("request_id")).Msg("request failed")
		jsonError(c, http.StatusInternalServerError, "internal error")
	}
}

func parseEventID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		jsonError(c, http.StatusBadRequest, "invalid event id")
		return 0, false
	}
	return id, true
}

func parseFilter(c *gin.Context) (attendance.Filter, bool) {
	f, err := attendance.ParseFilter(c.Query("filter"))
	if err != nil {
		jsonError(c, http.StatusBadRequest, "filter must be one of: all, going, maybe, notgoing")
		return "", false
	}
	return f, true
}

// -----------------------------
// Events
// -----------------------------

func (h *Handler) ListEvents(c *gin.Context) {
	var q EventQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid query: "+err.Error())
		return
	}

	events, err := h.svc.List(c.Request.Context(), ListFilter{Search: q.Search, Category: q.Category, Date: q.Date})
	if err != nil {
		writeServiceError(c, err, "list events")
		return
	}

	sess := getSessionFromContext(c)
	views := make([]EventView, 0, len(events))
	for _, ev := range events {
		views = append(views, newEventView(sess, ev, attendance.FilterAll, false))
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) GetEvent(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	ev, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "view")
		return
	}
	c.JSON(http.StatusOK, newEventView(getSessionFromContext(c), ev, filter, true))
}

func (h *Handler) CreateEvent(c *gin.Context) {
	var body EventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	sess := getSessionFromContext(c)
	ev, err := h.svc.Create(c.Request.Context(), sess, body.input())
	if err != nil {
		writeServiceError(c, err, "create events")
		return
	}
	c.JSON(http.StatusCreated, newEventView(sess, ev, attendance.FilterAll, true))
}

func (h *Handler) UpdateEvent(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	var body EventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	sess := getSessionFromContext(c)
	ev, err := h.svc.Update(c.Request.Context(), sess, id, body.input())
	if err != nil {
		writeServiceError(c, err, "edit")
		return
	}
	c.JSON(http.StatusOK, newEventView(sess, ev, attendance.FilterAll, true))
}

func (h *Handler) DeleteEvent(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), getSessionFromContext(c), id); err != nil {
		writeServiceError(c, err, "delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully!"})
}

// -----------------------------
// Attendance
// -----------------------------

func (h *Handler) SetAttendance(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	var body AttendanceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "status must be one of: going, maybe, notgoing")
		return
	}
	status := parseStatus(body.Status)

	sess := getSessionFromContext(c)
	ev, err := h.svc.SetRSVP(c.Request.Context(), sess, id, status)
	if err != nil {
		writeServiceError(c, err, "RSVP")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Successfully marked as %q!", status),
		"event":   newEventView(sess, ev, attendance.FilterAll, true),
	})
}

func (h *Handler) GetEventAttendees(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	ev, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "view")
		return
	}

	sess := getSessionFromContext(c)
	if !attendance.CanViewAttendeeList(sess.Role, ev) {
		jsonError(c, http.StatusForbidden, "Attendee list for admin-created events is visible to admins only.")
		return
	}

	view := newEventView(sess, ev, filter, true)
	attendees := view.Attendees
	if attendees == nil {
		attendees = []attendance.Record{}
	}
	c.JSON(http.StatusOK, gin.H{
		"filter":          filter,
		"attendees":       attendees,
		"attendee_count":  view.AttendeeCount,
		"not_going_count": view.NotGoingCount,
		"your_status":     view.YourStatus,
	})
}

// -----------------------------
// Reminders and sharing
// -----------------------------

func (h *Handler) EventSummary(c *gin.Context) {
	sum, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "view")
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *Handler) EventCalendar(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	ev, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "view")
		return
	}

	data, err := WriteICS(getSessionFromContext(c), ev, h.publicURL, h.location)
	if err != nil {
		jsonError(c, http.StatusUnprocessableEntity, "event has no usable date")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=event-%d.ics", id))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

func (h *Handler) EventQRCode(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	if _, err := h.svc.Get(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "view")
		return
	}

	png, err := QRCode(h.publicURL, id, 256)
	if err != nil {
		writeServiceError(c, err, "share")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
