package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tasktrail/backend/internal/core/ports"
	"github.com/tasktrail/backend/internal/core/services"
	"github.com/tasktrail/backend/internal/infrastructure/logger"
	"github.com/tasktrail/backend/internal/transport/http/dto"
	httpmw "github.com/tasktrail/backend/internal/transport/http/middleware"
)

type HistoryHandler struct {
	service ports.HistoryService
	logger  *logger.Logger
	// Zone the service groups events into calendar days with; the date
	// query must be parsed in the same zone or day boundaries drift.
	loc *time.Location
}

func NewHistoryHandler(service ports.HistoryService, loc *time.Location, logger *logger.Logger) *HistoryHandler {
	if loc == nil {
		loc = time.Local
	}
	return &HistoryHandler{service: service, logger: logger, loc: loc}
}

// GetEvents lists the owner's history, newest first. A `date=YYYY-MM-DD`
// query narrows the result to that calendar day.
func (h *HistoryHandler) GetEvents(c *fiber.Ctx) error {
	session := httpmw.SessionFrom(c)

	if dateStr := c.Query("date"); dateStr != "" {
		day, err := time.ParseInLocation("2006-01-02", dateStr, h.loc)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: "invalid date, expected YYYY-MM-DD",
			})
		}
		events, err := h.service.EventsOn(c.Context(), session, day)
		if err != nil {
			return h.mapError(c, "history_list_failed", err)
		}
		return c.JSON(dto.HistoryEventsToResponse(events))
	}

	events, err := h.service.Events(c.Context(), session)
	if err != nil {
		return h.mapError(c, "history_list_failed", err)
	}
	return c.JSON(dto.HistoryEventsToResponse(events))
}

func (h *HistoryHandler) DeleteEvent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		h.logger.Warnw("history_delete_invalid_id", "id", c.Params("id"))
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid history id",
		})
	}

	if err := h.service.DeleteEvent(c.Context(), httpmw.SessionFrom(c), uint(id)); err != nil {
		return h.mapError(c, "history_delete_failed", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *HistoryHandler) ClearAll(c *fiber.Ctx) error {
	session := httpmw.SessionFrom(c)

	h.logger.Infow("history_clear_request", "owner_id", session.UserID)
	if err := h.service.ClearAll(c.Context(), session); err != nil {
		return h.mapError(c, "history_clear_failed", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *HistoryHandler) mapError(c *fiber.Ctx, event string, err error) error {
	switch {
	case errors.Is(err, services.ErrHistoryNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	case errors.Is(err, services.ErrAuthNoSession):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: "unauthorized",
		})
	}
	h.logger.Errorw(event, "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: err.Error(),
	})
}
