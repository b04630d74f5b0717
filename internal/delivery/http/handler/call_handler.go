package handler

import (
	"time"

	"campus-connect/internal/delivery/http/dto"
	"campus-connect/internal/delivery/http/middleware"
	"campus-connect/internal/pkg/response"
	"campus-connect/internal/usecase"
	"campus-connect/internal/video"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CallHandler struct {
	uc    usecase.CallUsecase
	video video.Service
}

type callRequestRequest struct {
	JobID         uuid.UUID  `json:"job_id"`
	ReceiverID    uuid.UUID  `json:"receiver_id"`
	ApplicationID *uuid.UUID `json:"application_id"`
	RequestedTime *time.Time `json:"requested_time"`
	Message       string     `json:"message"`
}

type callAcceptRequest struct {
	ScheduledTime *time.Time `json:"scheduled_time"`
}

type callRejectRequest struct {
	Reason string `json:"reason"`
}

func NewCallHandler(uc usecase.CallUsecase, videoSvc video.Service) *CallHandler {
	return &CallHandler{uc: uc, video: videoSvc}
}

func (h *CallHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Request)
	r.Get("/", h.ListMine)

	r.Post("/:id/accept", h.Accept)
	r.Post("/:id/reject", h.Reject)
	r.Post("/:id/cancel", h.Cancel)
	r.Post("/:id/complete", h.Complete)
	r.Post("/:id/join", h.Join)
}

func (h *CallHandler) Request(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req callRequestRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	cr, err := h.uc.Request(c.Context(), actor, req.JobID, req.ReceiverID, req.ApplicationID, req.RequestedTime, req.Message)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewCallRequestResponse(cr))
}

func (h *CallHandler) ListMine(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListMine(c.Context(), actor)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.CallRequestResponse, 0, len(items))
	for _, cr := range items {
		out = append(out, dto.NewCallRequestResponse(cr))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *CallHandler) Accept(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req callAcceptRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	cr, err := h.uc.Accept(c.Context(), actor, id, req.ScheduledTime)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCallRequestResponse(cr))
}

func (h *CallHandler) Reject(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req callRejectRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	cr, err := h.uc.Reject(c.Context(), actor, id, req.Reason)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCallRequestResponse(cr))
}

func (h *CallHandler) Cancel(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	cr, err := h.uc.Cancel(c.Context(), actor, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCallRequestResponse(cr))
}

func (h *CallHandler) Complete(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	cr, err := h.uc.Complete(c.Context(), actor, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCallRequestResponse(cr))
}

func (h *CallHandler) Join(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	join, err := h.uc.Join(c.Context(), actor, id)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.CallJoinResponse{
		RoomID: join.RoomID,
		Token:  join.Token,
		Link:   h.video.JoinLink(join.RoomID),
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
