package handler

import (
	"campus-connect/internal/delivery/http/dto"
	"campus-connect/internal/delivery/http/middleware"
	"campus-connect/internal/pkg/response"
	"campus-connect/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

type updateProfileRequest struct {
	FullName  string   `json:"full_name"`
	Headline  string   `json:"headline"`
	IsSeeker  bool     `json:"is_seeker"`
	IsFinder  bool     `json:"is_finder"`
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
}

func (h *ProfileHandler) GetMe(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	p, err := h.uc.GetMe(c.Context(), actor)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) UpdateMe(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	p, err := h.uc.UpdateMe(c.Context(), actor, usecase.ProfileInput{
		FullName:  req.FullName,
		Headline:  req.Headline,
		IsSeeker:  req.IsSeeker,
		IsFinder:  req.IsFinder,
		Skills:    req.Skills,
		Interests: req.Interests,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}
