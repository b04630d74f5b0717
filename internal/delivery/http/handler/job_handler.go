package handler

import (
	"strconv"

	"campus-connect/internal/delivery/http/dto"
	"campus-connect/internal/delivery/http/middleware"
	"campus-connect/internal/domain/job"
	"campus-connect/internal/pkg/response"
	"campus-connect/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobHandler struct {
	uc      usecase.JobUsecase
	listing usecase.JobListUsecase
}

type jobContentRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type moderateRequest struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

type publishedRequest struct {
	Published bool `json:"published"`
}

type filledRequest struct {
	Filled bool `json:"filled"`
}

func NewJobHandler(uc usecase.JobUsecase, listing usecase.JobListUsecase) *JobHandler {
	return &JobHandler{uc: uc, listing: listing}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	// Static segments before the :id wildcard.
	r.Get("/", h.Browse)
	r.Post("/", h.Create)
	r.Get("/mine", h.ListMine)
	r.Get("/moderation/pending", h.ListPendingModeration)

	r.Get("/:id", h.Get)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)

	r.Post("/:id/submit", h.Submit)
	r.Post("/:id/moderate", h.Moderate)
	r.Patch("/:id/published", h.SetPublished)
	r.Patch("/:id/filled", h.SetFilled)
}

func (h *JobHandler) Browse(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	limit, offset := paginationQuery(c)
	items, err := h.listing.Browse(c.Context(), actor, limit, offset)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.JobListItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.JobListItemResponse{
			JobResponse: dto.NewJobResponse(it.Job),
			MatchScore:  it.MatchScore,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *JobHandler) Create(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req jobContentRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	j, err := h.uc.CreateDraft(c.Context(), actor, req.Title, req.Description, req.Tags)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobHandler) ListMine(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	jobs, err := h.uc.ListMine(c.Context(), actor)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, jobResponses(jobs))
}

func (h *JobHandler) ListPendingModeration(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	limit, offset := paginationQuery(c)
	jobs, err := h.uc.ListPendingModeration(c.Context(), actor, limit, offset)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, jobResponses(jobs))
}

func (h *JobHandler) Get(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	j, err := h.uc.Get(c.Context(), actor, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobHandler) Update(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req jobContentRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	j, err := h.uc.UpdateContent(c.Context(), actor, id, req.Title, req.Description, req.Tags)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobHandler) Delete(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), actor, id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *JobHandler) Submit(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	j, err := h.uc.Submit(c.Context(), actor, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobHandler) Moderate(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req moderateRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	j, err := h.uc.Moderate(c.Context(), actor, id, job.ModerationDecision(req.Decision), req.Reason)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobHandler) SetPublished(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req publishedRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	j, err := h.uc.SetPublished(c.Context(), actor, id, req.Published)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobHandler) SetFilled(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req filledRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	j, err := h.uc.SetFilled(c.Context(), actor, id, req.Filled)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

func jobResponses(jobs []job.Job) []dto.JobResponse {
	out := make([]dto.JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, dto.NewJobResponse(j))
	}
	return out
}

func paginationQuery(c fiber.Ctx) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit", "0"))
	offset, _ = strconv.Atoi(c.Query("offset", "0"))
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
