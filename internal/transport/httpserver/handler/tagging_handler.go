package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog-service/internal/app/service"
	"catalog-service/internal/transport/httpserver/dto"
	"catalog-service/internal/validator"
)

const defaultTaggingBatch = 20

// TaggingHandler triggers keyphrase tagging for one product or a batch.
type TaggingHandler struct {
	tagging   *service.TaggingService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewTaggingHandler creates a new TaggingHandler.
func NewTaggingHandler(tagging *service.TaggingService, v *validator.Validator, logger *zap.Logger) *TaggingHandler {
	return &TaggingHandler{
		tagging:   tagging,
		validator: v,
		logger:    logger,
	}
}

// GenerateTags handles POST /api/v1/products/:id/tags/ai
func (h *TaggingHandler) GenerateTags(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	tags, err := h.tagging.GenerateTags(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.logger, err, "generate tags")
	}

	return c.JSON(dto.TagsResponse{
		ProductID: id,
		Tags:      dto.FromDomainTags(tags),
	})
}

// RunBatch handles POST /api/v1/admin/tagging/run
func (h *TaggingHandler) RunBatch(c *fiber.Ctx) error {
	req := dto.TaggingRunRequest{BatchSize: defaultTaggingBatch}
	if len(c.Body()) > 0 {
		if resp := bindBody(c, h.validator, &req); resp != nil {
			return badRequest(c, resp)
		}
	}
	if req.BatchSize == 0 {
		req.BatchSize = defaultTaggingBatch
	}

	h.logger.Info("manual tagging run triggered", zap.Int("batch_size", req.BatchSize))

	result, err := h.tagging.TagUntagged(c.UserContext(), req.BatchSize)
	if err != nil {
		return writeError(c, h.logger, err, "tagging run")
	}

	return c.JSON(dto.FromTaggingResult(result))
}
