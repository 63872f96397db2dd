// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog-service/internal/domain"
	"catalog-service/internal/transport/httpserver/dto"
	"catalog-service/internal/validator"
)

// Error codes returned in dto.ErrorResponse.Code.
const (
	CodeInvalidParams      = "INVALID_PARAMS"
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeNoHistory          = "NO_HISTORY"
	CodeInsufficientSupply = "INSUFFICIENT_SUPPLY"
	CodeTaggingFailed      = "TAGGING_FAILED"
	CodeInternal           = "INTERNAL_ERROR"
)

// writeError maps a service error to a status code and error body. Unexpected
// errors are logged; expected ones are not.
func writeError(c *fiber.Ctx, logger *zap.Logger, err error, op string) error {
	status, code, message := fiber.StatusInternalServerError, CodeInternal, op+" failed"

	switch {
	case errors.Is(err, domain.ErrNoHistory):
		status, code, message = fiber.StatusNotFound, CodeNoHistory, domain.ErrNoHistory.Error()
	case errors.Is(err, domain.ErrProductNotFound):
		status, code, message = fiber.StatusNotFound, CodeNotFound, domain.ErrProductNotFound.Error()
	case errors.Is(err, domain.ErrCategoryNotFound):
		status, code, message = fiber.StatusNotFound, CodeNotFound, domain.ErrCategoryNotFound.Error()
	case errors.Is(err, domain.ErrInsufficientSupply):
		status, code, message = fiber.StatusConflict, CodeInsufficientSupply, domain.ErrInsufficientSupply.Error()
	case errors.Is(err, domain.ErrTaggerUnavailable):
		status, code, message = fiber.StatusBadGateway, CodeTaggingFailed, domain.ErrTaggerUnavailable.Error()
	default:
		logger.Error(op+" failed", zap.String("path", c.Path()), zap.Error(err))
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func badRequest(c *fiber.Ctx, resp *dto.ErrorResponse) error {
	return c.Status(fiber.StatusBadRequest).JSON(resp)
}

// bindQuery parses query parameters into req and validates it. A non-nil result
// is the 400 body to send.
func bindQuery(c *fiber.Ctx, v *validator.Validator, req any) *dto.ErrorResponse {
	if err := c.QueryParser(req); err != nil {
		return &dto.ErrorResponse{Error: "invalid query parameters", Code: CodeInvalidParams}
	}

	return validate(v, req)
}

// bindBody parses a JSON body into req and validates it.
func bindBody(c *fiber.Ctx, v *validator.Validator, req any) *dto.ErrorResponse {
	if err := c.BodyParser(req); err != nil {
		return &dto.ErrorResponse{Error: "invalid request body", Code: CodeInvalidParams}
	}

	return validate(v, req)
}

func validate(v *validator.Validator, req any) *dto.ErrorResponse {
	if err := v.Validate(req); err != nil {
		return &dto.ErrorResponse{Error: "validation failed", Code: CodeValidation, Details: err}
	}

	return nil
}

func invalidID(c *fiber.Ctx, name string) error {
	return badRequest(c, &dto.ErrorResponse{Error: name + " must be a positive integer", Code: CodeInvalidParams})
}

// paramID reads a positive integer path parameter.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
