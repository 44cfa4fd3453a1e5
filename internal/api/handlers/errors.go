package handlers

import (
	"statement-parser/internal/dto"
	"statement-parser/internal/service"

	"github.com/gofiber/fiber/v2"
)

var statusByKind = map[service.ErrorKind]int{
	service.KindInputRejected:        fiber.StatusBadRequest,
	service.KindEmptyContent:         fiber.StatusBadRequest,
	service.KindExtractionFailed:     fiber.StatusInternalServerError,
	service.KindClassificationFailed: fiber.StatusInternalServerError,
	service.KindResponseMalformed:    fiber.StatusInternalServerError,
	service.KindUnexpected:           fiber.StatusInternalServerError,
}

// errorResponse maps a pipeline failure to its HTTP status and body.
func errorResponse(err error) (int, dto.ErrorResponse) {
	pe := service.AsPipelineError(err)
	status, ok := statusByKind[pe.Kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	return status, pe.Response()
}
