package service

import (
	"errors"
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"github.com/berryray-tech/Berry-Ray-main/internal/catalog"
	"github.com/berryray-tech/Berry-Ray-main/internal/dto"
	"github.com/berryray-tech/Berry-Ray-main/internal/flow"
	"github.com/berryray-tech/Berry-Ray-main/internal/registration"
	"github.com/berryray-tech/Berry-Ray-main/pkg/validator"
)

const catalogUnavailableMsg = "Unable to load services at this time. Please try again later."

// respondError maps catalog, flow and submission errors onto the HTTP envelope.
func (s *service) respondError(ctx *ginext.Context, err error) {
	var fe *validator.FieldError
	switch {
	case errors.As(err, &fe):
		dto.BadResponseError(ctx, dto.FieldIncorrect, fe.Error())
	case registration.IsProofError(err),
		errors.Is(err, flow.ErrNoProofSelected),
		errors.Is(err, flow.ErrUnknownPackage),
		errors.Is(err, registration.ErrPackageMissing):
		dto.BadResponseError(ctx, dto.FieldIncorrect, err.Error())

	case errors.Is(err, catalog.ErrUnavailable):
		dto.UnavailableError(ctx, dto.CatalogUnavailable, catalogUnavailableMsg)
	case errors.Is(err, catalog.ErrServiceNotFound):
		dto.NotFoundError(ctx, dto.ServiceNotFound, "Service not found")
	case errors.Is(err, flow.ErrDraftNotFound):
		dto.NotFoundError(ctx, dto.DraftNotFound, "Registration draft not found or expired")

	case errors.Is(err, flow.ErrSubmissionInProgress):
		dto.ConflictError(ctx, dto.SubmissionInProgress, "A submission is already in progress")
	case errors.Is(err, flow.ErrInvalidTransition):
		dto.ConflictError(ctx, dto.InvalidTransition, err.Error())

	case errors.Is(err, registration.ErrUploadFailed):
		dto.ErrorResponse(ctx, http.StatusBadGateway, dto.UploadFailed, err.Error())
	case errors.Is(err, registration.ErrPriceCorrupted):
		dto.ErrorResponse(ctx, http.StatusUnprocessableEntity, dto.PriceCorrupted, err.Error())
	case errors.Is(err, registration.ErrInsertFailed):
		dto.ErrorResponse(ctx, http.StatusBadGateway, dto.InsertFailed, err.Error())

	default:
		s.log.Error().Err(err).Str("path", ctx.FullPath()).Msg("unexpected error")
		dto.InternalServerError(ctx)
	}
}
