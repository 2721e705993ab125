package service

import (
	"io"

	"github.com/wb-go/wbf/ginext"

	"github.com/berryray-tech/Berry-Ray-main/internal/dto"
	"github.com/berryray-tech/Berry-Ray-main/internal/flow"
	"github.com/berryray-tech/Berry-Ray-main/internal/registration"
	"github.com/berryray-tech/Berry-Ray-main/pkg/validator"
)

const proofField = "proof"

func (s *service) GetServices(ctx *ginext.Context) {
	services, err := s.Catalog.Load(ctx.Request.Context())
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	dto.SuccessResponse(ctx, services)
}

func (s *service) StartDraft(ctx *ginext.Context) {
	var req dto.StartDraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	svc, err := s.Catalog.Service(ctx.Request.Context(), req.ServiceID)
	if err != nil {
		s.respondError(ctx, err)
		return
	}

	id, f := s.Drafts.Create()
	if err := f.ChooseService(svc); err != nil {
		s.respondError(ctx, err)
		return
	}

	s.log.Info().Str("draft_id", id).Str("service_id", svc.ID).Msg("registration draft started")
	dto.SuccessCreatedResponse(ctx, dto.DraftResponse{DraftID: id, View: f.View()})
}

func (s *service) draft(ctx *ginext.Context) (string, *flow.Flow, bool) {
	id := ctx.Param("draft")
	f, err := s.Drafts.Get(id)
	if err != nil {
		s.respondError(ctx, err)
		return "", nil, false
	}
	return id, f, true
}

func (s *service) GetDraft(ctx *ginext.Context) {
	id, f, ok := s.draft(ctx)
	if !ok {
		return
	}
	dto.SuccessResponse(ctx, dto.DraftResponse{DraftID: id, View: f.View()})
}

func (s *service) ChooseService(ctx *ginext.Context) {
	id, f, ok := s.draft(ctx)
	if !ok {
		return
	}

	var req dto.StartDraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	svc, err := s.Catalog.Service(ctx.Request.Context(), req.ServiceID)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	if err := f.ChooseService(svc); err != nil {
		s.respondError(ctx, err)
		return
	}
	dto.SuccessResponse(ctx, dto.DraftResponse{DraftID: id, View: f.View()})
}

func (s *service) ChoosePackage(ctx *ginext.Context) {
	id, f, ok := s.draft(ctx)
	if !ok {
		return
	}

	var req dto.ChoosePackageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	if err := f.ChoosePackage(req.PackageID); err != nil {
		s.respondError(ctx, err)
		return
	}
	dto.SuccessResponse(ctx, dto.DraftResponse{DraftID: id, View: f.View()})
}

func (s *service) SubmitDetails(ctx *ginext.Context) {
	id, f, ok := s.draft(ctx)
	if !ok {
		return
	}

	var req dto.RegistrantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if err := f.SubmitForm(ctx.Request.Context(), req.Registrant()); err != nil {
		s.respondError(ctx, err)
		return
	}
	dto.SuccessResponse(ctx, dto.DraftResponse{DraftID: id, View: f.View()})
}

func (s *service) SelectProof(ctx *ginext.Context) {
	id, f, ok := s.draft(ctx)
	if !ok {
		return
	}

	fh, err := ctx.FormFile(proofField)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, registration.ErrProofEmpty.Error())
		return
	}
	file, err := fh.Open()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to open uploaded proof")
		dto.InternalServerError(ctx)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, registration.MaxProofSize+1))
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read uploaded proof")
		dto.InternalServerError(ctx)
		return
	}

	proof, err := registration.NewProof(fh.Filename, data)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	if err := f.SelectProof(proof); err != nil {
		s.respondError(ctx, err)
		return
	}
	dto.SuccessResponse(ctx, dto.DraftResponse{DraftID: id, View: f.View()})
}

func (s *service) SubmitDraft(ctx *ginext.Context) {
	id, f, ok := s.draft(ctx)
	if !ok {
		return
	}

	reg, err := f.SubmitProof(ctx.Request.Context())
	if err != nil {
		s.log.Warn().Err(err).Str("draft_id", id).Msg("registration submission failed")
		s.respondError(ctx, err)
		return
	}

	s.Drafts.Delete(id)
	dto.SuccessCreatedResponse(ctx, reg)
}

func (s *service) CancelDraft(ctx *ginext.Context) {
	id, f, ok := s.draft(ctx)
	if !ok {
		return
	}
	if err := f.Cancel(); err != nil {
		s.respondError(ctx, err)
		return
	}
	s.Drafts.Delete(id)
	dto.SuccessResponse(ctx, dto.DraftResponse{DraftID: id, View: f.View()})
}
