package service

import (
	"errors"
	"strconv"

	"github.com/wb-go/wbf/ginext"

	"github.com/berryray-tech/Berry-Ray-main/internal/content"
	"github.com/berryray-tech/Berry-Ray-main/internal/dto"
	"github.com/berryray-tech/Berry-Ray-main/internal/repo"
	"github.com/berryray-tech/Berry-Ray-main/pkg/validator"
)

func queryLimit(ctx *ginext.Context) int {
	n, err := strconv.Atoi(ctx.Query("limit"))
	if err != nil {
		return 0
	}
	return n
}

// contentError answers validation failures with 400 and everything else with 500.
func (s *service) contentError(ctx *ginext.Context, err error, msg string) {
	var fe *validator.FieldError
	if errors.As(err, &fe) {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fe.Error())
		return
	}
	s.log.Error().Err(err).Msg(msg)
	dto.InternalServerError(ctx)
}

func (s *service) SubmitContact(ctx *ginext.Context) {
	var req content.ContactForm
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	msg, err := s.Content.SubmitContact(ctx.Request.Context(), req)
	if err != nil {
		s.contentError(ctx, err, "failed to save contact message")
		return
	}
	dto.SuccessCreatedResponse(ctx, msg)
}

func (s *service) GetNews(ctx *ginext.Context) {
	news, err := s.Content.LatestNews(ctx.Request.Context(), queryLimit(ctx))
	if err != nil {
		s.contentError(ctx, err, "failed to load news")
		return
	}
	dto.SuccessResponse(ctx, news)
}

func (s *service) GetTestimonies(ctx *ginext.Context) {
	list, err := s.Content.LatestTestimonies(ctx.Request.Context(), queryLimit(ctx))
	if err != nil {
		s.contentError(ctx, err, "failed to load testimonies")
		return
	}
	dto.SuccessResponse(ctx, list)
}

func (s *service) ListContactMessages(ctx *ginext.Context) {
	msgs, err := s.Content.ContactMessages(ctx.Request.Context(), queryLimit(ctx))
	if err != nil {
		s.contentError(ctx, err, "failed to load contact messages")
		return
	}
	dto.SuccessResponse(ctx, msgs)
}

func (s *service) CreateNews(ctx *ginext.Context) {
	var req content.NewsForm
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	n, err := s.Content.AddNews(ctx.Request.Context(), req)
	if err != nil {
		s.contentError(ctx, err, "failed to save news banner")
		return
	}
	dto.SuccessCreatedResponse(ctx, n)
}

func (s *service) CreateTestimony(ctx *ginext.Context) {
	var req content.TestimonyForm
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	t, err := s.Content.AddTestimony(ctx.Request.Context(), req)
	if err != nil {
		s.contentError(ctx, err, "failed to save testimony")
		return
	}
	dto.SuccessCreatedResponse(ctx, t)
}

func (s *service) ListAllTestimonies(ctx *ginext.Context) {
	list, err := s.Content.AllTestimonies(ctx.Request.Context(), queryLimit(ctx))
	if err != nil {
		s.contentError(ctx, err, "failed to load testimonies")
		return
	}
	dto.SuccessResponse(ctx, list)
}

func (s *service) ToggleTestimony(ctx *ginext.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid testimony ID")
		return
	}

	t, err := s.Content.ToggleTestimony(ctx.Request.Context(), id)
	if errors.Is(err, repo.ErrNoRows) {
		dto.NotFoundError(ctx, dto.TestimonyNotFound, "Testimony not found")
		return
	}
	if err != nil {
		s.contentError(ctx, err, "failed to update testimony")
		return
	}
	dto.SuccessResponse(ctx, t)
}
