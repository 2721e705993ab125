package service

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/wb-go/wbf/ginext"

	"github.com/berryray-tech/Berry-Ray-main/internal/auth"
	"github.com/berryray-tech/Berry-Ray-main/internal/dto"
	"github.com/berryray-tech/Berry-Ray-main/internal/gate"
	"github.com/berryray-tech/Berry-Ray-main/internal/model"
	"github.com/berryray-tech/Berry-Ray-main/internal/repo"
	"github.com/berryray-tech/Berry-Ray-main/pkg/validator"
)

const sessionKey = "session"

func bearerToken(ctx *ginext.Context) string {
	h := ctx.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

type sessionResponse struct {
	Session *auth.Session `json:"session"`
	IsAdmin bool          `json:"is_admin"`
}

func (s *service) Login(ctx *ginext.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	rctx := ctx.Request.Context()
	sess, err := s.Sessions.SignInWithPassword(rctx, req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		dto.ErrorResponse(ctx, http.StatusUnauthorized, dto.InvalidCredentials, err.Error())
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("sign in failed")
		dto.InternalServerError(ctx)
		return
	}

	if !s.admit(ctx, sess) {
		return
	}
	dto.SuccessResponse(ctx, sessionResponse{Session: sess, IsAdmin: true})
}

func (s *service) Logout(ctx *ginext.Context) {
	if err := s.Sessions.SignOut(ctx.Request.Context(), bearerToken(ctx)); err != nil {
		s.log.Error().Err(err).Msg("sign out failed")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, nil)
}

func (s *service) Refresh(ctx *ginext.Context) {
	token := bearerToken(ctx)
	if token == "" {
		var req dto.RefreshRequest
		_ = ctx.ShouldBindJSON(&req)
		token = req.Token
	}

	sess, err := s.Sessions.Refresh(ctx.Request.Context(), token)
	if errors.Is(err, auth.ErrInvalidSession) {
		dto.UnauthenticatedError(ctx)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("session refresh failed")
		dto.InternalServerError(ctx)
		return
	}

	if !s.admit(ctx, sess) {
		return
	}
	dto.SuccessResponse(ctx, sessionResponse{Session: sess, IsAdmin: true})
}

func (s *service) GetSession(ctx *ginext.Context) {
	sess, err := s.Sessions.GetSession(ctx.Request.Context(), bearerToken(ctx))
	if err != nil || sess == nil {
		dto.UnauthenticatedError(ctx)
		return
	}

	d, err := s.Gate.Evaluate(ctx.Request.Context(), sess)
	if err != nil {
		dto.UnavailableError(ctx, dto.AdminCheckUnavailable, "Unable to verify admin access. Please try again.")
		return
	}
	dto.SuccessResponse(ctx, sessionResponse{Session: sess, IsAdmin: d == gate.Authorized})
}

// admit runs the admin gate for sess and writes the failure response when it
// does not pass. Non-admin sessions are signed out when configured to.
func (s *service) admit(ctx *ginext.Context, sess *auth.Session) bool {
	rctx := ctx.Request.Context()

	d, err := s.Gate.Evaluate(rctx, sess)
	if err != nil {
		dto.UnavailableError(ctx, dto.AdminCheckUnavailable, "Unable to verify admin access. Please try again.")
		return false
	}

	switch d {
	case gate.Authorized:
		return true
	case gate.Unauthenticated:
		dto.UnauthenticatedError(ctx)
	default:
		if s.ForceSignOut {
			if err := s.Sessions.SignOut(rctx, sess.Token); err != nil {
				s.log.Error().Err(err).Str("user_id", sess.UserID).Msg("failed to sign out non-admin session")
			}
		}
		s.log.Warn().Str("user_id", sess.UserID).Msg("non-admin session denied")
		dto.AccessDeniedError(ctx)
	}
	return false
}

// AdminOnly guards the admin routes. The admins table is consulted on every request.
func (s *service) AdminOnly(ctx *ginext.Context) {
	sess, err := s.Sessions.GetSession(ctx.Request.Context(), bearerToken(ctx))
	if err != nil {
		sess = nil
	}
	if !s.admit(ctx, sess) {
		return
	}
	ctx.Set(sessionKey, sess)
	ctx.Next()
}

func (s *service) ListRegistrations(ctx *ginext.Context) {
	status := ctx.Query("status")
	switch status {
	case "", model.StatusPending, model.StatusApproved, model.StatusRejected:
	default:
		dto.FieldIncorrectError(ctx, "status")
		return
	}

	regs, err := s.Registrations.ListRegistrations(ctx.Request.Context(), status)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list registrations")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, regs)
}

func (s *service) UpdateRegistrationStatus(ctx *ginext.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid registration ID")
		return
	}

	var req dto.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	reg, err := s.Registrations.UpdateRegistrationStatusTx(ctx.Request.Context(), id, req.Status)
	switch {
	case errors.Is(err, repo.ErrNoRows):
		dto.NotFoundError(ctx, dto.RegistrationNotFound, "Registration not found")
		return
	case errors.Is(err, repo.ErrStatusConflict):
		dto.ConflictError(ctx, dto.StatusConflict, "Only pending registrations can be approved or rejected")
		return
	case err != nil:
		s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to update registration status")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("registration_id", id).Str("status", reg.Status).Msg("registration status updated")

	if s.Notifier != nil {
		if err := s.Notifier.StatusChanged(ctx.Request.Context(), reg); err != nil {
			s.log.Warn().Err(err).Int64("registration_id", id).Msg("failed to publish status notification")
		}
	}
	dto.SuccessResponse(ctx, reg)
}
