package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/berryray-tech/Berry-Ray-main/internal/auth"
	"github.com/berryray-tech/Berry-Ray-main/internal/model"
	"github.com/berryray-tech/Berry-Ray-main/internal/repo"
)

var ErrCheckUnavailable = errors.New("unable to verify admin access")

type Decision int

const (
	Unauthenticated Decision = iota
	Unauthorized
	Authorized
)

func (d Decision) String() string {
	switch d {
	case Unauthenticated:
		return "unauthenticated"
	case Unauthorized:
		return "unauthorized"
	case Authorized:
		return "authorized"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

type AdminStore interface {
	FindAdminByUserID(ctx context.Context, userID string) (*model.AdminRecord, error)
}

// Gate decides whether a session belongs to an admin. Every call reads the
// admins table again; nothing is cached.
type Gate struct {
	store AdminStore
	log   *zerolog.Logger
}

func New(store AdminStore, log *zerolog.Logger) *Gate {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Gate{store: store, log: log}
}

// Evaluate returns ErrCheckUnavailable when the admin lookup itself failed.
// A missing row, reported either as no result or as a no-rows error, is Unauthorized.
func (g *Gate) Evaluate(ctx context.Context, sess *auth.Session) (Decision, error) {
	if sess == nil {
		return Unauthenticated, nil
	}

	rec, err := g.store.FindAdminByUserID(ctx, sess.UserID)
	switch {
	case errors.Is(err, repo.ErrNoRows):
		return Unauthorized, nil
	case err != nil:
		g.log.Error().Err(err).Str("user_id", sess.UserID).Msg("admin lookup failed")
		return Unauthorized, fmt.Errorf("%w: %v", ErrCheckUnavailable, err)
	case rec == nil:
		return Unauthorized, nil
	default:
		return Authorized, nil
	}
}

func (g *Gate) IsAuthorized(ctx context.Context, sess *auth.Session) bool {
	d, err := g.Evaluate(ctx, sess)
	return err == nil && d == Authorized
}

type SessionSource interface {
	OnSessionChange(l auth.Listener) func()
	SignOut(ctx context.Context, token string) error
}

// Watch re-checks admin membership whenever a session is signed in or refreshed.
// With forceSignOut set, sessions that turn out not to be admins are signed out.
func (g *Gate) Watch(src SessionSource, forceSignOut bool) (stop func()) {
	return src.OnSessionChange(func(ctx context.Context, ev auth.Event) {
		if ev.Type != auth.SignedIn && ev.Type != auth.TokenRefreshed {
			return
		}

		d, err := g.Evaluate(ctx, ev.Session)
		if err != nil {
			g.log.Warn().Err(err).Str("event", string(ev.Type)).Msg("admin check skipped")
			return
		}
		g.log.Info().Str("event", string(ev.Type)).Str("user_id", ev.Session.UserID).
			Str("decision", d.String()).Msg("admin check")

		if d == Unauthorized && forceSignOut {
			if err := src.SignOut(ctx, ev.Session.Token); err != nil {
				g.log.Error().Err(err).Str("user_id", ev.Session.UserID).Msg("failed to sign out non-admin session")
			}
		}
	})
}
