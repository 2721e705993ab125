package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"github.com/berryray-tech/Berry-Ray-main/internal/auth"
	"github.com/berryray-tech/Berry-Ray-main/internal/content"
	"github.com/berryray-tech/Berry-Ray-main/internal/flow"
	"github.com/berryray-tech/Berry-Ray-main/internal/gate"
	"github.com/berryray-tech/Berry-Ray-main/internal/model"
)

type Service interface {
	GetServices(ctx *ginext.Context)

	StartDraft(ctx *ginext.Context)
	GetDraft(ctx *ginext.Context)
	ChooseService(ctx *ginext.Context)
	ChoosePackage(ctx *ginext.Context)
	SubmitDetails(ctx *ginext.Context)
	SelectProof(ctx *ginext.Context)
	SubmitDraft(ctx *ginext.Context)
	CancelDraft(ctx *ginext.Context)

	SubmitContact(ctx *ginext.Context)
	GetNews(ctx *ginext.Context)
	GetTestimonies(ctx *ginext.Context)

	Login(ctx *ginext.Context)
	Logout(ctx *ginext.Context)
	Refresh(ctx *ginext.Context)
	GetSession(ctx *ginext.Context)

	AdminOnly(ctx *ginext.Context)
	ListRegistrations(ctx *ginext.Context)
	UpdateRegistrationStatus(ctx *ginext.Context)
	ListContactMessages(ctx *ginext.Context)
	CreateNews(ctx *ginext.Context)
	CreateTestimony(ctx *ginext.Context)
	ListAllTestimonies(ctx *ginext.Context)
	ToggleTestimony(ctx *ginext.Context)
}

type CatalogLoader interface {
	Load(ctx context.Context) ([]model.Service, error)
	Service(ctx context.Context, id string) (model.Service, error)
}

type Drafts interface {
	Create() (string, *flow.Flow)
	Get(id string) (*flow.Flow, error)
	Delete(id string)
}

type Content interface {
	SubmitContact(ctx context.Context, form content.ContactForm) (*model.ContactMessage, error)
	ContactMessages(ctx context.Context, limit int) ([]model.ContactMessage, error)
	LatestNews(ctx context.Context, limit int) ([]model.NewsBanner, error)
	LatestTestimonies(ctx context.Context, limit int) ([]model.Testimony, error)
	AddNews(ctx context.Context, form content.NewsForm) (*model.NewsBanner, error)
	AddTestimony(ctx context.Context, form content.TestimonyForm) (*model.Testimony, error)
	AllTestimonies(ctx context.Context, limit int) ([]model.Testimony, error)
	ToggleTestimony(ctx context.Context, id int64) (*model.Testimony, error)
}

type Sessions interface {
	SignInWithPassword(ctx context.Context, email, password string) (*auth.Session, error)
	GetSession(ctx context.Context, token string) (*auth.Session, error)
	Refresh(ctx context.Context, token string) (*auth.Session, error)
	SignOut(ctx context.Context, token string) error
}

type Gatekeeper interface {
	Evaluate(ctx context.Context, sess *auth.Session) (gate.Decision, error)
}

type RegistrationAdmin interface {
	ListRegistrations(ctx context.Context, status string) ([]model.ServiceRegistration, error)
	UpdateRegistrationStatusTx(ctx context.Context, id int64, newStatus string) (*model.ServiceRegistration, error)
}

type StatusNotifier interface {
	StatusChanged(ctx context.Context, reg *model.ServiceRegistration) error
}

type Deps struct {
	Catalog       CatalogLoader
	Drafts        Drafts
	Content       Content
	Sessions      Sessions
	Gate          Gatekeeper
	Registrations RegistrationAdmin
	Notifier      StatusNotifier
	ForceSignOut  bool
}

type service struct {
	Deps
	log *zerolog.Logger
}

func NewService(deps Deps, logger *zerolog.Logger) Service {
	return &service{
		Deps: deps,
		log:  logger,
	}
}
