package content

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/berryray-tech/Berry-Ray-main/internal/model"
	"github.com/berryray-tech/Berry-Ray-main/pkg/validator"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

type Store interface {
	InsertContactMessage(ctx context.Context, msg *model.ContactMessage) (*model.ContactMessage, error)
	ListContactMessages(ctx context.Context, limit int) ([]model.ContactMessage, error)
	InsertNewsBanner(ctx context.Context, n *model.NewsBanner) (*model.NewsBanner, error)
	ListNewsBanners(ctx context.Context, activeOnly bool, limit int) ([]model.NewsBanner, error)
	InsertTestimony(ctx context.Context, t *model.Testimony) (*model.Testimony, error)
	ListTestimonies(ctx context.Context, approvedOnly bool, limit int) ([]model.Testimony, error)
	ToggleTestimonyApproval(ctx context.Context, id int64) (*model.Testimony, error)
}

type ContactForm struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,emailshape,max=255"`
	Subject string `json:"subject" validate:"max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}

type NewsForm struct {
	Title    string `json:"title" validate:"required,max=255"`
	Body     string `json:"body" validate:"max=5000"`
	Link     string `json:"link" validate:"omitempty,url,max=2048"`
	IsActive *bool  `json:"is_active"`
}

type TestimonyForm struct {
	StudentName string `json:"student_name" validate:"required,max=255"`
	Testimony   string `json:"testimony" validate:"required,max=5000"`
}

type Service struct {
	store Store
	log   *zerolog.Logger
}

func NewService(store Store, log *zerolog.Logger) *Service {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Service{store: store, log: log}
}

// ClampLimit maps a requested page size onto 1..MaxLimit, using DefaultLimit for zero or less.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

func (s *Service) SubmitContact(ctx context.Context, form ContactForm) (*model.ContactMessage, error) {
	form = ContactForm{
		Name:    validator.CleanString(form.Name),
		Email:   validator.CleanString(form.Email),
		Subject: validator.CleanString(form.Subject),
		Message: validator.CleanString(form.Message),
	}
	if err := validator.Validate(ctx, form); err != nil {
		return nil, err
	}

	msg, err := s.store.InsertContactMessage(ctx, &model.ContactMessage{
		FullName: form.Name,
		Email:    form.Email,
		Subject:  form.Subject,
		Message:  form.Message,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("contact_message_id", msg.ID).Msg("contact message received")
	return msg, nil
}

func (s *Service) ContactMessages(ctx context.Context, limit int) ([]model.ContactMessage, error) {
	return s.store.ListContactMessages(ctx, ClampLimit(limit))
}

func (s *Service) LatestNews(ctx context.Context, limit int) ([]model.NewsBanner, error) {
	return s.store.ListNewsBanners(ctx, true, ClampLimit(limit))
}

// LatestTestimonies returns approved testimonies only.
func (s *Service) LatestTestimonies(ctx context.Context, limit int) ([]model.Testimony, error) {
	return s.store.ListTestimonies(ctx, true, ClampLimit(limit))
}

func (s *Service) AllTestimonies(ctx context.Context, limit int) ([]model.Testimony, error) {
	return s.store.ListTestimonies(ctx, false, ClampLimit(limit))
}

func (s *Service) ToggleTestimony(ctx context.Context, id int64) (*model.Testimony, error) {
	t, err := s.store.ToggleTestimonyApproval(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("testimony_id", t.ID).Bool("is_approved", t.IsApproved).Msg("testimony moderated")
	return t, nil
}

func (s *Service) AddNews(ctx context.Context, form NewsForm) (*model.NewsBanner, error) {
	form.Title = validator.CleanString(form.Title)
	form.Body = validator.CleanString(form.Body)
	form.Link = validator.CleanString(form.Link)
	if err := validator.Validate(ctx, form); err != nil {
		return nil, err
	}

	active := true
	if form.IsActive != nil {
		active = *form.IsActive
	}
	return s.store.InsertNewsBanner(ctx, &model.NewsBanner{
		Title:    form.Title,
		Body:     form.Body,
		Link:     form.Link,
		IsActive: active,
	})
}

func (s *Service) AddTestimony(ctx context.Context, form TestimonyForm) (*model.Testimony, error) {
	form.StudentName = validator.CleanString(form.StudentName)
	form.Testimony = validator.CleanString(form.Testimony)
	if err := validator.Validate(ctx, form); err != nil {
		return nil, err
	}
	return s.store.InsertTestimony(ctx, &model.Testimony{
		StudentName: form.StudentName,
		Testimony:   form.Testimony,
		IsApproved:  false,
	})
}
