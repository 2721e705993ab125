package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/berryray-tech/Berry-Ray-main/internal/model"
	"github.com/berryray-tech/Berry-Ray-main/internal/storage"
)

const DefaultBucket = "payment-proofs"

var (
	ErrUploadFailed   = errors.New("file upload failed")
	ErrPriceCorrupted = errors.New("price data is corrupted or missing")
	ErrInsertFailed   = errors.New("database insert failed")
	ErrPackageMissing = errors.New("package does not belong to the selected service")
)

const (
	StageUpload = "upload"
	StagePrice  = "price"
	StageInsert = "insert"
)

// SubmitError reports which stage of a submission failed. It matches both its
// Kind sentinel and the underlying Reason with errors.Is.
type SubmitError struct {
	Stage  string
	Kind   error
	Reason error
}

func (e *SubmitError) Error() string {
	if e.Reason == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Reason.Error()
}

func (e *SubmitError) Unwrap() []error {
	if e.Reason == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Reason}
}

type Store interface {
	InsertRegistration(ctx context.Context, reg *model.ServiceRegistration) (*model.ServiceRegistration, error)
}

type Notifier interface {
	RegistrationCreated(ctx context.Context, reg *model.ServiceRegistration) error
}

type Submission struct {
	Service    model.Service
	Package    model.Package
	Registrant model.Registrant
	Proof      model.ProofOfPayment
}

type Submitter struct {
	store    Store
	objects  storage.ObjectStore
	bucket   string
	notifier Notifier
	now      func() time.Time
	log      *zerolog.Logger
}

type Option func(*Submitter)

func WithNotifier(n Notifier) Option {
	return func(s *Submitter) { s.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *Submitter) { s.now = now }
}

func NewSubmitter(store Store, objects storage.ObjectStore, bucket string, log *zerolog.Logger, opts ...Option) *Submitter {
	if bucket == "" {
		bucket = DefaultBucket
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	s := &Submitter{
		store:   store,
		objects: objects,
		bucket:  bucket,
		now:     time.Now,
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit uploads the proof and then records the registration. The upload always
// finishes before the insert is attempted. A failure after the upload leaves the
// object in the bucket.
func (s *Submitter) Submit(ctx context.Context, sub Submission) (*model.ServiceRegistration, error) {
	if err := ValidateProof(sub.Proof); err != nil {
		return nil, err
	}
	if _, ok := sub.Service.Package(sub.Package.ID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrPackageMissing, sub.Package.ID)
	}

	key := s.objectKey(sub)
	path, err := s.objects.Upload(ctx, s.bucket, key, sub.Proof.Data, sub.Proof.MIMEType)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("proof upload failed")
		return nil, &SubmitError{Stage: StageUpload, Kind: ErrUploadFailed, Reason: err}
	}
	proofURL := s.objects.PublicURL(s.bucket, path)

	price, err := NormalizePrice(sub.Package.Price.String())
	if err != nil {
		s.log.Error().Str("package_id", sub.Package.ID).Str("price", sub.Package.Price.String()).
			Str("orphaned_key", path).Msg("package price cannot be normalized")
		return nil, &SubmitError{Stage: StagePrice, Kind: ErrPriceCorrupted}
	}

	r := sub.Registrant.Clean()
	reg := &model.ServiceRegistration{
		FullName:        r.Name,
		Email:           r.Email,
		Phone:           optional(r.Phone),
		AdditionalInfo:  optional(r.AdditionalInfo),
		ServiceID:       sub.Service.ID,
		ServiceTitle:    sub.Service.Title,
		PackageID:       sub.Package.ID,
		PackageName:     sub.Package.Name,
		PackagePrice:    price,
		PaymentProofURL: proofURL,
		Status:          model.StatusPending,
	}

	saved, err := s.store.InsertRegistration(ctx, reg)
	if err != nil {
		s.log.Error().Err(err).Str("orphaned_key", path).Msg("registration insert failed")
		return nil, &SubmitError{Stage: StageInsert, Kind: ErrInsertFailed, Reason: err}
	}

	s.log.Info().Int64("registration_id", saved.ID).Str("service_id", saved.ServiceID).
		Str("package_id", saved.PackageID).Msg("registration created")

	if s.notifier != nil {
		if err := s.notifier.RegistrationCreated(ctx, saved); err != nil {
			s.log.Warn().Err(err).Int64("registration_id", saved.ID).Msg("failed to publish registration notification")
		}
	}

	return saved, nil
}

func (s *Submitter) objectKey(sub Submission) string {
	return fmt.Sprintf("%s-%s-%d%s", sub.Service.ID, sub.Package.ID, s.now().UnixMilli(), proofExtension(sub.Proof))
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
