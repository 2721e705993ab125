package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Service struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Summary     string    `db:"summary" json:"summary"`
	Description string    `db:"description" json:"description"`
	Packages    []Package `json:"packages"`
}

// Package looks up one of the service's packages by id.
func (s Service) Package(id string) (Package, bool) {
	for _, p := range s.Packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

type Package struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Price      Price  `db:"price" json:"price"`
	PriceLabel string `db:"price_label" json:"priceLabel,omitempty"`
	Desc       string `db:"description" json:"desc"`
}

// Registrant holds the contact details collected before payment. It is never stored on its own.
type Registrant struct {
	Name           string `json:"name" validate:"required,max=255"`
	Email          string `json:"email" validate:"required,emailshape,max=255"`
	Phone          string `json:"phone,omitempty" validate:"omitempty,phone,max=32"`
	AdditionalInfo string `json:"additional_info,omitempty" validate:"max=2000"`
}

// Clean trims surrounding whitespace from every field.
func (r Registrant) Clean() Registrant {
	return Registrant{
		Name:           strings.TrimSpace(r.Name),
		Email:          strings.TrimSpace(r.Email),
		Phone:          strings.TrimSpace(r.Phone),
		AdditionalInfo: strings.TrimSpace(r.AdditionalInfo),
	}
}

// ProofOfPayment is the bank-transfer evidence uploaded by a registrant.
// MIMEType is filled from the file content, not from what the client declared.
type ProofOfPayment struct {
	FileName string
	MIMEType string
	Data     []byte
}

func (p ProofOfPayment) Size() int64 { return int64(len(p.Data)) }

type ServiceRegistration struct {
	ID              int64     `db:"id" json:"id"`
	FullName        string    `db:"full_name" json:"full_name"`
	Email           string    `db:"email" json:"email"`
	Phone           *string   `db:"phone" json:"phone"`
	AdditionalInfo  *string   `db:"additional_info" json:"additional_info"`
	ServiceID       string    `db:"service_id" json:"service_id"`
	ServiceTitle    string    `db:"service_title" json:"service_title"`
	PackageID       string    `db:"package_id" json:"package_id"`
	PackageName     string    `db:"package_name" json:"package_name"`
	PackagePrice    float64   `db:"package_price" json:"package_price"`
	PaymentProofURL string    `db:"payment_proof_url" json:"payment_proof_url"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// CanMoveTo reports whether an admin may move a registration from its current status to next.
// Only pending registrations can be decided, and only once.
func (r ServiceRegistration) CanMoveTo(next string) bool {
	return r.Status == StatusPending && (next == StatusApproved || next == StatusRejected)
}

type AdminRecord struct {
	UserID    string    `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Account struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type ContactMessage struct {
	ID        int64     `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	Subject   string    `db:"subject" json:"subject"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type NewsBanner struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	Link      string    `db:"link" json:"link,omitempty"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Testimony is shown publicly only once an admin approves it.
type Testimony struct {
	ID          int64     `db:"id" json:"id"`
	StudentName string    `db:"student_name" json:"student_name"`
	Testimony   string    `db:"testimony" json:"testimony"`
	IsApproved  bool      `db:"is_approved" json:"is_approved"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
