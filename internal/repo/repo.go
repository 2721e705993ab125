package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"github.com/berryray-tech/Berry-Ray-main/internal/model"
)

var (
	ErrNoRows         = errors.New("no rows in result set")
	ErrDuplicate      = errors.New("duplicate record")
	ErrStatusConflict = errors.New("registration status cannot be changed")
)

const uniqueViolation = "23505"

type Repository interface {
	ListServicesWithPackages(ctx context.Context) ([]model.Service, error)

	InsertRegistration(ctx context.Context, reg *model.ServiceRegistration) (*model.ServiceRegistration, error)
	GetRegistrationByID(ctx context.Context, id int64) (*model.ServiceRegistration, error)
	ListRegistrations(ctx context.Context, status string) ([]model.ServiceRegistration, error)
	UpdateRegistrationStatusTx(ctx context.Context, id int64, newStatus string) (*model.ServiceRegistration, error)

	FindAdminByUserID(ctx context.Context, userID string) (*model.AdminRecord, error)
	InsertAdmin(ctx context.Context, userID string) error

	CreateAccount(ctx context.Context, email string, passwordHash []byte) (*model.Account, error)
	FindAccountByEmail(ctx context.Context, email string) (*model.Account, error)

	InsertContactMessage(ctx context.Context, msg *model.ContactMessage) (*model.ContactMessage, error)
	ListContactMessages(ctx context.Context, limit int) ([]model.ContactMessage, error)
	InsertNewsBanner(ctx context.Context, n *model.NewsBanner) (*model.NewsBanner, error)
	ListNewsBanners(ctx context.Context, activeOnly bool, limit int) ([]model.NewsBanner, error)
	InsertTestimony(ctx context.Context, t *model.Testimony) (*model.Testimony, error)
	ListTestimonies(ctx context.Context, approvedOnly bool, limit int) ([]model.Testimony, error)
	ToggleTestimonyApproval(ctx context.Context, id int64) (*model.Testimony, error)

	MigrateUp(ctx context.Context, migrationsDir string) error
	MigrateDown(ctx context.Context, migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) MigrateUp(ctx context.Context, migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		if err := r.execFile(ctx, file); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Int("files", len(files)).Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(ctx context.Context, migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	for _, file := range files {
		if err := r.execFile(ctx, file); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	r.log.Info().Int("files", len(files)).Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

func (r *repository) execFile(ctx context.Context, file string) error {
	sqlBytes, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, string(sqlBytes))
	return err
}

func (r *repository) ListServicesWithPackages(ctx context.Context) ([]model.Service, error) {
	query := `
		SELECT s.id, s.title, s.summary, s.description,
		       COALESCE(
		           json_agg(
		               json_build_object(
		                   'id', p.id,
		                   'name', p.name,
		                   'price', p.price,
		                   'priceLabel', p.price_label,
		                   'desc', p.description
		               ) ORDER BY p.id
		           ) FILTER (WHERE p.id IS NOT NULL),
		           '[]'
		       ) AS packages
		FROM services s
		LEFT JOIN service_packages p ON p.service_id = s.id
		GROUP BY s.id
		ORDER BY s.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get services: %w", err)
	}
	defer rows.Close()

	services := make([]model.Service, 0)
	for rows.Next() {
		var (
			s        model.Service
			packages []byte
		)
		if err := rows.Scan(&s.ID, &s.Title, &s.Summary, &s.Description, &packages); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		if s.Packages, err = decodePackages(packages); err != nil {
			return nil, fmt.Errorf("malformed packages for service %s: %w", s.ID, err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate services: %w", err)
	}

	return services, nil
}

// decodePackages reads the json_agg column. Null prices and labels come back empty.
func decodePackages(raw []byte) ([]model.Package, error) {
	packages := make([]model.Package, 0)
	if len(raw) == 0 {
		return packages, nil
	}
	if err := json.Unmarshal(raw, &packages); err != nil {
		return nil, err
	}
	if packages == nil {
		packages = make([]model.Package, 0)
	}
	return packages, nil
}

const registrationColumns = `
	id, full_name, email, phone, additional_info,
	service_id, service_title, package_id, package_name, package_price,
	payment_proof_url, status, created_at, updated_at
`

type scanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row scanner) (*model.ServiceRegistration, error) {
	var reg model.ServiceRegistration
	var phone, info sql.NullString
	if err := row.Scan(
		&reg.ID,
		&reg.FullName,
		&reg.Email,
		&phone,
		&info,
		&reg.ServiceID,
		&reg.ServiceTitle,
		&reg.PackageID,
		&reg.PackageName,
		&reg.PackagePrice,
		&reg.PaymentProofURL,
		&reg.Status,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if phone.Valid {
		reg.Phone = &phone.String
	}
	if info.Valid {
		reg.AdditionalInfo = &info.String
	}
	return &reg, nil
}

func (r *repository) InsertRegistration(ctx context.Context, reg *model.ServiceRegistration) (*model.ServiceRegistration, error) {
	query := `
		INSERT INTO service_registrations (
			full_name, email, phone, additional_info,
			service_id, service_title, package_id, package_name, package_price,
			payment_proof_url, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + registrationColumns

	row := r.db.QueryRowContext(ctx, query,
		reg.FullName, reg.Email, reg.Phone, reg.AdditionalInfo,
		reg.ServiceID, reg.ServiceTitle, reg.PackageID, reg.PackageName, reg.PackagePrice,
		reg.PaymentProofURL, reg.Status,
	)

	saved, err := scanRegistration(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert registration: %w", err)
	}
	return saved, nil
}

func (r *repository) GetRegistrationByID(ctx context.Context, id int64) (*model.ServiceRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM service_registrations WHERE id = $1`

	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("registration %d: %w", id, ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

func (r *repository) ListRegistrations(ctx context.Context, status string) ([]model.ServiceRegistration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM service_registrations
		WHERE ($1::text = '' OR status = $1::text)
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get registrations: %w", err)
	}
	defer rows.Close()

	regs := make([]model.ServiceRegistration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate registrations: %w", err)
	}

	return regs, nil
}

func (r *repository) UpdateRegistrationStatusTx(ctx context.Context, id int64, newStatus string) (*model.ServiceRegistration, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var current model.ServiceRegistration
	err = tx.QueryRowContext(ctx, `
		SELECT status
		FROM service_registrations
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&current.Status)
	if errors.Is(err, sql.ErrNoRows) {
		_ = tx.Rollback()
		return nil, fmt.Errorf("registration %d: %w", id, ErrNoRows)
	}
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to select registration: %w", err)
	}

	if !current.CanMoveTo(newStatus) {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s -> %s: %w", current.Status, newStatus, ErrStatusConflict)
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE service_registrations
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+registrationColumns, newStatus, id)
	updated, err := scanRegistration(row)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to update registration status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return updated, nil
}

func (r *repository) FindAdminByUserID(ctx context.Context, userID string) (*model.AdminRecord, error) {
	var a model.AdminRecord
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, created_at
		FROM admins
		WHERE user_id = $1
	`, userID).Scan(&a.UserID, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("admin %s: %w", userID, ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &a, nil
}

func (r *repository) InsertAdmin(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO admins (user_id) VALUES ($1)`, userID)
	if isUniqueViolation(err) {
		return fmt.Errorf("admin %s: %w", userID, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert admin: %w", err)
	}
	return nil
}

func (r *repository) CreateAccount(ctx context.Context, email string, passwordHash []byte) (*model.Account, error) {
	acc := model.Account{ID: uuid.New(), Email: email, PasswordHash: passwordHash}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO accounts (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, acc.ID, acc.Email, acc.PasswordHash).Scan(&acc.CreatedAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("account %s: %w", email, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return &acc, nil
}

func (r *repository) FindAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	var acc model.Account
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM accounts
		WHERE email = $1
	`, email).Scan(&acc.ID, &acc.Email, &acc.PasswordHash, &acc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", email, ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acc, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
