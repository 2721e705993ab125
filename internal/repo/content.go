package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/berryray-tech/Berry-Ray-main/internal/model"
)

func (r *repository) InsertContactMessage(ctx context.Context, msg *model.ContactMessage) (*model.ContactMessage, error) {
	saved := *msg
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO contact_messages (full_name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, msg.FullName, msg.Email, msg.Subject, msg.Message).Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert contact message: %w", err)
	}
	return &saved, nil
}

func (r *repository) ListContactMessages(ctx context.Context, limit int) ([]model.ContactMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, full_name, email, subject, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact messages: %w", err)
	}
	defer rows.Close()

	msgs := make([]model.ContactMessage, 0)
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.FullName, &m.Email, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *repository) InsertNewsBanner(ctx context.Context, n *model.NewsBanner) (*model.NewsBanner, error) {
	saved := *n
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO news_banners (title, body, link, is_active)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		RETURNING id, created_at
	`, n.Title, n.Body, n.Link, n.IsActive).Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert news banner: %w", err)
	}
	return &saved, nil
}

func (r *repository) ListNewsBanners(ctx context.Context, activeOnly bool, limit int) ([]model.NewsBanner, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, body, link, is_active, created_at
		FROM news_banners
		WHERE (NOT $1::boolean OR is_active)
		ORDER BY created_at DESC
		LIMIT $2
	`, activeOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get news banners: %w", err)
	}
	defer rows.Close()

	banners := make([]model.NewsBanner, 0)
	for rows.Next() {
		var (
			n    model.NewsBanner
			link sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &link, &n.IsActive, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan news banner: %w", err)
		}
		n.Link = link.String
		banners = append(banners, n)
	}
	return banners, rows.Err()
}

func (r *repository) InsertTestimony(ctx context.Context, t *model.Testimony) (*model.Testimony, error) {
	saved := *t
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO testimonies (student_name, testimony, is_approved)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, t.StudentName, t.Testimony, t.IsApproved).Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert testimony: %w", err)
	}
	return &saved, nil
}

func (r *repository) ListTestimonies(ctx context.Context, approvedOnly bool, limit int) ([]model.Testimony, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_name, testimony, is_approved, created_at
		FROM testimonies
		WHERE NOT $1::boolean OR is_approved
		ORDER BY created_at DESC
		LIMIT $2
	`, approvedOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get testimonies: %w", err)
	}
	defer rows.Close()

	list := make([]model.Testimony, 0)
	for rows.Next() {
		var t model.Testimony
		if err := rows.Scan(&t.ID, &t.StudentName, &t.Testimony, &t.IsApproved, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan testimony: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// ToggleTestimonyApproval flips is_approved and returns the updated row.
func (r *repository) ToggleTestimonyApproval(ctx context.Context, id int64) (*model.Testimony, error) {
	var t model.Testimony
	err := r.db.QueryRowContext(ctx, `
		UPDATE testimonies
		SET is_approved = NOT is_approved
		WHERE id = $1
		RETURNING id, student_name, testimony, is_approved, created_at
	`, id).Scan(&t.ID, &t.StudentName, &t.Testimony, &t.IsApproved, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("testimony %d: %w", id, ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle testimony approval: %w", err)
	}
	return &t, nil
}
