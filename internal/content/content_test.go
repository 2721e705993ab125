package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berryray-tech/Berry-Ray-main/internal/model"
	"github.com/berryray-tech/Berry-Ray-main/internal/repo"
	"github.com/berryray-tech/Berry-Ray-main/pkg/validator"
)

type memStore struct {
	contacts    []model.ContactMessage
	news        []model.NewsBanner
	testimonies []model.Testimony
	lastLimit   int
	lastActive  bool
	lastOnly    bool
}

func (m *memStore) InsertContactMessage(_ context.Context, msg *model.ContactMessage) (*model.ContactMessage, error) {
	saved := *msg
	saved.ID = int64(len(m.contacts) + 1)
	m.contacts = append(m.contacts, saved)
	return &saved, nil
}

func (m *memStore) ListContactMessages(_ context.Context, limit int) ([]model.ContactMessage, error) {
	m.lastLimit = limit
	return m.contacts, nil
}

func (m *memStore) InsertNewsBanner(_ context.Context, n *model.NewsBanner) (*model.NewsBanner, error) {
	saved := *n
	saved.ID = int64(len(m.news) + 1)
	m.news = append(m.news, saved)
	return &saved, nil
}

func (m *memStore) ListNewsBanners(_ context.Context, activeOnly bool, limit int) ([]model.NewsBanner, error) {
	m.lastActive, m.lastLimit = activeOnly, limit
	return m.news, nil
}

func (m *memStore) InsertTestimony(_ context.Context, t *model.Testimony) (*model.Testimony, error) {
	saved := *t
	saved.ID = int64(len(m.testimonies) + 1)
	m.testimonies = append(m.testimonies, saved)
	return &saved, nil
}

func (m *memStore) ListTestimonies(_ context.Context, approvedOnly bool, limit int) ([]model.Testimony, error) {
	m.lastOnly, m.lastLimit = approvedOnly, limit
	out := []model.Testimony{}
	for _, t := range m.testimonies {
		if !approvedOnly || t.IsApproved {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) ToggleTestimonyApproval(_ context.Context, id int64) (*model.Testimony, error) {
	for i := range m.testimonies {
		if m.testimonies[i].ID == id {
			m.testimonies[i].IsApproved = !m.testimonies[i].IsApproved
			t := m.testimonies[i]
			return &t, nil
		}
	}
	return nil, repo.ErrNoRows
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, DefaultLimit, ClampLimit(-5))
	assert.Equal(t, 1, ClampLimit(1))
	assert.Equal(t, 25, ClampLimit(25))
	assert.Equal(t, MaxLimit, ClampLimit(500))
}

func TestSubmitContact(t *testing.T) {
	tests := []struct {
		name      string
		form      ContactForm
		wantField string
	}{
		{name: "valid", form: ContactForm{Name: " Jane ", Email: "jane@example.com", Subject: "Hi", Message: "Hello there"}},
		{name: "missing name", form: ContactForm{Email: "jane@example.com", Message: "Hello"}, wantField: "name"},
		{name: "bad email", form: ContactForm{Name: "Jane", Email: "jane@", Message: "Hello"}, wantField: "email"},
		{name: "blank message", form: ContactForm{Name: "Jane", Email: "jane@example.com", Message: "  "}, wantField: "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{}
			msg, err := NewService(store, nil).SubmitContact(context.Background(), tt.form)
			if tt.wantField != "" {
				fe, ok := validator.AsFieldError(err)
				require.True(t, ok, "expected field error, got %v", err)
				assert.Equal(t, tt.wantField, fe.Field)
				assert.Empty(t, store.contacts)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Jane", msg.FullName)
			assert.Len(t, store.contacts, 1)
		})
	}
}

func TestLatestNews_ActiveOnlyAndClamped(t *testing.T) {
	store := &memStore{}
	s := NewService(store, nil)

	_, err := s.LatestNews(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, store.lastActive)
	assert.Equal(t, DefaultLimit, store.lastLimit)

	_, err = s.LatestTestimonies(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, store.lastLimit)
}

func TestAddNews(t *testing.T) {
	store := &memStore{}
	s := NewService(store, nil)

	n, err := s.AddNews(context.Background(), NewsForm{Title: "Admissions open", Link: "https://example.com/apply"})
	require.NoError(t, err)
	assert.True(t, n.IsActive)

	inactive := false
	n, err = s.AddNews(context.Background(), NewsForm{Title: "Old", IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, n.IsActive)

	_, err = s.AddNews(context.Background(), NewsForm{Title: "Bad link", Link: "not a url"})
	fe, ok := validator.AsFieldError(err)
	require.True(t, ok)
	assert.Equal(t, "link", fe.Field)
}

func TestAddTestimony(t *testing.T) {
	store := &memStore{}
	s := NewService(store, nil)

	tm, err := s.AddTestimony(context.Background(), TestimonyForm{StudentName: "Ada", Testimony: "Great tutors"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), tm.ID)
	assert.False(t, tm.IsApproved)

	_, err = s.AddTestimony(context.Background(), TestimonyForm{StudentName: "Ada"})
	assert.Error(t, err)
}

func TestTestimonyModeration(t *testing.T) {
	store := &memStore{}
	s := NewService(store, nil)
	ctx := context.Background()

	_, err := s.AddTestimony(ctx, TestimonyForm{StudentName: "Ada", Testimony: "Great tutors"})
	require.NoError(t, err)
	_, err = s.AddTestimony(ctx, TestimonyForm{StudentName: "Tobi", Testimony: "Learnt a lot"})
	require.NoError(t, err)

	public, err := s.LatestTestimonies(ctx, 0)
	require.NoError(t, err)
	assert.True(t, store.lastOnly)
	assert.Empty(t, public, "nothing is public before approval")

	tm, err := s.ToggleTestimony(ctx, 2)
	require.NoError(t, err)
	assert.True(t, tm.IsApproved)

	public, err = s.LatestTestimonies(ctx, 0)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Tobi", public[0].StudentName)

	all, err := s.AllTestimonies(ctx, 0)
	require.NoError(t, err)
	assert.False(t, store.lastOnly)
	assert.Len(t, all, 2)

	tm, err = s.ToggleTestimony(ctx, 2)
	require.NoError(t, err)
	assert.False(t, tm.IsApproved)

	_, err = s.ToggleTestimony(ctx, 42)
	assert.ErrorIs(t, err, repo.ErrNoRows)
}
