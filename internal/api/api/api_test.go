package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/berryray-tech/Berry-Ray-main/internal/auth"
	"github.com/berryray-tech/Berry-Ray-main/internal/catalog"
	"github.com/berryray-tech/Berry-Ray-main/internal/content"
	"github.com/berryray-tech/Berry-Ray-main/internal/flow"
	"github.com/berryray-tech/Berry-Ray-main/internal/gate"
	"github.com/berryray-tech/Berry-Ray-main/internal/model"
	"github.com/berryray-tech/Berry-Ray-main/internal/registration"
	"github.com/berryray-tech/Berry-Ray-main/internal/repo"
	"github.com/berryray-tech/Berry-Ray-main/internal/service"
	"github.com/berryray-tech/Berry-Ray-main/internal/storage"
)

// fakeRepo keeps everything the handlers touch in memory.
type fakeRepo struct {
	mu         sync.Mutex
	services   []model.Service
	catalogErr error
	regs       []model.ServiceRegistration
	insertErr  error
	accounts   map[string]*model.Account
	admins     map[string]bool
	adminErr   error
	contacts   []model.ContactMessage
	news       []model.NewsBanner
	testimony  []model.Testimony
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		services: []model.Service{{
			ID:    "svc1",
			Title: "Web Development",
			Packages: []model.Package{
				{ID: "pkgA", Name: "Starter", Price: model.NewPrice("₦5,000")},
				{ID: "pkgB", Name: "Pro", Price: model.NewPrice("₦15,000")},
			},
		}},
		accounts: map[string]*model.Account{},
		admins:   map[string]bool{},
	}
}

func (f *fakeRepo) ListServicesWithPackages(context.Context) ([]model.Service, error) {
	return f.services, f.catalogErr
}

func (f *fakeRepo) InsertRegistration(_ context.Context, reg *model.ServiceRegistration) (*model.ServiceRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	saved := *reg
	saved.ID = int64(len(f.regs) + 1)
	saved.CreatedAt = time.Now()
	f.regs = append(f.regs, saved)
	return &saved, nil
}

func (f *fakeRepo) ListRegistrations(_ context.Context, status string) ([]model.ServiceRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.ServiceRegistration{}
	for _, r := range f.regs {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateRegistrationStatusTx(_ context.Context, id int64, newStatus string) (*model.ServiceRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.regs {
		if f.regs[i].ID != id {
			continue
		}
		if f.regs[i].Status != model.StatusPending {
			return nil, repo.ErrStatusConflict
		}
		f.regs[i].Status = newStatus
		r := f.regs[i]
		return &r, nil
	}
	return nil, repo.ErrNoRows
}

func (f *fakeRepo) FindAdminByUserID(_ context.Context, userID string) (*model.AdminRecord, error) {
	if f.adminErr != nil {
		return nil, f.adminErr
	}
	if !f.admins[userID] {
		return nil, repo.ErrNoRows
	}
	return &model.AdminRecord{UserID: userID}, nil
}

func (f *fakeRepo) FindAccountByEmail(_ context.Context, email string) (*model.Account, error) {
	acc, ok := f.accounts[email]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", email, repo.ErrNoRows)
	}
	return acc, nil
}

func (f *fakeRepo) CreateAccount(_ context.Context, email string, hash []byte) (*model.Account, error) {
	acc := &model.Account{ID: uuid.New(), Email: email, PasswordHash: hash}
	f.accounts[email] = acc
	return acc, nil
}

func (f *fakeRepo) InsertContactMessage(_ context.Context, msg *model.ContactMessage) (*model.ContactMessage, error) {
	saved := *msg
	saved.ID = int64(len(f.contacts) + 1)
	f.contacts = append(f.contacts, saved)
	return &saved, nil
}

func (f *fakeRepo) ListContactMessages(_ context.Context, limit int) ([]model.ContactMessage, error) {
	return f.contacts, nil
}

func (f *fakeRepo) InsertNewsBanner(_ context.Context, n *model.NewsBanner) (*model.NewsBanner, error) {
	saved := *n
	saved.ID = int64(len(f.news) + 1)
	f.news = append(f.news, saved)
	return &saved, nil
}

func (f *fakeRepo) ListNewsBanners(_ context.Context, activeOnly bool, limit int) ([]model.NewsBanner, error) {
	return f.news, nil
}

func (f *fakeRepo) InsertTestimony(_ context.Context, t *model.Testimony) (*model.Testimony, error) {
	saved := *t
	saved.ID = int64(len(f.testimony) + 1)
	f.testimony = append(f.testimony, saved)
	return &saved, nil
}

func (f *fakeRepo) ListTestimonies(_ context.Context, approvedOnly bool, limit int) ([]model.Testimony, error) {
	out := []model.Testimony{}
	for _, t := range f.testimony {
		if !approvedOnly || t.IsApproved {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRepo) ToggleTestimonyApproval(_ context.Context, id int64) (*model.Testimony, error) {
	for i := range f.testimony {
		if f.testimony[i].ID == id {
			f.testimony[i].IsApproved = !f.testimony[i].IsApproved
			t := f.testimony[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("testimony %d: %w", id, repo.ErrNoRows)
}

type errorBody struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

type envelope struct {
	Status string          `json:"status"`
	Error  *errorBody      `json:"error"`
	Data   json.RawMessage `json:"data"`
}

type testEnv struct {
	t        *testing.T
	router   *gin.Engine
	repo     *fakeRepo
	objects  *storage.MemoryStore
	sessions *auth.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zerolog.Nop()

	r := newFakeRepo()
	objects := storage.NewMemoryStore("https://files.berry.test")
	sessions, err := auth.NewService(r, auth.Config{Secret: []byte("test-secret"), BcryptCost: bcrypt.MinCost}, &log)
	require.NoError(t, err)

	svc := service.NewService(service.Deps{
		Catalog:       catalog.NewLoader(r, &log),
		Drafts:        flow.NewRegistry(registration.NewSubmitter(r, objects, "", &log), time.Minute),
		Content:       content.NewService(r, &log),
		Sessions:      sessions,
		Gate:          gate.New(r, &log),
		Registrations: r,
	}, &log)

	engine := gin.New()
	(&Routers{Service: svc}).Register(engine)
	return &testEnv{t: t, router: engine, repo: r, objects: objects, sessions: sessions}
}

func (e *testEnv) do(method, path string, body any, headers map[string]string) (int, envelope) {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return e.serve(req)
}

func (e *testEnv) serve(req *http.Request) (int, envelope) {
	e.t.Helper()
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (e *testEnv) uploadProof(draftID, name string, data []byte) (int, envelope) {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("proof", name)
	require.NoError(e.t, err)
	_, err = fw.Write(data)
	require.NoError(e.t, err)
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/registrations/"+draftID+"/proof", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.serve(req)
}

// signIn creates an account and returns its bearer header.
func (e *testEnv) signIn(email string, admin bool) map[string]string {
	e.t.Helper()
	acc, err := e.sessions.Register(context.Background(), email, "correct horse")
	require.NoError(e.t, err)
	if admin {
		e.repo.admins[acc.ID.String()] = true
	}
	sess, err := e.sessions.SignInWithPassword(context.Background(), email, "correct horse")
	require.NoError(e.t, err)
	return map[string]string{"Authorization": "Bearer " + sess.Token}
}

func pngOfSize(n int) []byte {
	b := make([]byte, n)
	copy(b, "\x89PNG\r\n\x1a\n")
	return b
}

func TestGetServices(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(http.MethodGet, "/v1/services", nil, nil)
	require.Equal(t, http.StatusOK, code)

	var services []model.Service
	require.NoError(t, json.Unmarshal(body.Data, &services))
	require.Len(t, services, 1)
	assert.Len(t, services[0].Packages, 2)
}

func TestGetServices_Unavailable(t *testing.T) {
	env := newTestEnv(t)
	env.repo.catalogErr = errors.New("connection refused")

	code, body := env.do(http.MethodGet, "/v1/services", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "CATALOG_UNAVAILABLE", body.Error.Code)
}

func TestRegistrationFlow_EndToEnd(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(http.MethodPost, "/v1/registrations", map[string]string{"service_id": "svc1"}, nil)
	require.Equal(t, http.StatusCreated, code)
	var draft struct {
		DraftID string `json:"draft_id"`
		State   string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &draft))
	assert.Equal(t, "PackagesOpen", draft.State)
	base := "/v1/registrations/" + draft.DraftID

	code, _ = env.do(http.MethodPost, base+"/package", map[string]string{"package_id": "pkgA"}, nil)
	require.Equal(t, http.StatusOK, code)

	code, body = env.do(http.MethodPost, base+"/details", map[string]string{"name": "Jane Doe", "email": "jane@"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "FIELD_INCORRECT", body.Error.Code)

	code, body = env.do(http.MethodPost, base+"/details", map[string]string{"name": "Jane Doe", "email": "jane@x.com"}, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body.Data, &draft))
	assert.Equal(t, "PaymentOpen", draft.State)

	code, body = env.do(http.MethodPost, base+"/submit", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code, "no proof selected yet")

	code, _ = env.uploadProof(draft.DraftID, "receipt.png", pngOfSize(200*1024))
	require.Equal(t, http.StatusOK, code)

	code, body = env.do(http.MethodPost, base+"/submit", nil, nil)
	require.Equal(t, http.StatusCreated, code)

	var reg model.ServiceRegistration
	require.NoError(t, json.Unmarshal(body.Data, &reg))
	assert.Equal(t, 5000.0, reg.PackagePrice)
	assert.Equal(t, model.StatusPending, reg.Status)
	assert.Regexp(t, regexp.MustCompile(`^https://files\.berry\.test/payment-proofs/svc1-pkgA-\d+\.png$`), reg.PaymentProofURL)
	assert.Len(t, env.repo.regs, 1)
	assert.Equal(t, 1, env.objects.Len())

	code, body = env.do(http.MethodGet, base, nil, nil)
	assert.Equal(t, http.StatusNotFound, code, "draft is dropped after submit")
	assert.Equal(t, "DRAFT_NOT_FOUND", body.Error.Code)
}

func TestRegistrationFlow_Errors(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(http.MethodPost, "/v1/registrations", map[string]string{"service_id": "nope"}, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "SERVICE_NOT_FOUND", body.Error.Code)

	code, body = env.do(http.MethodPost, "/v1/registrations", map[string]string{"service_id": "svc1"}, nil)
	require.Equal(t, http.StatusCreated, code)
	var draft struct {
		DraftID string `json:"draft_id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &draft))
	base := "/v1/registrations/" + draft.DraftID

	code, body = env.do(http.MethodPost, base+"/details", map[string]string{"name": "Jane", "email": "jane@x.com"}, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INVALID_TRANSITION", body.Error.Code)

	code, body = env.do(http.MethodPost, base+"/package", map[string]string{"package_id": "pkgZ"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.do(http.MethodPost, base+"/package", map[string]string{"package_id": "pkgB"}, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = env.do(http.MethodPost, base+"/details", map[string]string{"name": "Jane", "email": "jane@x.com"}, nil)
	require.Equal(t, http.StatusOK, code)

	code, body = env.uploadProof(draft.DraftID, "notes.txt", []byte("plain text is not a receipt"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "FIELD_INCORRECT", body.Error.Code)

	code, _ = env.uploadProof(draft.DraftID, "big.png", pngOfSize(registration.MaxProofSize+1))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Zero(t, env.objects.Len())

	env.repo.insertErr = errors.New("permission denied for table service_registrations")
	code, _ = env.uploadProof(draft.DraftID, "receipt.png", pngOfSize(1024))
	require.Equal(t, http.StatusOK, code)
	code, body = env.do(http.MethodPost, base+"/submit", nil, nil)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "INSERT_FAILED", body.Error.Code)
	assert.Equal(t, 1, env.objects.Len(), "uploaded proof stays behind")

	code, _ = env.do(http.MethodDelete, base, nil, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = env.do(http.MethodGet, base, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAdminGate(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(http.MethodGet, "/v1/admin/registrations", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHENTICATED", body.Error.Code)
	assert.JSONEq(t, `{"login":"/v1/admin/login"}`, string(body.Data))

	visitor := env.signIn("visitor@berry.ng", false)
	code, body = env.do(http.MethodGet, "/v1/admin/registrations", nil, visitor)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "ACCESS_DENIED", body.Error.Code)

	admin := env.signIn("ops@berry.ng", true)
	code, _ = env.do(http.MethodGet, "/v1/admin/registrations", nil, admin)
	assert.Equal(t, http.StatusOK, code)

	env.repo.adminErr = errors.New("relation \"admins\" does not exist")
	code, body = env.do(http.MethodGet, "/v1/admin/registrations", nil, admin)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "ADMIN_CHECK_UNAVAILABLE", body.Error.Code)
}

func TestAdminLogin(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.sessions.Register(context.Background(), "ops@berry.ng", "correct horse")
	require.NoError(t, err)

	code, body := env.do(http.MethodPost, "/v1/admin/login", map[string]string{"email": "ops@berry.ng", "password": "wrong password"}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "INVALID_CREDENTIALS", body.Error.Code)

	code, _ = env.do(http.MethodPost, "/v1/admin/login", map[string]string{"email": "ops@berry.ng", "password": "correct horse"}, nil)
	assert.Equal(t, http.StatusForbidden, code, "not an admin yet")

	acc := env.repo.accounts["ops@berry.ng"]
	env.repo.admins[acc.ID.String()] = true

	code, body = env.do(http.MethodPost, "/v1/admin/login", map[string]string{"email": "ops@berry.ng", "password": "correct horse"}, nil)
	require.Equal(t, http.StatusOK, code)
	var resp struct {
		Session auth.Session `json:"session"`
		IsAdmin bool         `json:"is_admin"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &resp))
	assert.True(t, resp.IsAdmin)
	bearer := map[string]string{"Authorization": "Bearer " + resp.Session.Token}

	code, _ = env.do(http.MethodGet, "/v1/admin/session", nil, bearer)
	assert.Equal(t, http.StatusOK, code)

	code, _ = env.do(http.MethodPost, "/v1/admin/logout", nil, bearer)
	assert.Equal(t, http.StatusOK, code)

	code, _ = env.do(http.MethodGet, "/v1/admin/session", nil, bearer)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestUpdateRegistrationStatus(t *testing.T) {
	env := newTestEnv(t)
	admin := env.signIn("ops@berry.ng", true)

	_, err := env.repo.InsertRegistration(context.Background(), &model.ServiceRegistration{
		FullName: "Jane Doe", Email: "jane@x.com", Status: model.StatusPending,
	})
	require.NoError(t, err)

	code, body := env.do(http.MethodPatch, "/v1/admin/registrations/1", map[string]string{"status": "archived"}, admin)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "FIELD_INCORRECT", body.Error.Code)

	code, body = env.do(http.MethodPatch, "/v1/admin/registrations/99", map[string]string{"status": "approved"}, admin)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "REGISTRATION_NOT_FOUND", body.Error.Code)

	code, body = env.do(http.MethodPatch, "/v1/admin/registrations/1", map[string]string{"status": "approved"}, admin)
	require.Equal(t, http.StatusOK, code)
	var reg model.ServiceRegistration
	require.NoError(t, json.Unmarshal(body.Data, &reg))
	assert.Equal(t, model.StatusApproved, reg.Status)

	code, body = env.do(http.MethodPatch, "/v1/admin/registrations/1", map[string]string{"status": "rejected"}, admin)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "STATUS_CONFLICT", body.Error.Code)

	code, body = env.do(http.MethodGet, "/v1/admin/registrations?status=approved", nil, admin)
	require.Equal(t, http.StatusOK, code)
	var regs []model.ServiceRegistration
	require.NoError(t, json.Unmarshal(body.Data, &regs))
	assert.Len(t, regs, 1)

	code, _ = env.do(http.MethodGet, "/v1/admin/registrations?status=bogus", nil, admin)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestContentRoutes(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(http.MethodPost, "/v1/contact", map[string]string{"name": "Ada", "email": "not-an-email", "message": "hi"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "FIELD_INCORRECT", body.Error.Code)

	code, _ = env.do(http.MethodPost, "/v1/contact", map[string]string{"name": "Ada", "email": "ada@x.com", "message": "hi"}, nil)
	assert.Equal(t, http.StatusCreated, code)

	code, _ = env.do(http.MethodPost, "/v1/admin/news", map[string]string{"title": "Open day"}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	admin := env.signIn("ops@berry.ng", true)
	code, _ = env.do(http.MethodPost, "/v1/admin/news", map[string]string{"title": "Open day"}, admin)
	assert.Equal(t, http.StatusCreated, code)
	code, _ = env.do(http.MethodPost, "/v1/admin/testimonies", map[string]string{"student_name": "Tobi", "testimony": "Great class"}, admin)
	assert.Equal(t, http.StatusCreated, code)

	code, body = env.do(http.MethodGet, "/v1/news", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var news []model.NewsBanner
	require.NoError(t, json.Unmarshal(body.Data, &news))
	assert.Len(t, news, 1)

	code, body = env.do(http.MethodGet, "/v1/testimonies", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var public []model.Testimony
	require.NoError(t, json.Unmarshal(body.Data, &public))
	assert.Empty(t, public, "unapproved testimonies stay hidden")

	code, body = env.do(http.MethodGet, "/v1/admin/contact-messages", nil, admin)
	require.Equal(t, http.StatusOK, code)
	var msgs []model.ContactMessage
	require.NoError(t, json.Unmarshal(body.Data, &msgs))
	assert.Len(t, msgs, 1)
}

func TestTestimonyModerationRoutes(t *testing.T) {
	env := newTestEnv(t)
	admin := env.signIn("ops@berry.ng", true)

	code, _ := env.do(http.MethodPost, "/v1/admin/testimonies", map[string]string{"student_name": "Tobi", "testimony": "Great class"}, admin)
	require.Equal(t, http.StatusCreated, code)

	code, _ = env.do(http.MethodPatch, "/v1/admin/testimonies/1", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := env.do(http.MethodGet, "/v1/admin/testimonies", nil, admin)
	require.Equal(t, http.StatusOK, code)
	var all []model.Testimony
	require.NoError(t, json.Unmarshal(body.Data, &all))
	require.Len(t, all, 1)
	assert.False(t, all[0].IsApproved)

	code, body = env.do(http.MethodPatch, "/v1/admin/testimonies/1", nil, admin)
	require.Equal(t, http.StatusOK, code)
	var tm model.Testimony
	require.NoError(t, json.Unmarshal(body.Data, &tm))
	assert.True(t, tm.IsApproved)

	code, body = env.do(http.MethodGet, "/v1/testimonies", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var public []model.Testimony
	require.NoError(t, json.Unmarshal(body.Data, &public))
	require.Len(t, public, 1)
	assert.Equal(t, "Tobi", public[0].StudentName)

	code, body = env.do(http.MethodPatch, "/v1/admin/testimonies/99", nil, admin)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "TESTIMONY_NOT_FOUND", body.Error.Code)

	code, _ = env.do(http.MethodPatch, "/v1/admin/testimonies/abc", nil, admin)
	assert.Equal(t, http.StatusBadRequest, code)
}
