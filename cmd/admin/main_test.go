package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/berryray-tech/Berry-Ray-main/internal/auth"
	"github.com/berryray-tech/Berry-Ray-main/internal/model"
	"github.com/berryray-tech/Berry-Ray-main/internal/repo"
)

type fakeStore struct {
	accounts map[string]*model.Account
	admins   map[string]bool
	migrated []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: map[string]*model.Account{}, admins: map[string]bool{}}
}

func (f *fakeStore) CreateAccount(_ context.Context, email string, hash []byte) (*model.Account, error) {
	if _, ok := f.accounts[email]; ok {
		return nil, fmt.Errorf("account %s: %w", email, repo.ErrDuplicate)
	}
	acc := &model.Account{ID: uuid.New(), Email: email, PasswordHash: hash}
	f.accounts[email] = acc
	return acc, nil
}

func (f *fakeStore) FindAccountByEmail(_ context.Context, email string) (*model.Account, error) {
	acc, ok := f.accounts[email]
	if !ok {
		return nil, repo.ErrNoRows
	}
	return acc, nil
}

func (f *fakeStore) InsertAdmin(_ context.Context, userID string) error {
	if f.admins[userID] {
		return repo.ErrDuplicate
	}
	f.admins[userID] = true
	return nil
}

func (f *fakeStore) MigrateUp(_ context.Context, dir string) error {
	f.migrated = append(f.migrated, "up:"+dir)
	return nil
}

func (f *fakeStore) MigrateDown(_ context.Context, dir string) error {
	f.migrated = append(f.migrated, "down:"+dir)
	return nil
}

func newTestCLI(t *testing.T, password string) (*cli, *fakeStore, *bytes.Buffer) {
	t.Helper()
	prev := readPasswordFunc
	readPasswordFunc = func() ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() { readPasswordFunc = prev })

	log := zerolog.Nop()
	st := newFakeStore()
	out := &bytes.Buffer{}
	return &cli{store: st, out: out, migrationsDir: "migrations/postgres", bcryptCost: bcrypt.MinCost, log: &log}, st, out
}

func TestAddUser(t *testing.T) {
	c, st, out := newTestCLI(t, "correct-horse")

	err := c.run(context.Background(), []string{"adduser", "-email", " Admin@Berry.NG "})
	require.NoError(t, err)

	acc, ok := st.accounts["admin@berry.ng"]
	require.True(t, ok)
	assert.NoError(t, bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte("correct-horse")))
	assert.Contains(t, out.String(), "created account admin@berry.ng")

	err = c.run(context.Background(), []string{"adduser", "-email", "admin@berry.ng"})
	assert.ErrorIs(t, err, auth.ErrAccountExists)
}

func TestAddUser_Validation(t *testing.T) {
	c, st, _ := newTestCLI(t, "short")

	err := c.run(context.Background(), []string{"adduser", "-email", "a@b.ng"})
	assert.ErrorIs(t, err, auth.ErrWeakPassword)

	err = c.run(context.Background(), []string{"adduser"})
	assert.Error(t, err)
	assert.Empty(t, st.accounts)
}

func TestAddUser_SameRuleAsSignUp(t *testing.T) {
	c, st, _ := newTestCLI(t, "  abc   ")

	require.NoError(t, c.run(context.Background(), []string{"adduser", "-email", "a@b.ng"}))
	acc := st.accounts["a@b.ng"]
	require.NotNil(t, acc)
	assert.NoError(t, bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte("  abc   ")))
}

func TestAddUser_ReadPasswordError(t *testing.T) {
	c, _, _ := newTestCLI(t, "")
	readPasswordFunc = func() ([]byte, error) { return nil, errors.New("not a terminal") }

	err := c.run(context.Background(), []string{"adduser", "-email", "a@b.ng"})
	assert.ErrorContains(t, err, "not a terminal")
}

func TestGrantAdmin(t *testing.T) {
	c, st, out := newTestCLI(t, "correct-horse")

	err := c.run(context.Background(), []string{"grant-admin", "-email", "nobody@berry.ng"})
	assert.ErrorContains(t, err, "no account")

	require.NoError(t, c.run(context.Background(), []string{"adduser", "-email", "ops@berry.ng"}))
	require.NoError(t, c.run(context.Background(), []string{"grant-admin", "-email", "ops@berry.ng"}))
	assert.True(t, st.admins[st.accounts["ops@berry.ng"].ID.String()])

	// granting twice is not an error
	require.NoError(t, c.run(context.Background(), []string{"grant-admin", "-email", "ops@berry.ng"}))
	assert.Contains(t, out.String(), "ops@berry.ng is now an admin")
}

func TestMigrate(t *testing.T) {
	c, st, _ := newTestCLI(t, "")

	require.NoError(t, c.run(context.Background(), []string{"migrate", "up"}))
	require.NoError(t, c.run(context.Background(), []string{"migrate", "down"}))
	assert.Equal(t, []string{"up:migrations/postgres", "down:migrations/postgres"}, st.migrated)

	assert.Error(t, c.run(context.Background(), []string{"migrate", "sideways"}))
	assert.Error(t, c.run(context.Background(), []string{"migrate"}))
}

func TestUnknownCommand(t *testing.T) {
	c, _, _ := newTestCLI(t, "")
	assert.ErrorContains(t, c.run(context.Background(), []string{"frobnicate"}), "unknown command")
	assert.Error(t, c.run(context.Background(), nil))
}
