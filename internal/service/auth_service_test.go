package service

import (
	"context"
	"testing"
	"time"

	"github.com/FranOrder/complaint-backend/internal/model"
	"github.com/FranOrder/complaint-backend/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindAll(ctx context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.ID == user.ID {
			u.FirstName = user.FirstName
			u.LastName = user.LastName
			u.Phone = user.Phone
			return nil
		}
	}
	return nil
}

func (f *fakeUserRepo) SetActive(ctx context.Context, id int, active bool) error {
	for _, u := range f.users {
		if u.ID == id {
			u.IsActive = active
		}
	}
	return nil
}

type fakeSessionStore struct {
	revoked map[string]time.Duration
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{revoked: make(map[string]time.Duration)}
}

func (f *fakeSessionStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	f.revoked[jti] = ttl
	return nil
}

func (f *fakeSessionStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, ok := f.revoked[jti]
	return ok, nil
}

func validRegisterRequest() model.RegisterRequest {
	return model.RegisterRequest{
		FirstName: "María",
		LastName:  "López",
		Email:     "maria@example.com",
		Phone:     "987654321",
		Password:  "secret123",
	}
}

func TestRegister_AlwaysVictim(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, newFakeSessionStore(), utils.NewJWTUtil("secret", 1))

	user, token, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	assert.Equal(t, model.RoleVictim, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, token)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, newFakeSessionStore(), utils.NewJWTUtil("secret", 1))

	_, _, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), validRegisterRequest())
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegister_RejectsBadInput(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, newFakeSessionStore(), utils.NewJWTUtil("secret", 1))

	req := validRegisterRequest()
	req.Email = "not-an-email"
	_, _, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidUserData)

	req = validRegisterRequest()
	req.Phone = "12345"
	_, _, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidUserData)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, newFakeSessionStore(), utils.NewJWTUtil("secret", 1))

	_, _, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "maria@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", user.Email)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(context.Background(), "maria@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "unknown@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DisabledAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, newFakeSessionStore(), utils.NewJWTUtil("secret", 1))

	user, _, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	require.NoError(t, repo.SetActive(context.Background(), user.ID, false))

	_, _, err = svc.Login(context.Background(), "maria@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestLogout_RevokesRemainingTokenLife(t *testing.T) {
	repo := newFakeUserRepo()
	sessions := newFakeSessionStore()
	svc := NewAuthService(repo, sessions, utils.NewJWTUtil("secret", 1))

	claims := &utils.JWTClaims{
		UserID: 1,
		Role:   model.RoleVictim,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "token-jti",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * time.Minute)),
		},
	}

	require.NoError(t, svc.Logout(context.Background(), claims))

	revoked, err := sessions.IsRevoked(context.Background(), "token-jti")
	require.NoError(t, err)
	assert.True(t, revoked)
	// TTL tracks the token's remaining life, not the full expiry window.
	assert.InDelta(t, (30 * time.Minute).Seconds(), sessions.revoked["token-jti"].Seconds(), 5)
}
