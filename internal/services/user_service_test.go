package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tripnest/server/internal/helpers"
	"github.com/tripnest/server/internal/models"
)

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, models.ErrDuplicateEmail
		}
		if u.Username == user.Username {
			return nil, models.ErrDuplicateUsername
		}
	}
	user.ID = primitive.NewObjectID()
	stored := *user
	f.users[user.ID] = &stored
	return user, nil
}

func (f *fakeUserRepo) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) FindUserByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	for _, u := range f.users {
		if u.Username == identifier || u.Email == identifier {
			copied := *u
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserRepo) UpdateUserFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if v, ok := fields["full_name"].(string); ok {
		u.FullName = v
	}
	if v, ok := fields["phone"].(string); ok {
		u.Phone = v
	}
	if v, ok := fields["password"].(string); ok {
		u.Password = v
	}
	if v, ok := fields["profile_picture"].(string); ok {
		u.ProfilePicture = v
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	if u, ok := f.users[id]; ok {
		u.LastLogin = time.Now()
	}
	return nil
}

func newUserService(repo *fakeUserRepo) *UserService {
	return NewUserService(repo, helpers.NewTokenIssuer("test-secret-key", time.Hour))
}

func registerReq() RegisterRequest {
	return RegisterRequest{
		Username: "Rahim42",
		FullName: "Rahim Uddin",
		Email:    "Rahim@Example.com",
		Password: "secret123",
	}
}

func TestRegisterNormalizesAndIssuesToken(t *testing.T) {
	svc := newUserService(newFakeUserRepo())

	token, user, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	assert.Equal(t, "rahim42", user.Username)
	assert.Equal(t, "rahim@example.com", user.Email)
	assert.Equal(t, models.RoleTourist, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret123", user.Password)

	issuer := helpers.NewTokenIssuer("test-secret-key", time.Hour)
	claims, err := issuer.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.Subject)
	assert.Equal(t, models.RoleTourist, claims.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc := newUserService(newFakeUserRepo())

	tests := []struct {
		name   string
		mutate func(r *RegisterRequest)
	}{
		{"short username", func(r *RegisterRequest) { r.Username = "ab" }},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *RegisterRequest) { r.Password = "12345" }},
		{"unknown role", func(r *RegisterRequest) { r.Role = "superuser" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := registerReq()
			tc.mutate(&req)
			_, _, err := svc.Register(context.Background(), req)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestRegisterDuplicates(t *testing.T) {
	svc := newUserService(newFakeUserRepo())
	_, _, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), registerReq())
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)

	req := registerReq()
	req.Email = "other@example.com"
	_, _, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrDuplicateUsername)
}

func TestLoginByUsernameAndEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo)
	_, registered, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "rahim42", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)
	assert.False(t, user.LastLogin.IsZero())

	// Identifier matching is case-insensitive through normalization.
	_, _, err = svc.Login(context.Background(), "RAHIM@example.com", "secret123")
	assert.NoError(t, err)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc := newUserService(newFakeUserRepo())
	_, _, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	// Unknown user and wrong password produce the same error, so responses
	// cannot be used to discover which usernames exist.
	_, _, unknownErr := svc.Login(context.Background(), "nobody", "secret123")
	_, _, wrongPassErr := svc.Login(context.Background(), "rahim42", "wrong-password")

	assert.ErrorIs(t, unknownErr, models.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassErr, models.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongPassErr.Error())
}

func TestLoginDeactivatedAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo)
	_, user, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	repo.users[user.ID].IsActive = false

	_, _, err = svc.Login(context.Background(), "rahim42", "secret123")
	assert.ErrorIs(t, err, models.ErrAccountDeactivated)
}

func TestChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo)
	_, user, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), user.ID, "wrong-password", "newsecret1")
	assert.ErrorIs(t, err, models.ErrValidation)

	err = svc.ChangePassword(context.Background(), user.ID, "secret123", "short")
	assert.ErrorIs(t, err, models.ErrValidation)

	err = svc.ChangePassword(context.Background(), user.ID, "secret123", "newsecret1")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "rahim42", "newsecret1")
	assert.NoError(t, err)
	_, _, err = svc.Login(context.Background(), "rahim42", "secret123")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo)
	_, user, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), user.ID, "Rahim U.", "01712345678")
	require.NoError(t, err)
	assert.Equal(t, "Rahim U.", updated.FullName)
	assert.Equal(t, "01712345678", updated.Phone)

	_, err = svc.UpdateProfile(context.Background(), user.ID, "", "")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestProfilePictureValidation(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo)
	_, user, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	_, err = svc.SetProfilePicture(context.Background(), user.ID, "https://example.com/avatar.png")
	assert.ErrorIs(t, err, models.ErrValidation)

	updated, err := svc.SetProfilePicture(context.Background(), user.ID, "data:image/png;base64,iVBORw0KGgo=")
	require.NoError(t, err)
	assert.NotEmpty(t, updated.ProfilePicture)

	cleared, err := svc.ClearProfilePicture(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, cleared.ProfilePicture)
}
