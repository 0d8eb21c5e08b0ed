package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tripnest/server/internal/helpers"
	"github.com/tripnest/server/internal/models"
	"github.com/tripnest/server/internal/services"
)

type stubUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func (s *stubUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	return user, nil
}

func (s *stubUserRepo) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) FindUserByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	return nil, models.ErrNotFound
}

func (s *stubUserRepo) UpdateUserFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	return nil, models.ErrNotFound
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	return nil
}

const authTestSecret = "auth-middleware-test-secret"

func setupAuthRouter(repo *stubUserRepo) (*gin.Engine, *helpers.TokenIssuer) {
	gin.SetMode(gin.TestMode)
	tokens := helpers.NewTokenIssuer(authTestSecret, time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userService := services.NewUserService(repo, tokens)

	r := gin.New()
	r.GET("/protected", AuthMiddleware(tokens, userService, logger), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("user missing from context"))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"id": user.ID.Hex()}, ""))
	})
	return r, tokens
}

func doProtected(t *testing.T, r *gin.Engine, authHeader string) (int, models.ApiResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body models.ApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestAuthMiddlewareOutcomes(t *testing.T) {
	active := &models.User{ID: primitive.NewObjectID(), Role: models.RoleTourist, IsActive: true}
	deactivated := &models.User{ID: primitive.NewObjectID(), Role: models.RoleTourist, IsActive: false}
	repo := &stubUserRepo{users: map[primitive.ObjectID]*models.User{
		active.ID:      active,
		deactivated.ID: deactivated,
	}}
	r, tokens := setupAuthRouter(repo)

	_, err := tokens.IssueToken(active.ID.Hex(), active.Role)
	require.NoError(t, err)
	deactivatedToken, err := tokens.IssueToken(deactivated.ID.Hex(), deactivated.Role)
	require.NoError(t, err)
	unknownUserToken, err := tokens.IssueToken(primitive.NewObjectID().Hex(), models.RoleTourist)
	require.NoError(t, err)
	expiredToken, err := helpers.NewTokenIssuer(authTestSecret, -time.Minute).IssueToken(active.ID.Hex(), active.Role)
	require.NoError(t, err)
	foreignToken, err := helpers.NewTokenIssuer("some-other-secret", time.Hour).IssueToken(active.ID.Hex(), active.Role)
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantError  string
	}{
		{"missing header", "", http.StatusUnauthorized, "no token provided"},
		{"not a bearer header", "Basic abc123", http.StatusUnauthorized, "no token provided"},
		{"malformed token", "Bearer not-a-token", http.StatusUnauthorized, "invalid token"},
		{"wrong signature", "Bearer " + foreignToken, http.StatusUnauthorized, "invalid token"},
		{"expired token", "Bearer " + expiredToken, http.StatusUnauthorized, "token expired"},
		{"unknown subject", "Bearer " + unknownUserToken, http.StatusUnauthorized, "user not found"},
		{"deactivated account", "Bearer " + deactivatedToken, http.StatusUnauthorized, "account deactivated"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := doProtected(t, r, tc.authHeader)
			assert.Equal(t, tc.wantStatus, status)
			assert.False(t, body.Success)
			assert.Equal(t, tc.wantError, body.Error)
		})
	}
}

func TestAuthMiddlewareAttachesUser(t *testing.T) {
	active := &models.User{ID: primitive.NewObjectID(), Role: models.RoleHost, IsActive: true}
	repo := &stubUserRepo{users: map[primitive.ObjectID]*models.User{active.ID: active}}
	r, tokens := setupAuthRouter(repo)

	token, err := tokens.IssueToken(active.ID.Hex(), active.Role)
	require.NoError(t, err)

	status, body := doProtected(t, r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)

	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, active.ID.Hex(), data["id"])
}

func TestDeactivationRevokesExistingToken(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleTourist, IsActive: true}
	repo := &stubUserRepo{users: map[primitive.ObjectID]*models.User{user.ID: user}}
	r, tokens := setupAuthRouter(repo)

	token, err := tokens.IssueToken(user.ID.Hex(), user.Role)
	require.NoError(t, err)

	status, _ := doProtected(t, r, "Bearer "+token)
	require.Equal(t, http.StatusOK, status)

	// Deactivation takes effect immediately; the still-valid token no longer
	// passes.
	user.IsActive = false
	status, body := doProtected(t, r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "account deactivated", body.Error)
}
