package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tripnest/server/internal/helpers"
	"github.com/tripnest/server/internal/models"
)

type UserService struct {
	userRepo models.UserRepo
	tokens   *helpers.TokenIssuer
}

func NewUserService(userRepo models.UserRepo, tokens *helpers.TokenIssuer) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

func (us *UserService) Register(ctx context.Context, req RegisterRequest) (string, *models.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if len(username) < 3 {
		return "", nil, models.Invalid("username must be at least 3 characters")
	}
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return "", nil, models.Invalid("invalid email address")
	}
	if len(req.Password) < helpers.MinPasswordLength {
		return "", nil, models.Invalid("password must be at least %d characters", helpers.MinPasswordLength)
	}

	role := req.Role
	if role == "" {
		role = models.RoleTourist
	}
	if err := models.Validate.Var(role, "oneof=tourist host admin"); err != nil {
		return "", nil, models.Invalid("invalid role: %s", role)
	}

	hashed, err := helpers.HashPassword(req.Password)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %v", err)
	}

	now := time.Now()
	user := &models.User{
		Username:  username,
		FullName:  strings.TrimSpace(req.FullName),
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Password:  hashed,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := us.userRepo.CreateUser(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := us.tokens.IssueToken(created.ID.Hex(), created.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %v", err)
	}
	return token, created, nil
}

// Login authenticates by username or email. Unknown accounts and wrong
// passwords fail with the same error so callers cannot enumerate users;
// deactivated accounts fail distinctly.
func (us *UserService) Login(ctx context.Context, identifier, password string) (string, *models.User, error) {
	if strings.TrimSpace(identifier) == "" || password == "" {
		return "", nil, models.ErrInvalidCredentials
	}

	user, err := us.userRepo.FindUserByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", nil, models.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !user.IsActive {
		return "", nil, models.ErrAccountDeactivated
	}

	if err := helpers.CheckPassword(user.Password, password); err != nil {
		return "", nil, models.ErrInvalidCredentials
	}

	if err := us.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		return "", nil, err
	}
	user.LastLogin = time.Now()

	token, err := us.tokens.IssueToken(user.ID.Hex(), user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %v", err)
	}
	return token, user, nil
}

func (us *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return us.userRepo.FindUserByID(ctx, id)
}

func (us *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, fullName, phone string) (*models.User, error) {
	fields := bson.M{}
	if strings.TrimSpace(fullName) != "" {
		fields["full_name"] = strings.TrimSpace(fullName)
	}
	if phone != "" {
		fields["phone"] = strings.TrimSpace(phone)
	}
	if len(fields) == 0 {
		return nil, models.Invalid("no fields to update")
	}
	return us.userRepo.UpdateUserFields(ctx, id, fields)
}

func (us *UserService) ChangePassword(ctx context.Context, id primitive.ObjectID, current, newPassword string) error {
	if len(newPassword) < helpers.MinPasswordLength {
		return models.Invalid("password must be at least %d characters", helpers.MinPasswordLength)
	}

	user, err := us.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return err
	}

	if err := helpers.CheckPassword(user.Password, current); err != nil {
		return models.Invalid("current password is incorrect")
	}

	hashed, err := helpers.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	_, err = us.userRepo.UpdateUserFields(ctx, id, bson.M{"password": hashed})
	return err
}

func (us *UserService) SetProfilePicture(ctx context.Context, id primitive.ObjectID, dataURI string) (*models.User, error) {
	if err := helpers.ValidateProfilePicture(dataURI); err != nil {
		return nil, models.Invalid("%s", err.Error())
	}
	return us.userRepo.UpdateUserFields(ctx, id, bson.M{"profile_picture": dataURI})
}

func (us *UserService) ClearProfilePicture(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return us.userRepo.UpdateUserFields(ctx, id, bson.M{"profile_picture": ""})
}
