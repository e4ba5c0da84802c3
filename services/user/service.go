// Package user handles accounts, authentication and role assignment.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	userRepo "fuelq/database/repository/user"
	"fuelq/models"
	"fuelq/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 7 * 24 * time.Hour

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
)

// RegisterRequest carries a signup.
type RegisterRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	FullName      string `json:"full_name" binding:"required"`
	Phone         string `json:"phone"`
	VehicleNumber string `json:"vehicle_number"`
}

// AuthResult is a signed-in session.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, fields map[string]interface{}) error
	SetFCMToken(ctx context.Context, id, fcmToken string) error
	// SetRole assigns one of the closed role set. Unknown roles are rejected,
	// not stored.
	SetRole(ctx context.Context, id string, role models.Role) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	Logger *zap.Logger
}

func (s *DefaultUserService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		HashedPassword: string(hashed),
		FullName:       req.FullName,
		Phone:          req.Phone,
		VehicleNumber:  req.VehicleNumber,
		Role:           models.RoleUser,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.Logger.Info("user registered", zap.String("user_id", u.ID))
	return s.startSession(ctx, u)
}

func (s *DefaultUserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.startSession(ctx, u)
}

// startSession signs a JWT and registers its hash in the auth cache so
// logout can revoke it before expiry.
func (s *DefaultUserService) startSession(ctx context.Context, u *models.User) (*AuthResult, error) {
	token, err := utils.GenerateToken(u.ID, u.Email, string(u.Role), sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	if client := utils.GetAuthCacheClient(); client != nil {
		key := utils.AuthCachePrefix + utils.HashToken(token)
		if err := client.Set(ctx, key, u.ID, sessionTTL).Err(); err != nil {
			return nil, fmt.Errorf("failed to register session: %w", err)
		}
	}

	return &AuthResult{User: u, Token: token}, nil
}

func (s *DefaultUserService) Logout(ctx context.Context, token string) error {
	client := utils.GetAuthCacheClient()
	if client == nil {
		return nil
	}
	key := utils.AuthCachePrefix + utils.HashToken(token)
	if err := client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *DefaultUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *DefaultUserService) UpdateProfile(ctx context.Context, id string, fields map[string]interface{}) error {
	allowed := map[string]bool{"full_name": true, "phone": true, "vehicle_number": true}
	for k := range fields {
		if !allowed[k] {
			return fmt.Errorf("field %q is not updatable", k)
		}
	}
	return s.Repo.Update(ctx, id, fields)
}

func (s *DefaultUserService) SetFCMToken(ctx context.Context, id, fcmToken string) error {
	return s.Repo.Update(ctx, id, map[string]interface{}{"fcm_token": fcmToken})
}

func (s *DefaultUserService) SetRole(ctx context.Context, id string, role models.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if err := s.Repo.SetRole(ctx, id, role); err != nil {
		return err
	}
	s.Logger.Info("role assigned", zap.String("user_id", id), zap.String("role", string(role)))
	return nil
}
