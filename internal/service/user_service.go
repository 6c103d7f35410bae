package service

import (
	"context"
	"fmt"
	"time"

	"github.com/FranOrder/complaint-backend/internal/model"
	"github.com/FranOrder/complaint-backend/internal/repository"
	"github.com/FranOrder/complaint-backend/internal/utils"
)

// UserService provides profile and admin user management.
type UserService interface {
	GetProfile(ctx context.Context, userID int) (*model.User, error)
	UpdateProfile(ctx context.Context, targetID, callerID int, callerRole string, req model.UpdateProfileRequest) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	SetActive(ctx context.Context, userID int, active bool) error
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// GetProfile returns the caller's own profile.
func (s *userService) GetProfile(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile changes first/last name and phone. Only the account owner or
// an admin may do this; nothing else on the account can change through here.
func (s *userService) UpdateProfile(ctx context.Context, targetID, callerID int, callerRole string, req model.UpdateProfileRequest) (*model.User, error) {
	if callerRole != model.RoleAdmin && targetID != callerID {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user for profile update: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.FirstName != nil {
		if *req.FirstName == "" {
			return nil, fmt.Errorf("%w: firstName must not be empty", ErrInvalidUserData)
		}
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		if *req.LastName == "" {
			return nil, fmt.Errorf("%w: lastName must not be empty", ErrInvalidUserData)
		}
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		if !model.ValidPhone(*req.Phone) {
			return nil, fmt.Errorf("%w: phone must be 9 to 15 digits", ErrInvalidUserData)
		}
		user.Phone = *req.Phone
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile in repo: %w", err)
	}
	return user, nil
}

// GetAllUsers lists every account for the admin management table.
func (s *userService) GetAllUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUser is the admin-privileged account creation path; unlike
// registration it may create ADMIN accounts.
func (s *userService) CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if !model.ValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: malformed email", ErrInvalidUserData)
	}
	if !model.ValidPhone(req.Phone) {
		return nil, fmt.Errorf("%w: phone must be 9 to 15 digits", ErrInvalidUserData)
	}
	if !model.ValidRole(req.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidUserData, req.Role)
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hashedPassword,
		Role:         req.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user in repo: %w", err)
	}
	return user, nil
}

// SetActive enables or disables an account.
func (s *userService) SetActive(ctx context.Context, userID int, active bool) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return fmt.Errorf("failed to set active flag: %w", err)
	}
	return nil
}
