package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/FranOrder/complaint-backend/internal/model"
	"github.com/FranOrder/complaint-backend/internal/repository"
)

var (
	ErrCenterNotFound  = errors.New("support center not found")
	ErrInvalidDistrict = errors.New("district is not in the known district list")
)

// SupportCenterService manages the assistance locations shown to victims.
type SupportCenterService interface {
	GetCenters(ctx context.Context, userRole string) ([]model.SupportCenter, error)
	GetCenterByID(ctx context.Context, id int64, userRole string) (*model.SupportCenter, error)
	CreateCenter(ctx context.Context, createdBy string, req model.SupportCenterRequest) (*model.SupportCenter, error)
	UpdateCenter(ctx context.Context, id int64, req model.SupportCenterRequest) (*model.SupportCenter, error)
	DeleteCenter(ctx context.Context, id int64) error
}

type supportCenterService struct {
	repo repository.SupportCenterRepository
}

// NewSupportCenterService creates a new SupportCenterService
func NewSupportCenterService(repo repository.SupportCenterRepository) SupportCenterService {
	return &supportCenterService{repo: repo}
}

// GetCenters lists support centers. Victims only ever see active centers;
// admins see everything. The zone is derived from the district table.
func (s *supportCenterService) GetCenters(ctx context.Context, userRole string) ([]model.SupportCenter, error) {
	activeOnly := userRole != model.RoleAdmin
	centers, err := s.repo.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list support centers: %w", err)
	}
	for i := range centers {
		centers[i].Zone = model.ZoneOf(centers[i].District)
	}
	return centers, nil
}

// GetCenterByID returns one center. Inactive centers are hidden from victims.
func (s *supportCenterService) GetCenterByID(ctx context.Context, id int64, userRole string) (*model.SupportCenter, error) {
	center, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find support center: %w", err)
	}
	if center == nil {
		return nil, ErrCenterNotFound
	}
	if !center.IsActive && userRole != model.RoleAdmin {
		return nil, ErrCenterNotFound
	}
	center.Zone = model.ZoneOf(center.District)
	return center, nil
}

// CreateCenter registers a new support center (admin only, enforced upstream).
func (s *supportCenterService) CreateCenter(ctx context.Context, createdBy string, req model.SupportCenterRequest) (*model.SupportCenter, error) {
	if !model.ValidDistrict(req.District) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDistrict, req.District)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	now := time.Now()
	center := &model.SupportCenter{
		Name:      req.Name,
		Street:    req.Street,
		District:  req.District,
		Phone:     req.Phone,
		Email:     req.Email,
		Schedule:  req.Schedule,
		IsActive:  active,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, center); err != nil {
		return nil, fmt.Errorf("failed to create support center in repo: %w", err)
	}
	center.Zone = model.ZoneOf(center.District)
	return center, nil
}

// UpdateCenter edits an existing support center.
func (s *supportCenterService) UpdateCenter(ctx context.Context, id int64, req model.SupportCenterRequest) (*model.SupportCenter, error) {
	if !model.ValidDistrict(req.District) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDistrict, req.District)
	}

	center, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find support center for update: %w", err)
	}
	if center == nil {
		return nil, ErrCenterNotFound
	}

	center.Name = req.Name
	center.Street = req.Street
	center.District = req.District
	center.Phone = req.Phone
	center.Email = req.Email
	center.Schedule = req.Schedule
	if req.IsActive != nil {
		center.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, center); err != nil {
		return nil, fmt.Errorf("failed to update support center in repo: %w", err)
	}
	center.Zone = model.ZoneOf(center.District)
	return center, nil
}

// DeleteCenter removes a support center.
func (s *supportCenterService) DeleteCenter(ctx context.Context, id int64) error {
	center, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find support center for deletion: %w", err)
	}
	if center == nil {
		return ErrCenterNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete support center in repo: %w", err)
	}
	return nil
}
