package services

import (
	"context"
	"log"
	"math"

	"github.com/google/uuid"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/models"
	"alfredoptarigan/job-portal/internal/repositories"
)

type AdminService interface {
	ListUsers(ctx context.Context, role models.Role, page, limit int) (*models.UserList, error)
	VerifyRecruiter(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetUserStatus(ctx context.Context, admin *models.User, id uuid.UUID, active bool) (*models.User, error)
}

type adminService struct {
	userRepo repositories.UserRepository
}

func NewAdminService(userRepo repositories.UserRepository) AdminService {
	return &adminService{userRepo: userRepo}
}

func (s *adminService) ListUsers(ctx context.Context, role models.Role, page, limit int) (*models.UserList, error) {
	if role != "" && !role.Valid() {
		return nil, apperror.Validation("invalid role: " + string(role))
	}
	page, limit = normalizePage(page, limit)

	users, total, err := s.userRepo.List(ctx, role, page, limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return &models.UserList{
		Users:       users,
		Total:       total,
		CurrentPage: page,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *adminService) VerifyRecruiter(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleRecruiter {
		return nil, apperror.Validation("user is not a recruiter")
	}

	user.RecruiterProfile.IsVerifiedRecruiter = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ Recruiter verified: %s", user.Email)
	return user, nil
}

// SetUserStatus activates or deactivates an account. Admins cannot
// deactivate themselves.
func (s *adminService) SetUserStatus(ctx context.Context, admin *models.User, id uuid.UUID, active bool) (*models.User, error) {
	if admin != nil && admin.ID == id && !active {
		return nil, apperror.Validation("you cannot deactivate your own account")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.IsActive = active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("👤 User %s active=%t", user.Email, active)
	return user, nil
}
