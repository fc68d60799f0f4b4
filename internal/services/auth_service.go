package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/models"
	"alfredoptarigan/job-portal/internal/repositories"
)

const (
	maxLoginFailures = 5
	lockDuration     = 2 * time.Hour
	resetTokenTTL    = 10 * time.Minute
	minPasswordLen   = 6
)

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Refresh(ctx context.Context, userID uuid.UUID) (*models.AuthResponse, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, password string) (*models.AuthResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req models.ChangePasswordRequest) error
}

type authService struct {
	userRepo   repositories.UserRepository
	tokens     TokenService
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, tokens TokenService) AuthService {
	return &authService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: 12,
		now:        time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, apperror.Validation("first_name and last_name are required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, apperror.Validation("a valid email is required")
	}
	if len(req.Password) < minPasswordLen {
		return nil, apperror.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if req.Role == "" {
		req.Role = models.RoleJobSeeker
	}
	if req.Role != models.RoleJobSeeker && req.Role != models.RoleRecruiter {
		return nil, apperror.Validation("role must be job_seeker or recruiter")
	}
	if req.Role == models.RoleRecruiter && strings.TrimSpace(req.CompanyName) == "" {
		return nil, apperror.Validation("company_name is required for recruiters")
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperror.Conflict("user already exists with this email")
	} else if !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	verification, err := randomToken()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:                uuid.New(),
		FirstName:         strings.TrimSpace(req.FirstName),
		LastName:          strings.TrimSpace(req.LastName),
		Email:             req.Email,
		PasswordHash:      hash,
		Phone:             req.Phone,
		Role:              req.Role,
		IsActive:          true,
		VerificationToken: verification,
		Profile:           models.CandidateProfile{Skills: []string{}},
	}
	if req.Role == models.RoleRecruiter {
		user.RecruiterProfile.CompanyName = strings.TrimSpace(req.CompanyName)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("📧 Verification token for %s: %s", user.Email, verification)
	return s.respond(user)
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperror.Validation("email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	now := s.now()
	if user.IsLocked(now) {
		return nil, apperror.New(apperror.KindLocked, "account temporarily locked due to too many failed login attempts")
	}
	if !user.IsActive {
		return nil, apperror.Unauthorized("account has been deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		if err := s.recordFailure(ctx, user, now); err != nil {
			return nil, err
		}
		return nil, apperror.Unauthorized("invalid credentials")
	}

	user.LoginAttempts = 0
	user.LockUntil = nil
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("🔐 User logged in: %s", user.Email)
	return s.respond(user)
}

// recordFailure counts a failed login. An expired lock restarts the count at
// one; the fifth consecutive failure locks the account.
func (s *authService) recordFailure(ctx context.Context, user *models.User, now time.Time) error {
	if user.LockUntil != nil && !user.LockUntil.After(now) {
		user.LockUntil = nil
		user.LoginAttempts = 1
	} else {
		user.LoginAttempts++
	}
	if user.LoginAttempts >= maxLoginFailures && user.LockUntil == nil {
		until := now.Add(lockDuration)
		user.LockUntil = &until
		log.Printf("🔒 Account locked until %s: %s", until.Format(time.RFC3339), user.Email)
	}
	return s.userRepo.Update(ctx, user)
}

func (s *authService) Refresh(ctx context.Context, userID uuid.UUID) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.Unauthorized("account has been deactivated")
	}
	return s.respond(user)
}

// Authenticate resolves a bearer token to an active user.
func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.Unauthorized("user no longer exists")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.Unauthorized("account has been deactivated")
	}
	return user, nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperror.Validation("verification token is required")
	}

	user, err := s.userRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.Validation("invalid or expired verification token")
		}
		return nil, err
	}

	user.IsVerified = true
	user.VerificationToken = ""
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ForgotPassword stores the hash of a fresh reset token and returns the raw
// token for delivery.
func (s *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	raw, err := randomToken()
	if err != nil {
		return "", err
	}
	expires := s.now().Add(resetTokenTTL)
	user.ResetPasswordToken = hashToken(raw)
	user.ResetPasswordExpire = &expires
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}

	log.Printf("📧 Password reset token for %s: %s", user.Email, raw)
	return raw, nil
}

func (s *authService) ResetPassword(ctx context.Context, token, password string) (*models.AuthResponse, error) {
	if len(password) < minPasswordLen {
		return nil, apperror.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}

	user, err := s.userRepo.FindByResetToken(ctx, hashToken(token))
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.Validation("invalid or expired reset token")
		}
		return nil, err
	}
	if user.ResetPasswordExpire == nil || !user.ResetPasswordExpire.After(s.now()) {
		return nil, apperror.Validation("invalid or expired reset token")
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.ResetPasswordToken = ""
	user.ResetPasswordExpire = nil
	user.LoginAttempts = 0
	user.LockUntil = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.respond(user)
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req models.ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLen {
		return apperror.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apperror.Unauthorized("current password is incorrect")
	}

	hash, err := s.hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.userRepo.Update(ctx, user)
}

func (s *authService) respond(user *models.User) (*models.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func randomToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
