package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/models"
	"alfredoptarigan/job-portal/internal/repositories"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User, req models.UpdateProfileRequest) (*models.User, error)
	UploadResume(ctx context.Context, user *models.User, file *multipart.FileHeader) (*models.UploadResponse, error)
}

type profileService struct {
	userRepo    repositories.UserRepository
	docRepo     repositories.DocumentRepository
	storage     StorageService
	pdfParser   PDFParserService
	parser      ResumeParser
	maxFileSize int64
	now         func() time.Time
}

func NewProfileService(
	userRepo repositories.UserRepository,
	docRepo repositories.DocumentRepository,
	storage StorageService,
	pdfParser PDFParserService,
	parser ResumeParser,
	maxFileSize int64,
) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		docRepo:     docRepo,
		storage:     storage,
		pdfParser:   pdfParser,
		parser:      parser,
		maxFileSize: maxFileSize,
		now:         time.Now,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// UpdateProfile applies the non-nil fields of req. The resume URL and parse
// timestamp are owned by UploadResume and survive a profile replace.
func (s *profileService) UpdateProfile(ctx context.Context, user *models.User, req models.UpdateProfileRequest) (*models.User, error) {
	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			return nil, apperror.Validation("first_name cannot be empty")
		}
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		if strings.TrimSpace(*req.LastName) == "" {
			return nil, apperror.Validation("last_name cannot be empty")
		}
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if req.Profile != nil {
		if user.Role != models.RoleJobSeeker {
			return nil, apperror.Validation("only job seekers have a candidate profile")
		}
		if req.Profile.TotalExperience < 0 {
			return nil, apperror.Validation("total_experience cannot be negative")
		}
		profile := *req.Profile
		profile.ResumeURL = user.Profile.ResumeURL
		profile.ParsedAt = user.Profile.ParsedAt
		if profile.Skills == nil {
			profile.Skills = []string{}
		}
		user.Profile = profile
	}

	if req.RecruiterProfile != nil {
		if user.Role != models.RoleRecruiter {
			return nil, apperror.Validation("only recruiters have a company profile")
		}
		rp := *req.RecruiterProfile
		rp.IsVerifiedRecruiter = user.RecruiterProfile.IsVerifiedRecruiter
		user.RecruiterProfile = rp
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadResume stores the PDF, records it as a document and replaces the
// parsed fields of the candidate profile.
func (s *profileService) UploadResume(ctx context.Context, user *models.User, file *multipart.FileHeader) (*models.UploadResponse, error) {
	if user.Role != models.RoleJobSeeker {
		return nil, apperror.Forbidden("only job seekers can upload a resume")
	}
	if file == nil {
		return nil, apperror.Validation("resume file is required")
	}
	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return nil, apperror.Validation(fmt.Sprintf("resume file too large. Max size: %d bytes", s.maxFileSize))
	}

	stored, err := s.storage.SaveFile(file, user.ID)
	if err != nil {
		return nil, err
	}

	content, err := s.pdfParser.ExtractText(stored.Path)
	if err != nil {
		s.cleanup(stored.Filename)
		return nil, err
	}

	parsed, err := s.parser.Parse(ctx, content.Text)
	if err != nil {
		s.cleanup(stored.Filename)
		return nil, apperror.Wrap(apperror.KindValidation, "could not read resume content", err)
	}

	doc := &models.Document{
		ID:               uuid.New(),
		OwnerID:          user.ID,
		Filename:         stored.Filename,
		OriginalFileName: file.Filename,
		FileType:         "resume",
		FilePath:         stored.Path,
		PageCount:        content.PageCount,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		s.cleanup(stored.Filename)
		return nil, err
	}

	parsed.ApplyToProfile(&user.Profile, s.now())
	user.Profile.ResumeURL = stored.URL
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("📄 Resume parsed for %s: %d skills, %.1f years", user.Email, len(user.Profile.Skills), user.Profile.TotalExperience)
	return &models.UploadResponse{
		ID:           doc.ID.String(),
		Filename:     doc.Filename,
		OriginalName: doc.OriginalFileName,
		Profile:      user.Profile,
	}, nil
}

func (s *profileService) cleanup(filename string) {
	if err := s.storage.DeleteFile(filename); err != nil {
		log.Printf("⚠️  Failed to remove uploaded file %s: %v", filename, err)
	}
}
