package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/job-portal/internal/apperror"
)

// StoredFile describes a resume written to the upload directory.
type StoredFile struct {
	Filename string
	Path     string
	URL      string
}

type StorageService interface {
	SaveFile(file *multipart.FileHeader, ownerID uuid.UUID) (*StoredFile, error)
	Save(originalName string, src io.Reader, ownerID uuid.UUID) (*StoredFile, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
	publicBase string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
		publicBase: "/uploads",
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *storageService) SaveFile(file *multipart.FileHeader, ownerID uuid.UUID) (*StoredFile, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	return s.Save(file.Filename, src, ownerID)
}

// Save writes src as resume_<owner>_<random>.pdf. Only PDF names are accepted.
func (s *storageService) Save(originalName string, src io.Reader, ownerID uuid.UUID) (*StoredFile, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext != ".pdf" {
		return nil, apperror.Validation("resume must be a PDF file")
	}

	filename := fmt.Sprintf("resume_%s_%s%s", ownerID, uuid.New(), ext)
	path := s.GetFilePath(filename)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StoredFile{
		Filename: filename,
		Path:     path,
		URL:      s.publicBase + "/" + filename,
	}, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filepath.Base(filename))
}

func (s *storageService) DeleteFile(filename string) error {
	if err := os.Remove(s.GetFilePath(filename)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
