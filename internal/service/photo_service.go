package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/repository"
	"fitcoach/platform/internal/storage"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUploadURLError       = errors.New("failed to generate upload URL")
	ErrDownloadURLError     = errors.New("failed to generate download URL")
	ErrUploadObjectMissing  = errors.New("uploaded object was not found in storage")
	ErrUploadKeyNotOwned    = errors.New("object key does not belong to this student")
	ErrUnsupportedMediaType = errors.New("only image uploads are accepted")
	ErrStorageDisabled      = errors.New("photo storage is not configured")
)

// UploadURLResponse is returned to the client, which PUTs the file to UploadURL
// and then reports ObjectKey back on confirm.
type UploadURLResponse struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// PhotoView is an upload with a temporary download link.
type PhotoView struct {
	domain.Upload
	URL string `json:"url"`
}

type PhotoService interface {
	RequestUploadURL(ctx context.Context, studentID primitive.ObjectID, photoType domain.PhotoType, contentType string) (*UploadURLResponse, error)
	ConfirmUpload(ctx context.Context, studentID primitive.ObjectID, photoType domain.PhotoType, objectKey, fileName string) (*domain.Upload, error)
	// ListPhotos is allowed for the student and for the student's trainer.
	ListPhotos(ctx context.Context, requesterID, studentID primitive.ObjectID) ([]PhotoView, error)
}

type photoService struct {
	uploadRepo  repository.UploadRepository
	userRepo    repository.UserRepository
	fileStorage storage.FileStorage
	expiry      time.Duration
	now         func() time.Time
}

// NewPhotoService creates a PhotoService. A nil fileStorage yields a service
// that answers ErrStorageDisabled.
func NewPhotoService(uploadRepo repository.UploadRepository, userRepo repository.UserRepository, fileStorage storage.FileStorage, expiry time.Duration) PhotoService {
	if expiry <= 0 {
		expiry = storage.DefaultPresignedURLExpiry
	}
	return &photoService{
		uploadRepo:  uploadRepo,
		userRepo:    userRepo,
		fileStorage: fileStorage,
		expiry:      expiry,
		now:         time.Now,
	}
}

func objectPrefix(studentID primitive.ObjectID, photoType domain.PhotoType) string {
	return path.Join("progress", studentID.Hex(), strings.ToLower(string(photoType))) + "/"
}

func (s *photoService) RequestUploadURL(ctx context.Context, studentID primitive.ObjectID, photoType domain.PhotoType, contentType string) (*UploadURLResponse, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageDisabled
	}
	if !photoType.Valid() {
		return nil, invalid("photo type must be FRONT, SIDE or BACK")
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	ext := strings.TrimPrefix(contentType, "image/")
	if ext == contentType || ext == "" || strings.ContainsAny(ext, "/;") {
		return nil, ErrUnsupportedMediaType
	}

	objectKey := objectPrefix(studentID, photoType) + fmt.Sprintf("%s.%s", uuid.NewString(), ext)
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, s.expiry)
	if err != nil {
		log.WithError(err).WithField("key", objectKey).Error("presign upload failed")
		return nil, ErrUploadURLError
	}
	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
		ExpiresAt: s.now().UTC().Add(s.expiry),
	}, nil
}

// ConfirmUpload records the metadata of an object the student already PUT to storage.
func (s *photoService) ConfirmUpload(ctx context.Context, studentID primitive.ObjectID, photoType domain.PhotoType, objectKey, fileName string) (*domain.Upload, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageDisabled
	}
	if !photoType.Valid() {
		return nil, invalid("photo type must be FRONT, SIDE or BACK")
	}
	if objectKey == "" {
		return nil, invalid("object key is required")
	}
	if !strings.HasPrefix(objectKey, objectPrefix(studentID, photoType)) || strings.Contains(objectKey, "..") {
		return nil, ErrUploadKeyNotOwned
	}

	meta, err := s.fileStorage.StatObject(ctx, objectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrUploadObjectMissing
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !strings.HasPrefix(strings.ToLower(meta.ContentType), "image/") {
		if err := s.fileStorage.DeleteObject(ctx, objectKey); err != nil {
			log.WithError(err).WithField("key", objectKey).Warn("failed to remove non-image upload")
		}
		return nil, ErrUnsupportedMediaType
	}

	if fileName == "" {
		fileName = path.Base(objectKey)
	}
	upload := &domain.Upload{
		StudentID:   studentID,
		PhotoType:   photoType,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: meta.ContentType,
		Size:        meta.Size,
		UploadedAt:  s.now().UTC(),
	}
	id, err := s.uploadRepo.Create(ctx, upload)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	upload.ID = id
	return upload, nil
}

func (s *photoService) ListPhotos(ctx context.Context, requesterID, studentID primitive.ObjectID) ([]PhotoView, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageDisabled
	}
	if requesterID != studentID {
		student, err := s.userRepo.GetByID(ctx, studentID)
		if err != nil {
			return nil, storeErr(err, ErrStudentNotFound)
		}
		if !student.HasTrainer(requesterID) {
			return nil, ErrAccessDenied
		}
	}

	uploads, err := s.uploadRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	views := make([]PhotoView, 0, len(uploads))
	for _, u := range uploads {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, u.S3ObjectKey, s.expiry)
		if err != nil {
			log.WithError(err).WithField("key", u.S3ObjectKey).Error("presign download failed")
			return nil, ErrDownloadURLError
		}
		views = append(views, PhotoView{Upload: u, URL: url})
	}
	return views, nil
}
