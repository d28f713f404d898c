// ===============================
// internal/services/upload.go - Profile picture uploads
// ===============================

package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"gaddiyalibe/internal/storage"

	"go.uber.org/zap"
)

const MaxProfilePictureSize = 5 * 1024 * 1024

// PhotoUpdater pushes a new photo URL to the identity provider.
type PhotoUpdater interface {
	UpdatePhotoURL(ctx context.Context, uid, photoURL string) error
}

type UploadService struct {
	objects storage.ObjectStore
	users   *UserService
	auth    PhotoUpdater
	logger  *zap.Logger
}

// NewUploadService accepts a nil object store; uploads then fail with
// ErrStorageDisabled.
func NewUploadService(objects storage.ObjectStore, users *UserService, auth PhotoUpdater, logger *zap.Logger) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{
		objects: objects,
		users:   users,
		auth:    auth,
		logger:  logger.Named("upload"),
	}
}

func (s *UploadService) Enabled() bool {
	return s.objects != nil
}

// UploadProfilePicture stores the image at profile_pictures/<uid> and records
// its public URL on the profile and, when configured, the auth account.
func (s *UploadService) UploadProfilePicture(ctx context.Context, uid string, file io.Reader, filename string) (string, error) {
	if !s.Enabled() {
		return "", ErrStorageDisabled
	}
	if uid == "" {
		return "", ErrNotAuthenticated
	}

	contentType, ok := imageContentType(filename)
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnsupportedImage, path.Ext(filename))
	}

	key := "profile_pictures/" + uid
	if err := s.objects.Put(ctx, key, file, contentType); err != nil {
		return "", err
	}
	url := s.objects.PublicURL(key)

	if s.users != nil {
		if err := s.users.SetPhotoURL(ctx, uid, url); err != nil {
			return "", fmt.Errorf("save photo url: %w", err)
		}
	}
	if s.auth != nil {
		if err := s.auth.UpdatePhotoURL(ctx, uid, url); err != nil {
			s.logger.Warn("failed to update auth photo url", zap.String("uid", uid), zap.Error(err))
		}
	}

	s.logger.Info("profile picture uploaded", zap.String("uid", uid), zap.String("key", key))
	return url, nil
}

func imageContentType(filename string) (string, bool) {
	switch strings.ToLower(path.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg", true
	case ".png":
		return "image/png", true
	case ".webp":
		return "image/webp", true
	case ".gif":
		return "image/gif", true
	default:
		return "", false
	}
}
