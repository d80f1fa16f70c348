package service

import (
	"context"
	"errors"

	"fitweek/fitness-tracker/internal/domain"
	"fitweek/fitness-tracker/internal/repository"
	"fitweek/fitness-tracker/internal/storage"

	"github.com/rs/zerolog/log"
)

var ErrNoAvatar = errors.New("user has no avatar")

// ProfileService owns the account-profile fields and the avatar object
// lifecycle. File bytes never pass through the server; clients talk to the
// object store via presigned URLs.
type ProfileService interface {
	Get(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, username string, profile domain.Profile) (*domain.User, error)
	AvatarUploadURL(ctx context.Context, username, contentType string) (string, error)
	AvatarDownloadURL(ctx context.Context, username string) (string, error)
}

// profileService implements the ProfileService interface.
type profileService struct {
	userRepo    repository.UserRepository
	fileStorage storage.FileStorage
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(userRepo repository.UserRepository, fileStorage storage.FileStorage) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		fileStorage: fileStorage,
	}
}

func (s *profileService) loadUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Get returns the aggregate for the profile screen.
func (s *profileService) Get(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile writes the editable profile fields. The avatar key is owned
// by the upload flow and survives profile edits untouched.
func (s *profileService) UpdateProfile(ctx context.Context, username string, profile domain.Profile) (*domain.User, error) {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	profile.AvatarKey = user.Profile.AvatarKey
	user.Profile = profile

	if err := s.userRepo.UpdateProfile(ctx, username, user.Profile); err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// AvatarUploadURL allocates a fresh object key, stores it on the profile
// and returns a presigned PUT URL for the client to upload against. The
// previous object is deleted best-effort.
func (s *profileService) AvatarUploadURL(ctx context.Context, username, contentType string) (string, error) {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return "", err
	}

	oldKey := user.Profile.AvatarKey
	newKey := storage.AvatarObjectKey(username)

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, newKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", err
	}

	user.Profile.AvatarKey = newKey
	if err := s.userRepo.UpdateProfile(ctx, username, user.Profile); err != nil {
		return "", err
	}

	if oldKey != "" {
		if err := s.fileStorage.DeleteObject(ctx, oldKey); err != nil {
			// An orphaned object costs storage, not correctness.
			log.Warn().Err(err).Str("key", oldKey).Msg("failed to delete previous avatar")
		}
	}
	return uploadURL, nil
}

// AvatarDownloadURL returns a presigned GET URL for the stored avatar.
func (s *profileService) AvatarDownloadURL(ctx context.Context, username string) (string, error) {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return "", err
	}
	if user.Profile.AvatarKey == "" {
		return "", ErrNoAvatar
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, user.Profile.AvatarKey, storage.DefaultPresignedURLExpiry)
}
