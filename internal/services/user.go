// ===============================
// internal/services/user.go - User profiles and watch-later lists
// ===============================

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gaddiyalibe/internal/models"
	"gaddiyalibe/internal/store"

	"go.uber.org/zap"
)

type UserService struct {
	store  store.Store
	watch  *WatchService
	logger *zap.Logger
	now    func() time.Time
}

func NewUserService(st store.Store, watch *WatchService, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		store:  st,
		watch:  watch,
		logger: logger.Named("users"),
		now:    time.Now,
	}
}

// GetProfile returns the stored profile of uid.
func (s *UserService) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	doc, err := s.store.GetOne(ctx, store.CollectionUsers, uid)
	if err != nil {
		return nil, err
	}
	return profileFromDocument(*doc), nil
}

// SyncProfile creates the profile on first sight of an identity, otherwise
// refreshes its name, email and last-seen time. A stored photo is kept: an
// uploaded picture outranks the token claim. created reports which.
func (s *UserService) SyncProfile(ctx context.Context, identity *models.Identity) (*models.UserProfile, bool, error) {
	if identity.IsZero() {
		return nil, false, ErrNotAuthenticated
	}

	now := s.now()
	profile, err := s.GetProfile(ctx, identity.UID)
	created := false
	switch {
	case errors.Is(err, store.ErrNotFound):
		created = true
		profile = &models.UserProfile{
			UID:        identity.UID,
			WatchLater: []string{},
			CreatedAt:  now,
		}
	case err != nil:
		return nil, false, fmt.Errorf("get profile %s: %w", identity.UID, err)
	}

	profile.DisplayName = identity.DisplayName
	profile.Email = identity.Email
	if profile.PhotoURL == "" {
		profile.PhotoURL = identity.PhotoURL
	}
	profile.UpdatedAt = now
	profile.LastSeen = now

	if err := s.store.SetOne(ctx, store.CollectionUsers, identity.UID, profile.Fields()); err != nil {
		return nil, false, fmt.Errorf("save profile %s: %w", identity.UID, err)
	}

	if created {
		s.logger.Info("profile created", zap.String("uid", identity.UID))
	}
	return profile, created, nil
}

// SetPhotoURL records a new profile picture.
func (s *UserService) SetPhotoURL(ctx context.Context, uid, photoURL string) error {
	return s.store.SetOne(ctx, store.CollectionUsers, uid, map[string]interface{}{
		"photoURL":  photoURL,
		"updatedAt": s.now(),
	})
}

// WatchLater resolves the saved episode ids in the order they were added.
// Episodes that no longer exist are skipped.
func (s *UserService) WatchLater(ctx context.Context, uid string) ([]models.Episode, error) {
	profile, err := s.GetProfile(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return []models.Episode{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", uid, err)
	}

	episodes := make([]models.Episode, 0, len(profile.WatchLater))
	for _, id := range profile.WatchLater {
		episode, err := s.watch.GetEpisode(ctx, id)
		if errors.Is(err, ErrEpisodeNotFound) {
			s.logger.Debug("watch-later episode missing", zap.String("uid", uid), zap.String("episodeId", id))
			continue
		}
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, *episode)
	}
	return episodes, nil
}

// AddToWatchLater saves an existing episode for the user.
func (s *UserService) AddToWatchLater(ctx context.Context, identity *models.Identity, episodeID string) (*models.UserProfile, error) {
	if identity.IsZero() {
		return nil, ErrNotAuthenticated
	}
	if _, err := s.watch.GetEpisode(ctx, episodeID); err != nil {
		return nil, err
	}

	profile, err := s.GetProfile(ctx, identity.UID)
	if errors.Is(err, store.ErrNotFound) {
		profile, _, err = s.SyncProfile(ctx, identity)
	}
	if err != nil {
		return nil, err
	}
	if !profile.AddToWatchLater(episodeID) {
		return profile, nil
	}
	if err := s.saveWatchLater(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *UserService) RemoveFromWatchLater(ctx context.Context, identity *models.Identity, episodeID string) (*models.UserProfile, error) {
	if identity.IsZero() {
		return nil, ErrNotAuthenticated
	}

	profile, err := s.GetProfile(ctx, identity.UID)
	if err != nil {
		return nil, err
	}
	if !profile.RemoveFromWatchLater(episodeID) {
		return profile, nil
	}
	if err := s.saveWatchLater(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *UserService) saveWatchLater(ctx context.Context, profile *models.UserProfile) error {
	profile.UpdatedAt = s.now()
	err := s.store.SetOne(ctx, store.CollectionUsers, profile.UID, map[string]interface{}{
		"watchLater": profile.WatchLater,
		"updatedAt":  profile.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("save watch later for %s: %w", profile.UID, err)
	}
	return nil
}
