// ===============================
// internal/models/user.go - Identity and profile models
// ===============================

package models

import (
	"fmt"
	"net/url"
	"time"
)

// Identity is the authenticated caller as reported by the auth provider.
// It is read-only for the rest of the application.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
}

func (i *Identity) IsZero() bool {
	return i == nil || i.UID == ""
}

// AvatarURL falls back to a generated avatar when the user has no photo.
func (i *Identity) AvatarURL() string {
	if i.PhotoURL != "" {
		return i.PhotoURL
	}
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s", url.QueryEscape(i.DisplayName))
}

type UserProfile struct {
	UID         string    `json:"uid"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	PhotoURL    string    `json:"photoURL"`
	WatchLater  []string  `json:"watchLater"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	LastSeen    time.Time `json:"lastSeen"`
}

func (u *UserProfile) Fields() map[string]interface{} {
	watchLater := u.WatchLater
	if watchLater == nil {
		watchLater = []string{}
	}
	return map[string]interface{}{
		"displayName": u.DisplayName,
		"email":       u.Email,
		"photoURL":    u.PhotoURL,
		"watchLater":  watchLater,
		"createdAt":   u.CreatedAt,
		"updatedAt":   u.UpdatedAt,
		"lastSeen":    u.LastSeen,
	}
}

func (u *UserProfile) HasInWatchLater(episodeID string) bool {
	for _, id := range u.WatchLater {
		if id == episodeID {
			return true
		}
	}
	return false
}

// AddToWatchLater appends the episode once; it returns false when already present.
func (u *UserProfile) AddToWatchLater(episodeID string) bool {
	if u.HasInWatchLater(episodeID) {
		return false
	}
	u.WatchLater = append(u.WatchLater, episodeID)
	return true
}

func (u *UserProfile) RemoveFromWatchLater(episodeID string) bool {
	for i, id := range u.WatchLater {
		if id == episodeID {
			u.WatchLater = append(u.WatchLater[:i:i], u.WatchLater[i+1:]...)
			return true
		}
	}
	return false
}
