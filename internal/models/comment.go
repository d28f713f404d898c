// ===============================
// internal/models/comment.go
// ===============================

package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxCommentLength = 500

// CommentStatus tracks an optimistic comment through its durable write.
type CommentStatus string

const (
	CommentPending CommentStatus = "pending"
	CommentSaved   CommentStatus = "saved"
	CommentFailed  CommentStatus = "failed"
)

type Comment struct {
	ID              string    `json:"id"`
	EpisodeID       string    `json:"episodeId"`
	UserID          string    `json:"userId"`
	UserDisplayName string    `json:"userDisplayName"`
	UserPhotoURL    string    `json:"userPhotoUrl"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"createdAt"`

	// Runtime fields (not stored)
	Status CommentStatus `json:"status,omitempty"`
	Error  string        `json:"error,omitempty"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (c *Comment) ValidateForCreation() []string {
	var errors []string

	content := strings.TrimSpace(c.Content)
	if content == "" {
		errors = append(errors, "content is required")
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		errors = append(errors, fmt.Sprintf("content must be %d characters or less", MaxCommentLength))
	}
	if c.EpisodeID == "" {
		errors = append(errors, "episode is required")
	}
	if c.UserID == "" {
		errors = append(errors, "author is required")
	}

	return errors
}

// Fields returns the document representation written to the store.
func (c *Comment) Fields() map[string]interface{} {
	return map[string]interface{}{
		"episodeId":       c.EpisodeID,
		"userId":          c.UserID,
		"userDisplayName": c.UserDisplayName,
		"userPhotoUrl":    c.UserPhotoURL,
		"content":         c.Content,
		"createdAt":       c.CreatedAt,
	}
}
