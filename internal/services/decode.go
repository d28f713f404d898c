// ===============================
// internal/services/decode.go - Store documents to models
// ===============================

package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"gaddiyalibe/internal/models"
	"gaddiyalibe/internal/store"
)

// coerceInt converts a stored number into an int. Numbers may arrive as any
// numeric type or as a numeric string. ok is false for missing or non-numeric values.
func coerceInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return intInRange(int64(n))
	case int32:
		return int(n), true
	case int64:
		return intInRange(n)
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	default:
		return 0, false
	}
}

// Season and episode numbers must fit in an int32.
func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func intInRange(n int64) (int, bool) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

func stringField(fields map[string]interface{}, key string) string {
	s, _ := fields[key].(string)
	return s
}

func intField(fields map[string]interface{}, key string) int {
	n, _ := coerceInt(fields[key])
	return n
}

// timeField accepts native timestamps and RFC 3339 strings.
func timeField(fields map[string]interface{}, key string) time.Time {
	switch v := fields[key].(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	case int64:
		return time.UnixMilli(v)
	case float64:
		return time.UnixMilli(int64(v))
	}
	return time.Time{}
}

func stringsField(fields map[string]interface{}, key string) []string {
	switch v := fields[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

// episodeFromDocument copies the stored fields into an Episode. valid is false
// when the season or episode number could not be coerced; both default to 0.
func episodeFromDocument(doc store.Document) (models.Episode, bool) {
	season, seasonOK := coerceInt(doc.Fields["seasonNumber"])
	number, numberOK := coerceInt(doc.Fields["episodeNumber"])

	return models.Episode{
		ID:            doc.ID,
		Title:         stringField(doc.Fields, "title"),
		Description:   stringField(doc.Fields, "description"),
		VideoURL:      stringField(doc.Fields, "videoUrl"),
		ThumbnailURL:  stringField(doc.Fields, "thumbnailUrl"),
		SeasonNumber:  season,
		EpisodeNumber: number,
		Duration:      intField(doc.Fields, "duration"),
		Likes:         intField(doc.Fields, "likes"),
		CreatedAt:     timeField(doc.Fields, "createdAt"),
		Category:      stringField(doc.Fields, "category"),
	}, seasonOK && numberOK
}

func commentFromDocument(doc store.Document) models.Comment {
	return models.Comment{
		ID:              doc.ID,
		EpisodeID:       stringField(doc.Fields, "episodeId"),
		UserID:          stringField(doc.Fields, "userId"),
		UserDisplayName: stringField(doc.Fields, "userDisplayName"),
		UserPhotoURL:    stringField(doc.Fields, "userPhotoUrl"),
		Content:         stringField(doc.Fields, "content"),
		CreatedAt:       timeField(doc.Fields, "createdAt"),
		Status:          models.CommentSaved,
	}
}

func profileFromDocument(doc store.Document) *models.UserProfile {
	return &models.UserProfile{
		UID:         doc.ID,
		DisplayName: stringField(doc.Fields, "displayName"),
		Email:       stringField(doc.Fields, "email"),
		PhotoURL:    stringField(doc.Fields, "photoURL"),
		WatchLater:  stringsField(doc.Fields, "watchLater"),
		CreatedAt:   timeField(doc.Fields, "createdAt"),
		UpdatedAt:   timeField(doc.Fields, "updatedAt"),
		LastSeen:    timeField(doc.Fields, "lastSeen"),
	}
}
