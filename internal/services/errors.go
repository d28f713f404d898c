package services

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEpisodeNotLoaded = errors.New("episode not loaded")
	ErrEpisodeNotFound  = errors.New("episode not found")
	ErrInvalidComment   = errors.New("invalid comment")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCommentNotFailed = errors.New("comment is not in a failed state")
	ErrSuperseded       = errors.New("watch request superseded by a newer episode")
	ErrStorageDisabled  = errors.New("file storage is not configured")
	ErrUnsupportedImage = errors.New("unsupported image type")
)
