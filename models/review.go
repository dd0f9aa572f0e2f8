package models

import (
	"errors"
	"strings"
)

var (
	ErrRatingRequired  = errors.New("rating must be between 1 and 5")
	ErrCommentRequired = errors.New("comment is required")
)

// Review is one user review of a movie, as returned by the backend for
// a resolved internal movie id.
type Review struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// ProfileReview is a review entry on the profile page, which carries
// the reviewed movie's title instead of author info.
type ProfileReview struct {
	ID         int64  `json:"id"`
	MovieTitle string `json:"movie_title"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// ReviewDraft is the client-side review input prior to submission.
type ReviewDraft struct {
	Rating  int
	Comment string
}

// Validate enforces the client-side submission rules: a non-zero star
// rating and a non-empty trimmed comment. Invalid drafts never reach
// the network.
func (d ReviewDraft) Validate() error {
	if d.Rating < 1 || d.Rating > 5 {
		return ErrRatingRequired
	}
	if strings.TrimSpace(d.Comment) == "" {
		return ErrCommentRequired
	}
	return nil
}
