package models

import "strings"

// AvatarOptions is the fixed set of avatar files a user may pick from.
var AvatarOptions = []string{
	"avatar1.png", "avatar2.png", "avatar3.png",
	"avatar4.png", "avatar5.png", "default.jpg",
}

// DefaultAvatar is assigned to new accounts.
const DefaultAvatar = "default.jpg"

// ValidAvatar reports whether name is one of the selectable avatars.
func ValidAvatar(name string) bool {
	for _, opt := range AvatarOptions {
		if opt == name {
			return true
		}
	}
	return false
}

// PosterURL resolves a relative poster reference against the image host
// base. Empty references resolve to "" so callers can fall back to a
// placeholder.
func PosterURL(base, posterPath string) string {
	trimmed := strings.TrimSpace(posterPath)
	if trimmed == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(trimmed, "/")
}

// AvatarURL resolves an avatar file name against the avatar base path.
func AvatarURL(base, name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		trimmed = DefaultAvatar
	}
	return strings.TrimRight(base, "/") + "/" + trimmed
}
