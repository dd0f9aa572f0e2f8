package models

// Session is the authenticated user as reported by the backend. It is
// owned by the session store; every other component only reads it. An
// absent session means the user is anonymous.
type Session struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Age      int    `json:"age,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// Valid reports whether the payload describes a real user. The backend
// answers /me with an empty or user-less body for anonymous visitors,
// so a missing id is the anonymous signal.
func (s Session) Valid() bool { return s.ID != 0 && s.Username != "" }

// Owns reports whether this session authored the given review. The
// check is advisory: the backend enforces ownership on delete.
func (s Session) Owns(r Review) bool {
	return s.Valid() && s.Username == r.Username
}
