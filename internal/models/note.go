package models

import "time"

// Note is a titled text document owned by exactly one user.
type Note struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NotePatch carries a partial note update. Nil fields are left untouched.
type NotePatch struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// IsEmpty reports whether the patch changes nothing.
func (p NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Body == nil
}

// Apply overwrites the fields present in p and returns the merged note.
func (n Note) Apply(p NotePatch) Note {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Body != nil {
		n.Body = *p.Body
	}
	return n
}
