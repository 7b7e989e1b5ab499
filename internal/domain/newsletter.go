package domain

import "time"

// Layout is a reusable newsletter layout: block-editor content plus the
// email metadata presets a new newsletter is seeded from.
type Layout struct {
	ID      string `json:"id" db:"id"`
	Title   string `json:"title" db:"title"`
	Content string `json:"content" db:"content"`

	// Meta holds layout defaults (background color, custom CSS, preview
	// text) applied to newsletters created from this layout.
	Meta map[string]string `json:"meta" db:"meta"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
