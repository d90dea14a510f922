package internal

import "time"

type Link struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	URL       string     `json:"url"`
	Slug      string     `json:"slug"`
	Title     *string    `json:"title"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// Expired reports whether the link has an expiry that lies before now.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

// Tag is persisted in the tags table but not yet exposed over HTTP.
type Tag struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      string    `json:"name"`
}

type Visit struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	LinkID    string    `json:"linkId"`
	City      *string   `json:"city"`
	Country   *string   `json:"country"`
}
