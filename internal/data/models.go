package data

import (
	"time"
)

// PostSummary is the listing view of a blog post. Optional fields are nil when the
// CMS row leaves them empty.
type PostSummary struct {
	ID           string     `json:"id"`
	Slug         string     `json:"slug"`
	Title        string     `json:"title"`
	Summary      string     `json:"summary"`
	PublishDate  *time.Time `json:"publish_date"`
	IsFeatured   bool       `json:"is_featured"`
	Category     *string    `json:"category"`
	ThumbnailURL *string    `json:"thumbnail_url"`
	HeroImageURL *string    `json:"hero_image_url"`
	ReadTime     *float64   `json:"read_time"`
}

// PostRecord is one database row as returned by the content client, before
// visibility filtering and slug validation.
type PostRecord struct {
	PostSummary
	Published bool   `json:"published"`
	Region    string `json:"region"`
}

// PostFilter narrows a post query. Empty fields do not constrain the query.
type PostFilter struct {
	Locale   string
	Category string
	Slug     string
}

// Lead is a demo request submitted through the site.
type Lead struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	Company     string    `db:"company" json:"company"`
	Phone       string    `db:"phone" json:"phone"`
	Outlets     int       `db:"outlets" json:"outlets"`
	Message     string    `db:"message" json:"message"`
	Locale      string    `db:"locale" json:"locale"`
	UTMSource   string    `db:"utm_source" json:"utm_source"`
	UTMMedium   string    `db:"utm_medium" json:"utm_medium"`
	UTMCampaign string    `db:"utm_campaign" json:"utm_campaign"`
	Referrer    string    `db:"referrer" json:"referrer"`
	LandingPath string    `db:"landing_path" json:"landing_path"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Attribution records where a visitor came from. It is captured on the first request
// of a session and copied onto any lead the visitor submits.
type Attribution struct {
	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
	Referrer    string `json:"referrer"`
	LandingPath string `json:"landing_path"`
}
