package domain

import (
	"strings"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the owner view embedded in book listings.
type PublicUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
}

// Public strips everything a non-owner may not see.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, FullName: u.FullName}
}

type Book struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	FileURL     string    `json:"fileUrl,omitempty"`
	FileName    string    `json:"fileName,omitempty"`
	FileSize    int64     `json:"fileSize,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BookView is a book together with its owner's public view.
type BookView struct {
	Book
	Owner PublicUser `json:"owner"`
}

// BookFilter narrows catalog listings. All fields are optional; nil price
// bounds mean "no constraint", so a bound of exactly 0 still applies.
type BookFilter struct {
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// IsZero reports whether no predicate is set.
func (f BookFilter) IsZero() bool {
	return f.Search == "" && f.Category == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// Matches reports whether a book satisfies every set predicate.
// Search is a case-insensitive substring match on name OR description.
func (f BookFilter) Matches(b Book) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(b.Name), needle) &&
			!strings.Contains(strings.ToLower(b.Description), needle) {
			return false
		}
	}
	if f.Category != "" && b.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && b.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && b.Price > *f.MaxPrice {
		return false
	}
	return true
}

// OwnerStats is derived from the owner's unfiltered book listing and never
// persisted.
type OwnerStats struct {
	Count              int     `json:"count"`
	TotalValue         float64 `json:"totalValue"`
	DistinctCategories int     `json:"distinctCategories"`
}

// FileKind classifies an uploaded asset, determining its size cap and
// extension allow-list.
type FileKind string

const (
	KindImage    FileKind = "image"
	KindDocument FileKind = "document"
)

// StoredFile describes a persisted upload.
type StoredFile struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
}
