package app

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"bookmart/internal/util"
	"bookmart/pkg/domain"
)

const (
	maxNameLength        = 255
	maxCategoryLength    = 100
	maxDescriptionLength = 1000
	maxPrice             = 99999.99
)

// BookInput carries the caller-supplied fields of a book. File metadata is
// copied verbatim from earlier upload results.
type BookInput struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	FileURL     string  `json:"fileUrl"`
	FileName    string  `json:"fileName"`
	FileSize    int64   `json:"fileSize"`
}

func validateBookInput(in BookInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return invalid("name", "required")
	}
	if len(name) > maxNameLength {
		return invalid("name", fmt.Sprintf("must be at most %d characters", maxNameLength))
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return invalid("category", "required")
	}
	if len(category) > maxCategoryLength {
		return invalid("category", fmt.Sprintf("must be at most %d characters", maxCategoryLength))
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return invalid("description", "required")
	}
	if len(description) > maxDescriptionLength {
		return invalid("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLength))
	}
	if in.Price < 0 {
		return invalid("price", "must not be negative")
	}
	if in.Price > maxPrice {
		return invalid("price", fmt.Sprintf("must not exceed %.2f", maxPrice))
	}
	cents := in.Price * 100
	if math.Abs(cents-math.Round(cents)) > 1e-9 {
		return invalid("price", "at most two fraction digits")
	}
	return nil
}

// ListBooks returns every book matching the filter, any owner, with the
// owner's public view attached.
func (a *App) ListBooks(filter domain.BookFilter) ([]domain.BookView, error) {
	books, err := a.store.ListBooks(filter)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return a.attachOwners(books)
}

// ListMyBooks returns the requester's books matching the filter.
func (a *App) ListMyBooks(ownerID string, filter domain.BookFilter) ([]domain.BookView, error) {
	books, err := a.store.ListBooksByOwner(ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list owned books: %w", err)
	}
	return a.attachOwners(books)
}

// GetBook returns a single book, any caller.
func (a *App) GetBook(id string) (domain.BookView, error) {
	book, ok, err := a.store.GetBook(id)
	if err != nil {
		return domain.BookView{}, fmt.Errorf("get book: %w", err)
	}
	if !ok {
		return domain.BookView{}, ErrNotFound
	}
	views, err := a.attachOwners([]domain.Book{book})
	if err != nil {
		return domain.BookView{}, err
	}
	return views[0], nil
}

// CreateBook persists a new book owned by the requester.
func (a *App) CreateBook(ownerID string, in BookInput) (domain.Book, error) {
	if err := validateBookInput(in); err != nil {
		return domain.Book{}, err
	}
	now := time.Now().UTC()
	book := domain.Book{
		ID:          util.NewID(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		FileURL:     in.FileURL,
		FileName:    in.FileName,
		FileSize:    in.FileSize,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.store.CreateBook(book); err != nil {
		return domain.Book{}, fmt.Errorf("save book: %w", err)
	}
	a.invalidateStats(ownerID)
	return book, nil
}

// UpdateBook overwrites all mutable fields of a book the requester owns.
// A book that does not exist and a book owned by someone else both come back
// as ErrNotFound.
func (a *App) UpdateBook(id, ownerID string, in BookInput) (domain.Book, error) {
	if err := validateBookInput(in); err != nil {
		return domain.Book{}, err
	}
	book := domain.Book{
		ID:          id,
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		FileURL:     in.FileURL,
		FileName:    in.FileName,
		FileSize:    in.FileSize,
		UpdatedAt:   time.Now().UTC(),
	}
	ok, err := a.store.UpdateOwnedBook(book)
	if err != nil {
		return domain.Book{}, fmt.Errorf("update book: %w", err)
	}
	if !ok {
		return domain.Book{}, ErrNotFound
	}
	a.invalidateStats(ownerID)
	updated, ok, err := a.store.GetBook(id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("reload book: %w", err)
	}
	if !ok {
		return domain.Book{}, ErrNotFound
	}
	return updated, nil
}

// DeleteBook removes a book the requester owns. Returns false when no owned
// record matched; a repeat call on the same id reports false, not an error.
func (a *App) DeleteBook(id, ownerID string) (bool, error) {
	ok, err := a.store.DeleteOwnedBook(id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete book: %w", err)
	}
	if ok {
		a.invalidateStats(ownerID)
	}
	return ok, nil
}

// ListCategories returns distinct categories across the whole catalog.
func (a *App) ListCategories() ([]string, error) {
	return a.store.ListCategories()
}

// OwnerStats derives count, total value and distinct category count from the
// requester's unfiltered listing. Served from the cache when one is wired.
func (a *App) OwnerStats(ctx context.Context, ownerID string) (domain.OwnerStats, error) {
	if a.stats != nil {
		if cached, ok, err := a.stats.Get(ctx, ownerID); err == nil && ok {
			return cached, nil
		}
	}
	books, err := a.store.ListBooksByOwner(ownerID, domain.BookFilter{})
	if err != nil {
		return domain.OwnerStats{}, fmt.Errorf("list owned books: %w", err)
	}
	categories := make(map[string]struct{})
	stats := domain.OwnerStats{Count: len(books)}
	for _, b := range books {
		stats.TotalValue += b.Price
		categories[b.Category] = struct{}{}
	}
	stats.DistinctCategories = len(categories)
	if a.stats != nil {
		if err := a.stats.Set(ctx, ownerID, stats); err != nil {
			util.LoggerFromContext(ctx).Warn("stats cache set failed", "err", err)
		}
	}
	return stats, nil
}

func (a *App) invalidateStats(ownerID string) {
	if a.stats == nil {
		return
	}
	if err := a.stats.Invalidate(context.Background(), ownerID); err != nil {
		util.LoggerFromContext(context.Background()).Warn("stats cache invalidate failed", "owner_id", ownerID, "err", err)
	}
}

func (a *App) attachOwners(books []domain.Book) ([]domain.BookView, error) {
	ownerIDs := make([]string, 0, len(books))
	seen := make(map[string]struct{}, len(books))
	for _, b := range books {
		if _, ok := seen[b.OwnerID]; ok {
			continue
		}
		seen[b.OwnerID] = struct{}{}
		ownerIDs = append(ownerIDs, b.OwnerID)
	}
	owners, err := a.store.GetUsersByIDs(ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch owners: %w", err)
	}
	views := make([]domain.BookView, 0, len(books))
	for _, b := range books {
		views = append(views, domain.BookView{Book: b, Owner: owners[b.OwnerID].Public()})
	}
	return views, nil
}
