package app

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"bookmart/internal/cache"
	"bookmart/pkg/domain"
)

func registerUser(t *testing.T, a *App, email string) domain.User {
	t.Helper()
	user, _, err := a.Register(email, "secret1", "")
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return user
}

func TestCreateBookRoundTrip(t *testing.T) {
	a := newTestApp(t, nil)
	u := registerUser(t, a, "a@x.com")

	in := BookInput{
		Name:        "Go in Practice",
		Category:    "Tech",
		Description: "hands-on recipes",
		Price:       25.50,
		ImageURL:    "/files/images/cover.png",
		FileURL:     "/files/documents/book.pdf",
		FileName:    "book.pdf",
		FileSize:    1024,
	}
	created, err := a.CreateBook(u.ID, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.OwnerID != u.ID {
		t.Fatalf("server-assigned fields missing: %+v", created)
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("timestamps not set at creation: %+v", created)
	}

	got, err := a.GetBook(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != in.Name || got.Category != in.Category || got.Description != in.Description ||
		got.Price != in.Price || got.ImageURL != in.ImageURL || got.FileURL != in.FileURL ||
		got.FileName != in.FileName || got.FileSize != in.FileSize {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Owner.ID != u.ID || got.Owner.Email != "a@x.com" {
		t.Fatalf("owner view missing: %+v", got.Owner)
	}
}

func TestCreateBookValidation(t *testing.T) {
	a := newTestApp(t, nil)
	u := registerUser(t, a, "a@x.com")
	valid := BookInput{Name: "N", Category: "C", Description: "D", Price: 1}

	cases := []struct {
		name  string
		mut   func(*BookInput)
	}{
		{"missing name", func(in *BookInput) { in.Name = "  " }},
		{"missing category", func(in *BookInput) { in.Category = "" }},
		{"missing description", func(in *BookInput) { in.Description = "" }},
		{"negative price", func(in *BookInput) { in.Price = -0.01 }},
		{"price too high", func(in *BookInput) { in.Price = 100000 }},
		{"three fraction digits", func(in *BookInput) { in.Price = 9.999 }},
		{"name too long", func(in *BookInput) { in.Name = longString(256) }},
		{"category too long", func(in *BookInput) { in.Category = longString(101) }},
		{"description too long", func(in *BookInput) { in.Description = longString(1001) }},
	}
	for _, tc := range cases {
		in := valid
		tc.mut(&in)
		if _, err := a.CreateBook(u.ID, in); !IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}

	// Nothing may have been persisted by the failed attempts.
	books, err := a.ListBooks(domain.BookFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 0 {
		t.Fatalf("validation failures persisted records: %d", len(books))
	}
}

func longString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'x'
	}
	return string(b)
}

func TestUpdateByNonOwnerCollapsesToNotFound(t *testing.T) {
	a := newTestApp(t, nil)
	u1 := registerUser(t, a, "u1@x.com")
	u2 := registerUser(t, a, "u2@x.com")

	created, err := a.CreateBook(u1.ID, BookInput{Name: "B", Category: "Fiction", Description: "d", Price: 9.99})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = a.UpdateBook(created.ID, u2.ID, BookInput{Name: "B", Category: "Fiction", Description: "d", Price: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("non-owner update: expected not found, got %v", err)
	}
	unchanged, err := a.GetBook(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if unchanged.Price != 9.99 {
		t.Fatalf("record changed by non-owner: %+v", unchanged.Book)
	}

	updated, err := a.UpdateBook(created.ID, u1.ID, BookInput{Name: "B", Category: "Fiction", Description: "d", Price: 12.00})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Price != 12.00 {
		t.Fatalf("expected price 12.00, got %v", updated.Price)
	}
	if updated.OwnerID != u1.ID {
		t.Fatalf("owner must never change: %+v", updated)
	}
}

func TestDeleteBookIdempotent(t *testing.T) {
	a := newTestApp(t, nil)
	u := registerUser(t, a, "a@x.com")
	created, err := a.CreateBook(u.ID, BookInput{Name: "B", Category: "C", Description: "d", Price: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ok, err := a.DeleteBook(created.ID, u.ID)
	if err != nil || !ok {
		t.Fatalf("first delete: ok=%v err=%v", ok, err)
	}
	ok, err = a.DeleteBook(created.ID, u.ID)
	if err != nil {
		t.Fatalf("second delete errored: %v", err)
	}
	if ok {
		t.Fatalf("second delete must report not found")
	}
	if _, err := a.GetBook(created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted book still retrievable")
	}
}

func TestOwnerStatsMatchesListing(t *testing.T) {
	a := newTestApp(t, nil)
	u1 := registerUser(t, a, "u1@x.com")
	u2 := registerUser(t, a, "u2@x.com")

	mustCreate := func(owner string, category string, price float64) {
		if _, err := a.CreateBook(owner, BookInput{Name: "B", Category: category, Description: "d", Price: price}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	mustCreate(u1.ID, "Fiction", 9.99)
	mustCreate(u1.ID, "Fiction", 5.01)
	mustCreate(u1.ID, "Tech", 20.00)
	mustCreate(u2.ID, "Poetry", 100.00)

	stats, err := a.OwnerStats(context.Background(), u1.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Count != 3 || stats.DistinctCategories != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if math.Abs(stats.TotalValue-35.00) > 1e-9 {
		t.Fatalf("unexpected total value: %v", stats.TotalValue)
	}

	empty, err := a.OwnerStats(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("stats for empty owner: %v", err)
	}
	if empty != (domain.OwnerStats{}) {
		t.Fatalf("expected zero stats, got %+v", empty)
	}
}

func TestOwnerStatsCacheInvalidatedOnMutation(t *testing.T) {
	redis := miniredis.RunT(t)
	statsCache := cache.NewRedisStatsCache(redis.Addr(), "", time.Minute)
	a := newTestApp(t, statsCache)
	u := registerUser(t, a, "a@x.com")

	created, err := a.CreateBook(u.ID, BookInput{Name: "B", Category: "C", Description: "d", Price: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	stats, err := a.OwnerStats(context.Background(), u.ID)
	if err != nil || stats.Count != 1 {
		t.Fatalf("stats after create: %+v err=%v", stats, err)
	}

	// A mutation must drop the cached entry so the next read is fresh.
	if _, err := a.UpdateBook(created.ID, u.ID, BookInput{Name: "B", Category: "C", Description: "d", Price: 25}); err != nil {
		t.Fatalf("update: %v", err)
	}
	stats, err = a.OwnerStats(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("stats after update: %v", err)
	}
	if math.Abs(stats.TotalValue-25) > 1e-9 {
		t.Fatalf("stale stats served after mutation: %+v", stats)
	}

	if _, err := a.DeleteBook(created.ID, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	stats, err = a.OwnerStats(context.Background(), u.ID)
	if err != nil || stats.Count != 0 {
		t.Fatalf("stale stats after delete: %+v err=%v", stats, err)
	}
}
