package store

import (
	"sort"
	"sync"

	"bookmart/pkg/domain"
)

// MemoryStore keeps users and books in-process. It backs tests and local
// development; semantics mirror GormStore, including the single-predicate
// ownership checks.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
	email map[string]string // email -> user ID
	books map[string]domain.Book
	order []string // book IDs in insertion order
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]domain.User),
		email: make(map[string]string),
		books: make(map[string]domain.Book),
	}
}

// SaveUser stores or replaces a user record.
func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.users[u.ID]; ok && prev.Email != u.Email {
		delete(m.email, prev.Email)
	}
	m.users[u.ID] = u
	m.email[u.Email] = u.ID
	return nil
}

// HasUserEmail checks if email exists.
func (m *MemoryStore) HasUserEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.email[email]
	return ok, nil
}

// GetUserByEmail looks up a user by email.
func (m *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.email[email]
	if !ok {
		return domain.User{}, false, nil
	}
	u, ok := m.users[id]
	return u, ok, nil
}

// GetUserByID returns a user by ID.
func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// GetUsersByIDs returns users keyed by ID.
func (m *MemoryStore) GetUsersByIDs(ids []string) (map[string]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]domain.User, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

// CreateBook stores a new book record and tracks insertion order.
func (m *MemoryStore) CreateBook(b domain.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.books[b.ID]; !exists {
		m.order = append(m.order, b.ID)
	}
	m.books[b.ID] = b
	return nil
}

// ListBooks returns every book matching the filter, newest first.
func (m *MemoryStore) ListBooks(filter domain.BookFilter) ([]domain.Book, error) {
	return m.listBooks(filter, ""), nil
}

// ListBooksByOwner returns the owner's books matching the filter, newest first.
func (m *MemoryStore) ListBooksByOwner(ownerID string, filter domain.BookFilter) ([]domain.Book, error) {
	return m.listBooks(filter, ownerID), nil
}

func (m *MemoryStore) listBooks(filter domain.BookFilter, ownerID string) []domain.Book {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Book, 0, len(m.order))
	for _, id := range m.order {
		b, ok := m.books[id]
		if !ok {
			continue
		}
		if ownerID != "" && b.OwnerID != ownerID {
			continue
		}
		if !filter.Matches(b) {
			continue
		}
		res = append(res, b)
	}
	// Newest first; ties keep insertion order.
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res
}

// GetBook retrieves a book regardless of owner.
func (m *MemoryStore) GetBook(id string) (domain.Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[id]
	return b, ok, nil
}

// UpdateOwnedBook overwrites all mutable fields when id and owner both match.
func (m *MemoryStore) UpdateOwnedBook(b domain.Book) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.books[b.ID]
	if !ok || existing.OwnerID != b.OwnerID {
		return false, nil
	}
	existing.Name = b.Name
	existing.Category = b.Category
	existing.Description = b.Description
	existing.Price = b.Price
	existing.ImageURL = b.ImageURL
	existing.FileURL = b.FileURL
	existing.FileName = b.FileName
	existing.FileSize = b.FileSize
	existing.UpdatedAt = b.UpdatedAt
	m.books[b.ID] = existing
	return true, nil
}

// DeleteOwnedBook removes the book when id and owner both match.
func (m *MemoryStore) DeleteOwnedBook(id, ownerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.books[id]
	if !ok || existing.OwnerID != ownerID {
		return false, nil
	}
	delete(m.books, id)
	for i, bid := range m.order {
		if bid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// ListCategories returns distinct category values across all books, ascending.
func (m *MemoryStore) ListCategories() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]struct{}, len(m.books))
	for _, b := range m.books {
		seen[b.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}
