package store

import "bookmart/pkg/domain"

// Store defines persistence operations for users and books.
//
// Ownership-scoped mutations (UpdateOwnedBook, DeleteOwnedBook) must be a
// single conditional write on "id = ? AND owner_id = ?": a false result does
// not distinguish a missing book from someone else's book.
type Store interface {
	// users
	SaveUser(user domain.User) error
	HasUserEmail(email string) (bool, error)
	GetUserByEmail(email string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)
	GetUsersByIDs(ids []string) (map[string]domain.User, error)

	// books
	CreateBook(book domain.Book) error
	ListBooks(filter domain.BookFilter) ([]domain.Book, error)
	ListBooksByOwner(ownerID string, filter domain.BookFilter) ([]domain.Book, error)
	GetBook(id string) (domain.Book, bool, error)
	UpdateOwnedBook(book domain.Book) (bool, error)
	DeleteOwnedBook(id, ownerID string) (bool, error)
	ListCategories() ([]string, error)
}
