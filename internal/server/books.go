package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"bookmart/internal/app"
	"bookmart/pkg/domain"
	"bookmart/pkg/token"
)

// parseBookFilter reads filter predicates from query parameters. minPrice and
// maxPrice stay nil when absent, so a bound of exactly 0 is still honored.
func parseBookFilter(r *http.Request) (domain.BookFilter, error) {
	q := r.URL.Query()
	filter := domain.BookFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		Category: q.Get("category"),
	}
	if q.Has("minPrice") {
		v, err := strconv.ParseFloat(q.Get("minPrice"), 64)
		if err != nil {
			return domain.BookFilter{}, err
		}
		filter.MinPrice = &v
	}
	if q.Has("maxPrice") {
		v, err := strconv.ParseFloat(q.Get("maxPrice"), 64)
		if err != nil {
			return domain.BookFilter{}, err
		}
		filter.MaxPrice = &v
	}
	return filter, nil
}

// GET /books is public; POST /books requires a verified identity.
func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter, err := parseBookFilter(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid price filter")
			return
		}
		books, err := s.app.ListBooks(filter)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": books, "count": len(books)})
	case http.MethodPost:
		s.authenticated(s.handleCreateBook).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request, identity token.Identity) {
	var in app.BookInput
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	book, err := s.app.CreateBook(identity.UserID, in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

// /books/{id}: GET is public; PUT and DELETE require the owner, and a
// mismatch is indistinguishable from a missing book.
func (s *Server) handleBookByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/books/")
	if id == "" || strings.Contains(id, "/") {
		notFound(w)
		return
	}
	switch r.Method {
	case http.MethodGet:
		book, err := s.app.GetBook(id)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, book)
	case http.MethodPut:
		s.authenticated(func(w http.ResponseWriter, r *http.Request, identity token.Identity) {
			var in app.BookInput
			if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&in); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			book, err := s.app.UpdateBook(id, identity.UserID, in)
			if err != nil {
				writeAppError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, book)
		}).ServeHTTP(w, r)
	case http.MethodDelete:
		s.authenticated(func(w http.ResponseWriter, r *http.Request, identity token.Identity) {
			ok, err := s.app.DeleteBook(id, identity.UserID)
			if err != nil {
				writeAppError(w, r, err)
				return
			}
			if !ok {
				notFound(w)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		}).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	categories, err := s.app.ListCategories()
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleMyBooks(w http.ResponseWriter, r *http.Request, identity token.Identity) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	filter, err := parseBookFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid price filter")
		return
	}
	books, err := s.app.ListMyBooks(identity.UserID, filter)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": books, "count": len(books)})
}

func (s *Server) handleMyStats(w http.ResponseWriter, r *http.Request, identity token.Identity) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	stats, err := s.app.OwnerStats(r.Context(), identity.UserID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
