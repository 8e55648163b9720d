package httphandler

import (
	"errors"
	"net/http"

	"github.com/ericfisherdev/bookstore/internal/domain/model"
	"github.com/ericfisherdev/bookstore/internal/domain/port/driven"
)

// --- Authors ---

// ListAuthors returns one page of authors.
func (h *Handler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.catalog.Authors.List(r.Context(), parsePage(r))
	if err != nil {
		h.writeServiceError(w, err, "failed to list authors")
		return
	}

	resp := make([]AuthorResponse, 0, len(authors))
	for _, a := range authors {
		resp = append(resp, toAuthorResponse(a))
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateAuthor adds an author.
func (h *Handler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	var req AuthorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := minLength("name", req.Name, minAuthorNameLength); err != nil {
		h.writeServiceError(w, err, "invalid author")
		return
	}

	author, err := h.catalog.Authors.Create(r.Context(), model.Author{Name: req.Name})
	if err != nil {
		h.writeServiceError(w, err, "failed to create author")
		return
	}

	writeJSON(w, http.StatusCreated, toAuthorResponse(author))
}

// GetAuthor returns one author.
func (h *Handler) GetAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	author, err := h.catalog.Authors.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "failed to get author", "author_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toAuthorResponse(*author))
}

// UpdateAuthor renames an author.
func (h *Handler) UpdateAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req AuthorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := minLength("name", req.Name, minAuthorNameLength); err != nil {
		h.writeServiceError(w, err, "invalid author")
		return
	}

	author, err := h.catalog.Authors.Update(r.Context(), model.Author{ID: id, Name: req.Name})
	if err != nil {
		h.writeServiceError(w, err, "failed to update author", "author_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toAuthorResponse(author))
}

// DeleteAuthor removes an author. Its books stay in the catalog without an author.
func (h *Handler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.Authors.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err, "failed to delete author", "author_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAuthorBooks returns every book of an author.
func (h *Handler) ListAuthorBooks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if _, err := h.catalog.Authors.GetByID(r.Context(), id); err != nil {
		h.writeServiceError(w, err, "failed to get author", "author_id", id)
		return
	}

	books, err := h.catalog.Books.ListByAuthor(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "failed to list author books", "author_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toBookResponses(books))
}

// --- Genres ---

// ListGenres returns one page of genres.
func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.catalog.Genres.List(r.Context(), parsePage(r))
	if err != nil {
		h.writeServiceError(w, err, "failed to list genres")
		return
	}

	writeJSON(w, http.StatusOK, toGenreResponses(genres))
}

// CreateGenre adds a genre with a unique name.
func (h *Handler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req GenreRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := minLength("name", req.Name, minGenreNameLength); err != nil {
		h.writeServiceError(w, err, "invalid genre")
		return
	}

	genre, err := h.catalog.Genres.Create(r.Context(), model.Genre{Name: req.Name})
	if err != nil {
		h.writeServiceError(w, err, "failed to create genre")
		return
	}

	writeJSON(w, http.StatusCreated, GenreResponse{ID: genre.ID, Name: genre.Name})
}

// GetGenre returns one genre.
func (h *Handler) GetGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	genre, err := h.catalog.Genres.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "failed to get genre", "genre_id", id)
		return
	}

	writeJSON(w, http.StatusOK, GenreResponse{ID: genre.ID, Name: genre.Name})
}

// UpdateGenre renames a genre.
func (h *Handler) UpdateGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req GenreRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := minLength("name", req.Name, minGenreNameLength); err != nil {
		h.writeServiceError(w, err, "invalid genre")
		return
	}

	genre, err := h.catalog.Genres.Update(r.Context(), model.Genre{ID: id, Name: req.Name})
	if err != nil {
		h.writeServiceError(w, err, "failed to update genre", "genre_id", id)
		return
	}

	writeJSON(w, http.StatusOK, GenreResponse{ID: genre.ID, Name: genre.Name})
}

// DeleteGenre removes a genre and its book links.
func (h *Handler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.Genres.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err, "failed to delete genre", "genre_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListGenreBooks returns every book in a genre.
func (h *Handler) ListGenreBooks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if _, err := h.catalog.Genres.GetByID(r.Context(), id); err != nil {
		h.writeServiceError(w, err, "failed to get genre", "genre_id", id)
		return
	}

	books, err := h.catalog.Books.ListByGenre(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "failed to list genre books", "genre_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toBookResponses(books))
}

// --- Books ---

// ListBooks returns one page of books with their genres.
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	books, total, err := h.catalog.Books.List(r.Context(), page)
	if err != nil {
		h.writeServiceError(w, err, "failed to list books")
		return
	}

	writeJSON(w, http.StatusOK, ListResponse[BookResponse]{
		Items: toBookResponses(books),
		Total: total,
		Skip:  page.Skip,
		Take:  page.Take,
	})
}

// CreateBook adds a book linked to an existing author and genres.
func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateCreateBook(req); err != nil {
		h.writeServiceError(w, err, "invalid book")
		return
	}

	book, err := h.catalog.Books.Create(r.Context(), model.Book{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		CoverImage:  req.CoverImage,
		AuthorID:    req.AuthorID,
	}, req.GenreIDs)
	if err != nil {
		h.writeBookWriteError(w, err, "failed to create book")
		return
	}

	writeJSON(w, http.StatusCreated, toBookResponse(book))
}

// GetBook returns one book with its author and genres.
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	book, err := h.catalog.Books.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "failed to get book", "book_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toBookResponse(*book))
}

// UpdateBook applies a partial update.
func (h *Handler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateBookRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateUpdateBook(req); err != nil {
		h.writeServiceError(w, err, "invalid book")
		return
	}

	book, err := h.catalog.Books.Update(r.Context(), id, model.BookUpdate{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		CoverImage:  req.CoverImage,
		AuthorID:    req.AuthorID,
		GenreIDs:    req.GenreIDs,
	})
	if err != nil {
		h.writeBookWriteError(w, err, "failed to update book", "book_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toBookResponse(book))
}

// DeleteBook removes a book that no order references.
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.Books.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err, "failed to delete book", "book_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListBookGenres returns the genres of a book.
func (h *Handler) ListBookGenres(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	genres, err := h.catalog.Books.GenresOf(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "failed to list book genres", "book_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toGenreResponses(genres))
}

// writeBookWriteError reports unknown referenced authors and genres as bad
// input rather than a missing resource.
func (h *Handler) writeBookWriteError(w http.ResponseWriter, err error, msg string, args ...any) {
	switch {
	case errors.Is(err, driven.ErrAuthorNotFound):
		writeError(w, http.StatusBadRequest, "author does not exist")
	case errors.Is(err, driven.ErrGenreNotFound):
		writeError(w, http.StatusBadRequest, "genre does not exist")
	default:
		h.writeServiceError(w, err, msg, args...)
	}
}
