// Package httphandler is the REST driving adapter of the bookstore: routing,
// the bearer token access guard, JSON encoding and error mapping.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/bookstore/internal/application"
	"github.com/ericfisherdev/bookstore/internal/domain/model"
	"github.com/ericfisherdev/bookstore/internal/domain/port/driven"
	"github.com/ericfisherdev/bookstore/internal/observability"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Catalog groups the stores behind the public catalog endpoints.
type Catalog struct {
	Authors driven.AuthorStore
	Genres  driven.GenreStore
	Books   driven.BookStore
}

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	auth    *application.AuthService
	users   *application.UserService
	orders  *application.OrderService
	catalog Catalog
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	auth *application.AuthService,
	users *application.UserService,
	orders *application.OrderService,
	catalog Catalog,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		auth:    auth,
		users:   users,
		orders:  orders,
		catalog: catalog,
		metrics: metrics,
		logger:  logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with metrics, logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	admin := func(next http.HandlerFunc) http.HandlerFunc { return h.requireRole(model.RoleAdmin, next) }

	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.Handle("GET /metrics", h.metrics.Handler())

	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
	mux.HandleFunc("GET /api/v1/auth/me", h.requireAuth(h.Me))

	mux.HandleFunc("POST /api/v1/users", h.RegisterUser)
	mux.HandleFunc("GET /api/v1/users", admin(h.ListUsers))
	mux.HandleFunc("GET /api/v1/users/{id}", h.requireAuth(h.GetUser))
	mux.HandleFunc("PATCH /api/v1/users/{id}", h.requireAuth(h.UpdateUser))
	mux.HandleFunc("DELETE /api/v1/users/{id}", h.requireAuth(h.DeleteUser))

	mux.HandleFunc("GET /api/v1/authors", h.ListAuthors)
	mux.HandleFunc("POST /api/v1/authors", admin(h.CreateAuthor))
	mux.HandleFunc("GET /api/v1/authors/{id}", h.GetAuthor)
	mux.HandleFunc("PATCH /api/v1/authors/{id}", admin(h.UpdateAuthor))
	mux.HandleFunc("DELETE /api/v1/authors/{id}", admin(h.DeleteAuthor))
	mux.HandleFunc("GET /api/v1/authors/{id}/books", h.ListAuthorBooks)

	mux.HandleFunc("GET /api/v1/genres", h.ListGenres)
	mux.HandleFunc("POST /api/v1/genres", admin(h.CreateGenre))
	mux.HandleFunc("GET /api/v1/genres/{id}", h.GetGenre)
	mux.HandleFunc("PATCH /api/v1/genres/{id}", admin(h.UpdateGenre))
	mux.HandleFunc("DELETE /api/v1/genres/{id}", admin(h.DeleteGenre))
	mux.HandleFunc("GET /api/v1/genres/{id}/books", h.ListGenreBooks)

	mux.HandleFunc("GET /api/v1/books", h.ListBooks)
	mux.HandleFunc("POST /api/v1/books", admin(h.CreateBook))
	mux.HandleFunc("GET /api/v1/books/{id}", h.GetBook)
	mux.HandleFunc("PATCH /api/v1/books/{id}", admin(h.UpdateBook))
	mux.HandleFunc("DELETE /api/v1/books/{id}", admin(h.DeleteBook))
	mux.HandleFunc("GET /api/v1/books/{id}/genres", h.ListBookGenres)

	mux.HandleFunc("GET /api/v1/orders", h.requireAuth(h.ListOrders))
	mux.HandleFunc("POST /api/v1/orders", h.requireAuth(h.CreateOrder))
	mux.HandleFunc("GET /api/v1/orders/{id}", h.requireAuth(h.GetOrder))
	mux.HandleFunc("PATCH /api/v1/orders/{id}", admin(h.UpdateOrder))
	mux.HandleFunc("DELETE /api/v1/orders/{id}", h.requireAuth(h.DeleteOrder))

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = metricsMiddleware(h.metrics, wrapped)

	return wrapped
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// decodeBody decodes a JSON request body into v and writes 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// pathID parses the {id} path value and writes 400 when it is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// parsePage reads the skip and take query parameters. Missing or malformed
// values fall back to the defaults applied by model.NewPage.
func parsePage(r *http.Request) model.Page {
	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	take, _ := strconv.Atoi(q.Get("take"))
	return model.NewPage(skip, take)
}

// principal returns the principal attached by requireAuth.
func principal(r *http.Request) model.Principal {
	p, _ := PrincipalFromContext(r.Context())
	return p
}

// writeServiceError maps application and store errors to HTTP responses.
// Unknown errors are logged and reported as 500 without detail.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, msg string, args ...any) {
	var verr *application.ValidationError

	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, application.ErrInvalidOrder):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrUnauthenticated):
		writeUnauthenticated(w)
	case errors.Is(err, application.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, application.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, driven.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, driven.ErrAuthorNotFound):
		writeError(w, http.StatusNotFound, "author not found")
	case errors.Is(err, driven.ErrGenreNotFound):
		writeError(w, http.StatusNotFound, "genre not found")
	case errors.Is(err, driven.ErrBookNotFound):
		writeError(w, http.StatusNotFound, "book not found")
	case errors.Is(err, driven.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, driven.ErrUserAlreadyExists):
		writeError(w, http.StatusConflict, "user already exists")
	case errors.Is(err, driven.ErrGenreAlreadyExists):
		writeError(w, http.StatusConflict, "genre already exists")
	case errors.Is(err, driven.ErrBookAlreadyExists):
		writeError(w, http.StatusConflict, "book already exists")
	case errors.Is(err, driven.ErrBookInUse):
		writeError(w, http.StatusConflict, "book is referenced by orders")
	default:
		h.logger.Error(msg, append(args, "error", err)...)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
