package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/bookstore/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// LoginRequest is the JSON body for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// ListResponse is a page of items with the total number of items available.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Skip  int `json:"skip"`
	Take  int `json:"take"`
}

// UserResponse is the JSON representation of a user. The password hash is
// never part of it.
type UserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// RegisterRequest is the JSON body for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest is the JSON body for a partial user update.
type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// AuthorResponse is the JSON representation of an author.
type AuthorResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// AuthorRequest is the JSON body for creating or renaming an author.
type AuthorRequest struct {
	Name string `json:"name"`
}

// GenreResponse is the JSON representation of a genre.
type GenreResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GenreRequest is the JSON body for creating or renaming a genre.
type GenreRequest struct {
	Name string `json:"name"`
}

// BookResponse is the JSON representation of a book. DescriptionHTML is the
// sanitized rendering of the markdown description.
type BookResponse struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DescriptionHTML string          `json:"description_html"`
	PriceCents      int64           `json:"price_cents"`
	CoverImage      string          `json:"cover_image,omitempty"`
	AuthorID        int64           `json:"author_id,omitempty"`
	Author          *AuthorResponse `json:"author,omitempty"`
	Genres          []GenreResponse `json:"genres"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

// CreateBookRequest is the JSON body for creating a book.
type CreateBookRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	PriceCents  int64   `json:"price_cents"`
	CoverImage  string  `json:"cover_image"`
	AuthorID    int64   `json:"author_id"`
	GenreIDs    []int64 `json:"genre_ids"`
}

// UpdateBookRequest is the JSON body for a partial book update. A present
// genre_ids replaces the genre set.
type UpdateBookRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
	CoverImage  *string `json:"cover_image"`
	AuthorID    *int64  `json:"author_id"`
	GenreIDs    []int64 `json:"genre_ids"`
}

// OrderItemResponse is one line of an order.
type OrderItemResponse struct {
	BookID         int64 `json:"book_id"`
	Quantity       int   `json:"quantity"`
	UnitPriceCents int64 `json:"unit_price_cents"`
}

// OrderResponse is the JSON representation of an order.
type OrderResponse struct {
	ID         int64               `json:"id"`
	UserID     int64               `json:"user_id"`
	Status     string              `json:"status"`
	Items      []OrderItemResponse `json:"items"`
	TotalCents int64               `json:"total_cents"`
	CreatedAt  string              `json:"created_at"`
	UpdatedAt  string              `json:"updated_at"`
}

// OrderItemRequest is one requested line when placing an order.
type OrderItemRequest struct {
	BookID   int64 `json:"book_id"`
	Quantity int   `json:"quantity"`
}

// CreateOrderRequest is the JSON body for placing an order.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}

// UpdateOrderRequest is the JSON body for changing an order status.
type UpdateOrderRequest struct {
	Status string `json:"status"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// toUserResponse converts a domain User to its JSON response representation.
func toUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
}

// toAuthorResponse converts a domain Author to its JSON response representation.
func toAuthorResponse(a model.Author) AuthorResponse {
	return AuthorResponse{
		ID:        a.ID,
		Name:      a.Name,
		CreatedAt: formatTime(a.CreatedAt),
		UpdatedAt: formatTime(a.UpdatedAt),
	}
}

func toGenreResponses(genres []model.Genre) []GenreResponse {
	resp := make([]GenreResponse, 0, len(genres))
	for _, g := range genres {
		resp = append(resp, GenreResponse{ID: g.ID, Name: g.Name})
	}
	return resp
}

// toBookResponse converts a domain Book to its JSON response representation.
func toBookResponse(b model.Book) BookResponse {
	resp := BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Description:     b.Description,
		DescriptionHTML: RenderMarkdown(b.Description),
		PriceCents:      b.PriceCents,
		CoverImage:      b.CoverImage,
		AuthorID:        b.AuthorID,
		Genres:          toGenreResponses(b.Genres),
		CreatedAt:       formatTime(b.CreatedAt),
		UpdatedAt:       formatTime(b.UpdatedAt),
	}
	if b.Author != nil {
		author := toAuthorResponse(*b.Author)
		resp.Author = &author
	}
	return resp
}

func toBookResponses(books []model.Book) []BookResponse {
	resp := make([]BookResponse, 0, len(books))
	for _, b := range books {
		resp = append(resp, toBookResponse(b))
	}
	return resp
}

// toOrderResponse converts a domain Order to its JSON response representation.
func toOrderResponse(o model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			BookID:         item.BookID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}

	return OrderResponse{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		Items:      items,
		TotalCents: o.TotalCents,
		CreatedAt:  formatTime(o.CreatedAt),
		UpdatedAt:  formatTime(o.UpdatedAt),
	}
}
