package application_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/ericfisherdev/bookstore/internal/domain/model"
	"github.com/ericfisherdev/bookstore/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockUserStore struct {
	mu      sync.Mutex
	users   map[int64]model.User
	nextID  int64
	findErr error
}

func newMockUserStore(users ...model.User) *mockUserStore {
	m := &mockUserStore{users: make(map[int64]model.User)}
	for _, u := range users {
		m.users[u.ID] = u
		if u.ID > m.nextID {
			m.nextID = u.ID
		}
	}
	return m
}

func (m *mockUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return model.User{}, driven.ErrUserAlreadyExists
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = user
	return user, nil
}

func (m *mockUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, driven.ErrUserNotFound
}

func (m *mockUserStore) FindByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, driven.ErrUserNotFound
	}
	return &u, nil
}

func (m *mockUserStore) List(_ context.Context, _ model.Page) ([]model.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.users))
	for id := int64(1); id <= m.nextID; id++ {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, len(out), nil
}

func (m *mockUserStore) Update(_ context.Context, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return model.User{}, driven.ErrUserNotFound
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *mockUserStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return driven.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

// mockHasher produces reversible digests so tests stay fast, and counts Verify
// calls to observe the dummy comparison.
type mockHasher struct {
	mu       sync.Mutex
	verifies int
	hashErr  error
}

func (h *mockHasher) Hash(plaintext string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + plaintext, nil
}

func (h *mockHasher) Verify(plaintext, digest string) bool {
	h.mu.Lock()
	h.verifies++
	h.mu.Unlock()
	return strings.HasPrefix(digest, "hashed:") && strings.TrimPrefix(digest, "hashed:") == plaintext
}

func (h *mockHasher) verifyCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.verifies
}

// mockTokens encodes claims as "token:<id>:<role>".
type mockTokens struct {
	issueErr error
}

func (m *mockTokens) Issue(user model.User) (string, error) {
	if m.issueErr != nil {
		return "", m.issueErr
	}
	return "token:" + strconv.FormatInt(user.ID, 10) + ":" + string(user.Role), nil
}

func (m *mockTokens) Verify(token string) (model.Claims, error) {
	if token == "expired" {
		return model.Claims{}, driven.ErrTokenExpired
	}
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "token" {
		return model.Claims{}, driven.ErrTokenInvalid
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return model.Claims{}, driven.ErrTokenInvalid
	}
	return model.Claims{SubjectID: id, Role: model.Role(parts[2])}, nil
}

type mockBookStore struct {
	books map[int64]model.Book
	err   error
}

func (m *mockBookStore) Create(_ context.Context, book model.Book, _ []int64) (model.Book, error) {
	return book, nil
}

func (m *mockBookStore) GetByID(_ context.Context, id int64) (*model.Book, error) {
	if m.err != nil {
		return nil, m.err
	}
	b, ok := m.books[id]
	if !ok {
		return nil, driven.ErrBookNotFound
	}
	return &b, nil
}

func (m *mockBookStore) List(_ context.Context, _ model.Page) ([]model.Book, int, error) {
	return nil, 0, nil
}

func (m *mockBookStore) Update(_ context.Context, _ int64, _ model.BookUpdate) (model.Book, error) {
	return model.Book{}, errors.New("not implemented")
}

func (m *mockBookStore) Delete(_ context.Context, _ int64) error { return nil }

func (m *mockBookStore) ListByAuthor(_ context.Context, _ int64) ([]model.Book, error) {
	return nil, nil
}

func (m *mockBookStore) ListByGenre(_ context.Context, _ int64) ([]model.Book, error) {
	return nil, nil
}

func (m *mockBookStore) GenresOf(_ context.Context, _ int64) ([]model.Genre, error) {
	return nil, nil
}

type mockOrderStore struct {
	orders  map[int64]model.Order
	nextID  int64
	created []model.Order
	deleted []int64
}

func newMockOrderStore(orders ...model.Order) *mockOrderStore {
	m := &mockOrderStore{orders: make(map[int64]model.Order)}
	for _, o := range orders {
		m.orders[o.ID] = o
		if o.ID > m.nextID {
			m.nextID = o.ID
		}
	}
	return m
}

func (m *mockOrderStore) Create(_ context.Context, order model.Order) (model.Order, error) {
	m.nextID++
	order.ID = m.nextID
	m.orders[order.ID] = order
	m.created = append(m.created, order)
	return order, nil
}

func (m *mockOrderStore) GetByID(_ context.Context, id int64) (*model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, driven.ErrOrderNotFound
	}
	return &o, nil
}

func (m *mockOrderStore) ListAll(_ context.Context) ([]model.Order, error) {
	out := make([]model.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *mockOrderStore) ListByUser(_ context.Context, userID int64) ([]model.Order, error) {
	var out []model.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderStore) UpdateStatus(_ context.Context, id int64, status model.OrderStatus) (model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return model.Order{}, driven.ErrOrderNotFound
	}
	o.Status = status
	m.orders[id] = o
	return o, nil
}

func (m *mockOrderStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.orders[id]; !ok {
		return driven.ErrOrderNotFound
	}
	delete(m.orders, id)
	m.deleted = append(m.deleted, id)
	return nil
}
