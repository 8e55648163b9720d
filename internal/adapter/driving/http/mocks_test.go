package httphandler_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ericfisherdev/bookstore/internal/domain/model"
	"github.com/ericfisherdev/bookstore/internal/domain/port/driven"
)

// --- Mock implementations ---

// memUserStore implements driven.UserStore in memory.
type memUserStore struct {
	mu     sync.Mutex
	users  map[int64]model.User
	nextID int64
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]model.User)}
}

func (m *memUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return model.User{}, driven.ErrUserAlreadyExists
		}
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = testTime
	user.UpdatedAt = testTime
	m.users[user.ID] = user
	return user, nil
}

func (m *memUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, driven.ErrUserNotFound
}

func (m *memUserStore) FindByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, driven.ErrUserNotFound
	}
	return &u, nil
}

func (m *memUserStore) List(_ context.Context, page model.Page) ([]model.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, page), len(all), nil
}

func (m *memUserStore) Update(_ context.Context, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return model.User{}, driven.ErrUserNotFound
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memUserStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return driven.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

// memCatalog implements driven.AuthorStore, driven.GenreStore and
// driven.BookStore over shared maps so books can resolve authors and genres.
type memCatalog struct {
	mu        sync.Mutex
	authors   map[int64]model.Author
	genres    map[int64]model.Genre
	books     map[int64]model.Book
	bookGenre map[int64][]int64
	nextID    int64
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		authors:   make(map[int64]model.Author),
		genres:    make(map[int64]model.Genre),
		books:     make(map[int64]model.Book),
		bookGenre: make(map[int64][]int64),
	}
}

func (c *memCatalog) id() int64 {
	c.nextID++
	return c.nextID
}

type authorStore struct{ *memCatalog }

func (s authorStore) Create(_ context.Context, a model.Author) (model.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.id()
	a.CreatedAt, a.UpdatedAt = testTime, testTime
	s.authors[a.ID] = a
	return a, nil
}

func (s authorStore) GetByID(_ context.Context, id int64) (*model.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.authors[id]
	if !ok {
		return nil, driven.ErrAuthorNotFound
	}
	return &a, nil
}

func (s authorStore) List(_ context.Context, page model.Page) ([]model.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]model.Author, 0, len(s.authors))
	for _, a := range s.authors {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, page), nil
}

func (s authorStore) Update(_ context.Context, a model.Author) (model.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.authors[a.ID]
	if !ok {
		return model.Author{}, driven.ErrAuthorNotFound
	}
	existing.Name = a.Name
	s.authors[a.ID] = existing
	return existing, nil
}

func (s authorStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.authors[id]; !ok {
		return driven.ErrAuthorNotFound
	}
	delete(s.authors, id)
	return nil
}

type genreStore struct{ *memCatalog }

func (s genreStore) Create(_ context.Context, g model.Genre) (model.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.genres {
		if existing.Name == g.Name {
			return model.Genre{}, driven.ErrGenreAlreadyExists
		}
	}
	g.ID = s.id()
	s.genres[g.ID] = g
	return g, nil
}

func (s genreStore) GetByID(_ context.Context, id int64) (*model.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.genres[id]
	if !ok {
		return nil, driven.ErrGenreNotFound
	}
	return &g, nil
}

func (s genreStore) List(_ context.Context, page model.Page) ([]model.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]model.Genre, 0, len(s.genres))
	for _, g := range s.genres {
		all = append(all, g)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, page), nil
}

func (s genreStore) Update(_ context.Context, g model.Genre) (model.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.genres[g.ID]; !ok {
		return model.Genre{}, driven.ErrGenreNotFound
	}
	s.genres[g.ID] = g
	return g, nil
}

func (s genreStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.genres[id]; !ok {
		return driven.ErrGenreNotFound
	}
	delete(s.genres, id)
	return nil
}

type bookStore struct{ *memCatalog }

// hydrate fills Author and Genres. Callers hold the lock.
func (s bookStore) hydrate(b model.Book) model.Book {
	if a, ok := s.authors[b.AuthorID]; ok {
		b.Author = &a
	}
	b.Genres = []model.Genre{}
	for _, gid := range s.bookGenre[b.ID] {
		b.Genres = append(b.Genres, s.genres[gid])
	}
	return b
}

func (s bookStore) Create(_ context.Context, b model.Book, genreIDs []int64) (model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.authors[b.AuthorID]; !ok {
		return model.Book{}, driven.ErrAuthorNotFound
	}
	for _, gid := range genreIDs {
		if _, ok := s.genres[gid]; !ok {
			return model.Book{}, driven.ErrGenreNotFound
		}
	}
	for _, existing := range s.books {
		if existing.Title == b.Title {
			return model.Book{}, driven.ErrBookAlreadyExists
		}
	}
	b.ID = s.id()
	b.CreatedAt, b.UpdatedAt = testTime, testTime
	s.books[b.ID] = b
	s.bookGenre[b.ID] = append([]int64(nil), genreIDs...)
	return s.hydrate(b), nil
}

func (s bookStore) GetByID(_ context.Context, id int64) (*model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return nil, driven.ErrBookNotFound
	}
	b = s.hydrate(b)
	return &b, nil
}

func (s bookStore) List(_ context.Context, page model.Page) ([]model.Book, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.filter(func(model.Book) bool { return true })
	return paginate(all, page), len(all), nil
}

// filter returns hydrated books matching keep ordered by id. Callers hold the lock.
func (s bookStore) filter(keep func(model.Book) bool) []model.Book {
	out := make([]model.Book, 0, len(s.books))
	for _, b := range s.books {
		if keep(b) {
			out = append(out, s.hydrate(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s bookStore) Update(_ context.Context, id int64, u model.BookUpdate) (model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return model.Book{}, driven.ErrBookNotFound
	}
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Description != nil {
		b.Description = *u.Description
	}
	if u.PriceCents != nil {
		b.PriceCents = *u.PriceCents
	}
	if u.CoverImage != nil {
		b.CoverImage = *u.CoverImage
	}
	if u.AuthorID != nil {
		if _, ok := s.authors[*u.AuthorID]; !ok {
			return model.Book{}, driven.ErrAuthorNotFound
		}
		b.AuthorID = *u.AuthorID
	}
	if u.GenreIDs != nil {
		for _, gid := range u.GenreIDs {
			if _, ok := s.genres[gid]; !ok {
				return model.Book{}, driven.ErrGenreNotFound
			}
		}
		s.bookGenre[id] = append([]int64(nil), u.GenreIDs...)
	}
	b.UpdatedAt = testTime.Add(time.Minute)
	s.books[id] = b
	return s.hydrate(b), nil
}

func (s bookStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[id]; !ok {
		return driven.ErrBookNotFound
	}
	delete(s.books, id)
	delete(s.bookGenre, id)
	return nil
}

func (s bookStore) ListByAuthor(_ context.Context, authorID int64) ([]model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter(func(b model.Book) bool { return b.AuthorID == authorID }), nil
}

func (s bookStore) ListByGenre(_ context.Context, genreID int64) ([]model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter(func(b model.Book) bool {
		for _, gid := range s.bookGenre[b.ID] {
			if gid == genreID {
				return true
			}
		}
		return false
	}), nil
}

func (s bookStore) GenresOf(_ context.Context, bookID int64) ([]model.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[bookID]
	if !ok {
		return nil, driven.ErrBookNotFound
	}
	return s.hydrate(b).Genres, nil
}

// memOrderStore implements driven.OrderStore in memory.
type memOrderStore struct {
	mu     sync.Mutex
	orders map[int64]model.Order
	nextID int64
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{orders: make(map[int64]model.Order)}
}

func (m *memOrderStore) Create(_ context.Context, o model.Order) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	o.ID = m.nextID
	o.CreatedAt, o.UpdatedAt = testTime, testTime
	m.orders[o.ID] = o
	return o, nil
}

func (m *memOrderStore) GetByID(_ context.Context, id int64) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, driven.ErrOrderNotFound
	}
	return &o, nil
}

func (m *memOrderStore) ListAll(_ context.Context) ([]model.Order, error) {
	return m.list(func(model.Order) bool { return true }), nil
}

func (m *memOrderStore) ListByUser(_ context.Context, userID int64) ([]model.Order, error) {
	return m.list(func(o model.Order) bool { return o.UserID == userID }), nil
}

func (m *memOrderStore) list(keep func(model.Order) bool) []model.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *memOrderStore) UpdateStatus(_ context.Context, id int64, status model.OrderStatus) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return model.Order{}, driven.ErrOrderNotFound
	}
	o.Status = status
	m.orders[id] = o
	return o, nil
}

func (m *memOrderStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return driven.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

func paginate[T any](all []T, page model.Page) []T {
	if page.Skip >= len(all) {
		return []T{}
	}
	end := page.Skip + page.Take
	if end > len(all) {
		end = len(all)
	}
	return all[page.Skip:end]
}
