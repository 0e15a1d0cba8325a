package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"stockmana/internal/models"
)

// InMemoryStore is a Store kept in process memory. Transactions are
// serialized and roll back by restoring a snapshot.
type InMemoryStore struct {
	txMu sync.Mutex

	mu       sync.Mutex
	users    map[string]models.User
	resets   map[string]models.PasswordResetToken
	products map[string]models.Product
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:    map[string]models.User{},
		resets:   map[string]models.PasswordResetToken{},
		products: map[string]models.Product{},
	}
}

func (s *InMemoryStore) Users() UserRepository                   { return memUsers{s} }
func (s *InMemoryStore) PasswordResets() PasswordResetRepository { return memResets{s} }
func (s *InMemoryStore) Products() ProductRepository             { return memProducts{s} }

func (s *InMemoryStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	users, resets, products := clone(s.users), clone(s.resets), clone(s.products)
	s.mu.Unlock()

	if err := fn(ctx, s); err != nil {
		s.mu.Lock()
		s.users, s.resets, s.products = users, resets, products
		s.mu.Unlock()
		return err
	}
	return nil
}

// ResetTokens returns the stored reset records of a user.
func (s *InMemoryStore) ResetTokens(userID string) []models.PasswordResetToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PasswordResetToken
	for _, t := range s.resets {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

func clone[T any](m map[string]T) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type memUsers struct{ s *InMemoryStore }

func (r memUsers) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return ErrEmailTaken
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r memUsers) UpdateProfile(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	u.Username, u.Bio, u.Phone, u.ImageURL = user.Username, user.Bio, user.Phone, user.ImageURL
	u.UpdatedAt = time.Now().UTC()
	user.UpdatedAt = u.UpdatedAt
	r.s.users[u.ID] = u
	return nil
}

func (r memUsers) UpdatePasswordHash(_ context.Context, userID string, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	r.s.users[userID] = u
	return nil
}

type memResets struct{ s *InMemoryStore }

func (r memResets) Create(_ context.Context, token *models.PasswordResetToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.resets[token.ID] = *token
	return nil
}

func (r memResets) DeleteByUserID(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.s.resets {
		if t.UserID == userID {
			delete(r.s.resets, id)
		}
	}
	return nil
}

func (r memResets) GetValidByTokenHash(_ context.Context, tokenHash string, now time.Time) (*models.PasswordResetToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.resets {
		if t.TokenHash == tokenHash && t.ExpiresAt.After(now) {
			return &t, nil
		}
	}
	return nil, ErrResetTokenNotFound
}

func (r memResets) DeleteByID(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.resets[id]; !ok {
		return ErrResetTokenNotFound
	}
	delete(r.s.resets, id)
	return nil
}

type memProducts struct{ s *InMemoryStore }

func (r memProducts) Create(_ context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	product.UpdatedAt = product.CreatedAt
	r.s.products[product.ID] = *product
	return nil
}

func (r memProducts) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (r memProducts) ListByUser(_ context.Context, userID string) ([]models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Product
	for _, p := range r.s.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memProducts) Update(_ context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[product.ID]
	if !ok {
		return ErrProductNotFound
	}
	p.Name, p.Category, p.Quantity, p.Price, p.Description, p.Image =
		product.Name, product.Category, product.Quantity, product.Price, product.Description, product.Image
	p.UpdatedAt = time.Now().UTC()
	product.UpdatedAt = p.UpdatedAt
	r.s.products[p.ID] = p
	return nil
}

func (r memProducts) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r memProducts) CountOwned(_ context.Context, userID string, ids []string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok && p.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r memProducts) DeleteMany(_ context.Context, userID string, ids []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok && p.UserID == userID {
			delete(r.s.products, id)
			n++
		}
	}
	return n, nil
}
