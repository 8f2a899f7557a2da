package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coinforge/gamestore/internal/core/domain"
)

// In-memory repository fakes. The user fake guards its state with a mutex
// and implements AdjustBalance and ReplaceRefreshTokenHash with the same
// conditional semantics as the SQL, so concurrency tests exercise the real
// contract.

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*domain.User
	purchases map[uuid.UUID][]uuid.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     make(map[uuid.UUID]*domain.User),
		purchases: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email || u.Nickname == user.Nickname {
			return domain.ErrConflict
		}
	}
	u := *user
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users[user.ID] = &u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByNickname(ctx context.Context, nickname string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Nickname == nickname {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.users[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Nickname = user.Nickname
	stored.Email = user.Email
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) AdjustBalance(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.Balance+delta < 0 {
		return 0, domain.ErrInsufficientBalance
	}
	u.Balance += delta
	return u.Balance, nil
}

func (f *fakeUserRepo) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (f *fakeUserRepo) SetVerificationCode(ctx context.Context, id uuid.UUID, code string, expires time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.VerificationCode = &code
		u.VerificationExp = &expires
	}
	return nil
}

func (f *fakeUserRepo) MarkVerified(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.IsVerified = true
		u.VerificationCode = nil
		u.VerificationExp = nil
	}
	return nil
}

func (f *fakeUserRepo) SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.RefreshTokenHash = hash
	}
	return nil
}

func (f *fakeUserRepo) ReplaceRefreshTokenHash(ctx context.Context, id uuid.UUID, old, new string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.RefreshTokenHash == nil || *u.RefreshTokenHash != old {
		return false, nil
	}
	u.RefreshTokenHash = &new
	return true, nil
}

func (f *fakeUserRepo) HasPurchased(ctx context.Context, userID, gameID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.purchases[userID] {
		if id == gameID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) AddPurchasedGame(ctx context.Context, userID, gameID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.purchases[userID] {
		if id == gameID {
			return false, nil
		}
	}
	f.purchases[userID] = append(f.purchases[userID], gameID)
	return true, nil
}

func (f *fakeUserRepo) RemovePurchasedGame(ctx context.Context, userID, gameID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	owned := f.purchases[userID]
	for i, id := range owned {
		if id == gameID {
			f.purchases[userID] = append(owned[:i], owned[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeUserRepo) ListPurchasedGameIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uuid.UUID(nil), f.purchases[userID]...), nil
}

type fakeCardRepo struct {
	mu    sync.Mutex
	cards map[uuid.UUID]*domain.Card
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{cards: make(map[uuid.UUID]*domain.Card)}
}

func (f *fakeCardRepo) Create(ctx context.Context, card *domain.Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *card
	c.RegisteredAt = time.Now()
	f.cards[card.ID] = &c
	card.RegisteredAt = c.RegisteredAt
	return nil
}

func (f *fakeCardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cards[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCardRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Card
	for _, c := range f.cards {
		if c.UserID == userID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeGameRepo struct {
	mu       sync.Mutex
	games    map[uuid.UUID]*domain.Game
	credited map[uuid.UUID]bool

	creditErr error
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{
		games:    make(map[uuid.UUID]*domain.Game),
		credited: make(map[uuid.UUID]bool),
	}
}

func (f *fakeGameRepo) Create(ctx context.Context, game *domain.Game) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.games {
		if g.Title == game.Title {
			return domain.ErrConflict
		}
	}
	g := *game
	g.CreatedAt = time.Now()
	f.games[game.ID] = &g
	return nil
}

func (f *fakeGameRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[id]
	if !ok {
		return nil, nil
	}
	copied := *g
	return &copied, nil
}

func (f *fakeGameRepo) GetByTitle(ctx context.Context, title string) (*domain.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.games {
		if g.Title == title {
			copied := *g
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeGameRepo) List(ctx context.Context, limit, offset int) ([]*domain.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Game
	for _, g := range f.games {
		copied := *g
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeGameRepo) Update(ctx context.Context, game *domain.Game) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.games[game.ID]
	if !ok {
		return domain.ErrNotFound
	}
	*stored = *game
	return nil
}

func (f *fakeGameRepo) CreditEarnings(ctx context.Context, gameID uuid.UUID, amount int64, orderID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.creditErr != nil {
		return f.creditErr
	}
	if f.credited[orderID] {
		return nil
	}
	g, ok := f.games[gameID]
	if !ok {
		return domain.ErrNotFound
	}
	f.credited[orderID] = true
	g.Earnings += amount
	g.Downloads++
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*domain.Order

	createErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.orders[order.ID]; ok {
		return nil
	}
	o := *order
	f.orders[order.ID] = &o
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			copied := *o
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeRechargeRepo struct {
	mu        sync.Mutex
	recharges []*domain.Recharge
}

func newFakeRechargeRepo() *fakeRechargeRepo {
	return &fakeRechargeRepo{}
}

func (f *fakeRechargeRepo) Create(ctx context.Context, recharge *domain.Recharge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := *recharge
	r.CreatedAt = time.Now()
	f.recharges = append(f.recharges, &r)
	return nil
}

func (f *fakeRechargeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Recharge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Recharge
	for _, r := range f.recharges {
		if r.UserID == userID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews []*domain.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{}
}

func (f *fakeReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := *review
	r.CreatedAt = time.Now()
	f.reviews = append(f.reviews, &r)
	return nil
}

func (f *fakeReviewRepo) ListByGame(ctx context.Context, gameID uuid.UUID) ([]*domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Review
	for _, r := range f.reviews {
		if r.GameID == gameID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	sends []string
	err   error
}

func (f *fakeNotifier) SendVerificationCode(ctx context.Context, email, nickname, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sends = append(f.sends, email+":"+code)
	return nil
}

func (f *fakeNotifier) lastCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sends) == 0 {
		return ""
	}
	last := f.sends[len(f.sends)-1]
	for i := len(last) - 1; i >= 0; i-- {
		if last[i] == ':' {
			return last[i+1:]
		}
	}
	return ""
}
