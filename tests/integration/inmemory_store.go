package integration

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"credential-market/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore is a shared in-memory database backing all repos in the test app.
// Transactions are serialized: Begin takes txMu and holds it until Commit or
// Rollback, which mirrors the row-level exclusivity the real store gets from
// SELECT ... FOR UPDATE. Rollback restores the snapshot taken at Begin, so a
// failed purchase leaves no partial writes behind.
type memStore struct {
	mu   sync.RWMutex // guards the maps
	txMu sync.Mutex   // serializes transactions

	users     map[uuid.UUID]*domain.User
	goods     map[uuid.UUID]*domain.Good
	purchases map[uuid.UUID]*domain.Purchase
	games     map[uuid.UUID]*domain.Game
	reviews   map[uuid.UUID]*domain.Review
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[uuid.UUID]*domain.User),
		goods:     make(map[uuid.UUID]*domain.Good),
		purchases: make(map[uuid.UUID]*domain.Purchase),
		games:     make(map[uuid.UUID]*domain.Game),
		reviews:   make(map[uuid.UUID]*domain.Review),
	}
}

type storeSnapshot struct {
	users     map[uuid.UUID]*domain.User
	goods     map[uuid.UUID]*domain.Good
	purchases map[uuid.UUID]*domain.Purchase
	games     map[uuid.UUID]*domain.Game
	reviews   map[uuid.UUID]*domain.Review
}

func (s *memStore) snapshot() *storeSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &storeSnapshot{
		users:     make(map[uuid.UUID]*domain.User, len(s.users)),
		goods:     make(map[uuid.UUID]*domain.Good, len(s.goods)),
		purchases: make(map[uuid.UUID]*domain.Purchase, len(s.purchases)),
		games:     make(map[uuid.UUID]*domain.Game, len(s.games)),
		reviews:   make(map[uuid.UUID]*domain.Review, len(s.reviews)),
	}
	for id, u := range s.users {
		cp := *u
		snap.users[id] = &cp
	}
	for id, g := range s.goods {
		cp := *g
		snap.goods[id] = &cp
	}
	for id, p := range s.purchases {
		cp := *p
		snap.purchases[id] = &cp
	}
	for id, g := range s.games {
		cp := *g
		snap.games[id] = &cp
	}
	for id, r := range s.reviews {
		cp := *r
		snap.reviews[id] = &cp
	}
	return snap
}

func (s *memStore) restore(snap *storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.goods = snap.goods
	s.purchases = snap.purchases
	s.games = snap.games
	s.reviews = snap.reviews
}

// --- Transactor ---

type memTransactor struct {
	store *memStore
}

func newMemTransactor(store *memStore) *memTransactor {
	return &memTransactor{store: store}
}

func (t *memTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.store.txMu.Lock()
	return &memTx{store: t.store, snap: t.store.snapshot()}, nil
}

// memTx implements pgx.Tx over the shared store. Only Commit and Rollback
// carry behavior; repo methods ignore the tx handle because the transactor
// already serializes writers.
type memTx struct {
	store *memStore
	snap  *storeSnapshot
	done  bool
	mu    sync.Mutex
}

func (t *memTx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.store.txMu.Unlock()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.store.restore(t.snap)
	t.store.txMu.Unlock()
	return nil
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *memTx) Conn() *pgx.Conn { return nil }

// --- User Repo ---

type memUserRepo struct {
	store *memStore
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.users {
		if existing.Login == user.Login || existing.Email == user.Email {
			return fmt.Errorf("login or email already exists")
		}
	}
	cp := *user
	r.store.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByLoginOrEmail(ctx context.Context, login, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if u.Login == login || u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.User, error) {
	return r.GetByID(ctx, id)
}

func (r *memUserRepo) DebitBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok || u.Balance < amount {
		return false, nil
	}
	u.Balance -= amount
	return true, nil
}

func (r *memUserRepo) CreditBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return false, nil
	}
	u.Balance += amount
	return true, nil
}

func (r *memUserRepo) UpdateRole(ctx context.Context, tx pgx.Tx, id uuid.UUID, role domain.UserRole) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.Role = role
	return nil
}

func (r *memUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, description *string, avatar *string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	if description != nil {
		u.Description = description
	}
	if avatar != nil {
		u.Avatar = *avatar
	}
	cp := *u
	return &cp, nil
}

// --- Good Repo ---

type memGoodRepo struct {
	store *memStore
}

func (r *memGoodRepo) Create(ctx context.Context, good *domain.Good) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *good
	r.store.goods[good.ID] = &cp
	return nil
}

func (r *memGoodRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Good, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	g, ok := r.store.goods[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (r *memGoodRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Good, error) {
	return r.GetByID(ctx, id)
}

func (r *memGoodRepo) GetOffer(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	g, ok := r.store.goods[id]
	if !ok {
		return nil, nil
	}
	offer := &domain.Offer{Good: *g}
	if seller, ok := r.store.users[g.SellerID]; ok {
		offer.SellerLogin = seller.Login
		offer.SellerRate = seller.Rate
		offer.SellerAvatar = seller.Avatar
	}
	if game, ok := r.store.games[g.GameID]; ok {
		offer.GameImage = game.Image
	}
	return offer, nil
}

func (r *memGoodRepo) ListByGame(ctx context.Context, gameID uuid.UUID) ([]domain.Good, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var result []domain.Good
	for _, g := range r.store.goods {
		if g.GameID == gameID && g.Visibility == domain.VisibilityListed {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (r *memGoodRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Good, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var result []domain.Good
	for _, g := range r.store.goods {
		if g.SellerID == sellerID && g.Visibility == domain.VisibilityListed {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (r *memGoodRepo) MarkSold(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	g, ok := r.store.goods[id]
	if !ok || g.Visibility != domain.VisibilityListed {
		return false, nil
	}
	g.Visibility = domain.VisibilitySold
	return true, nil
}

func (r *memGoodRepo) MarkListed(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	g, ok := r.store.goods[id]
	if !ok || g.Visibility != domain.VisibilitySold {
		return false, nil
	}
	g.Visibility = domain.VisibilityListed
	return true, nil
}

func (r *memGoodRepo) HideAllBySeller(ctx context.Context, tx pgx.Tx, sellerID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, g := range r.store.goods {
		if g.SellerID == sellerID {
			g.Visibility = domain.VisibilitySold
		}
	}
	return nil
}

// --- Purchase Repo ---

type memPurchaseRepo struct {
	store *memStore
}

func (r *memPurchaseRepo) Create(ctx context.Context, tx pgx.Tx, purchase *domain.Purchase) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *purchase
	r.store.purchases[purchase.ID] = &cp
	return nil
}

func (r *memPurchaseRepo) GetByGoodID(ctx context.Context, goodID uuid.UUID) (*domain.Purchase, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, p := range r.store.purchases {
		if p.GoodID == goodID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memPurchaseRepo) GetByGoodIDTx(ctx context.Context, tx pgx.Tx, goodID uuid.UUID) (*domain.Purchase, error) {
	return r.GetByGoodID(ctx, goodID)
}

func (r *memPurchaseRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]domain.PurchaseRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var result []domain.PurchaseRecord
	for _, p := range r.store.purchases {
		if p.BuyerID == buyerID {
			result = append(result, r.toRecord(p))
		}
	}
	return result, nil
}

func (r *memPurchaseRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.PurchaseRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var result []domain.PurchaseRecord
	for _, p := range r.store.purchases {
		if p.SellerID == sellerID {
			result = append(result, r.toRecord(p))
		}
	}
	return result, nil
}

func (r *memPurchaseRepo) toRecord(p *domain.Purchase) domain.PurchaseRecord {
	rec := domain.PurchaseRecord{Purchase: *p}
	if g, ok := r.store.goods[p.GoodID]; ok {
		rec.GoodName = g.Name
	}
	return rec
}

// --- Game Repo ---

type memGameRepo struct {
	store *memStore
}

func (r *memGameRepo) Create(ctx context.Context, game *domain.Game) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *game
	r.store.games[game.ID] = &cp
	return nil
}

func (r *memGameRepo) List(ctx context.Context) ([]domain.Game, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var result []domain.Game
	for _, g := range r.store.games {
		result = append(result, *g)
	}
	return result, nil
}

func (r *memGameRepo) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.games)), nil
}

func (r *memGameRepo) SearchByName(ctx context.Context, query string) ([]domain.Game, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var result []domain.Game
	for _, g := range r.store.games {
		if strings.HasPrefix(strings.ToLower(g.Name), strings.ToLower(query)) {
			result = append(result, *g)
		}
	}
	return result, nil
}

// --- Review Repo ---

type memReviewRepo struct {
	store *memStore
}

func (r *memReviewRepo) Upsert(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, existing := range r.store.reviews {
		if existing.BuyerID == review.BuyerID && existing.GoodID == review.GoodID {
			delete(r.store.reviews, id)
			break
		}
	}
	cp := *review
	r.store.reviews[review.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memReviewRepo) Exists(ctx context.Context, buyerID, goodID uuid.UUID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, rv := range r.store.reviews {
		if rv.BuyerID == buyerID && rv.GoodID == goodID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memReviewRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var result []domain.Review
	for _, rv := range r.store.reviews {
		if rv.SellerID == sellerID {
			result = append(result, *rv)
		}
	}
	return result, nil
}
