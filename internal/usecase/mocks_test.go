package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/google/uuid"
)

var (
	errMockStorage   = errors.New("mock storage error")
	errMockProcessor = errors.New("mock processor error")
)

// memStore: общее in-memory хранилище для фейковых репозиториев.
type memStore struct {
	mu          sync.Mutex
	nextID      int64
	products    map[int64]domain.Product
	prices      map[int64]domain.PriceSeries
	settlements map[uuid.UUID]domain.Settlement
	orders      []domain.Order
	watchlist   []domain.WatchlistEntry
	users       map[string]domain.User
	reviews     []domain.Review
	outbox      []*OutboxEvent
}

func newMemStore() *memStore {
	return &memStore{
		products:    make(map[int64]domain.Product),
		prices:      make(map[int64]domain.PriceSeries),
		settlements: make(map[uuid.UUID]domain.Settlement),
		users:       make(map[string]domain.User),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addProduct(p *domain.Product) *domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.id()
	p.CreatedAt = time.Now()
	s.products[p.ID] = *p
	if len(p.Prices) > 0 {
		s.prices[p.ID] = append(domain.PriceSeries(nil), p.Prices...)
	}
	return p
}

func (s *memStore) eventTypes() []OutboxEventType {
	s.mu.Lock()
	defer s.mu.Unlock()

	types := make([]OutboxEventType, 0, len(s.outbox))
	for _, ev := range s.outbox {
		types = append(types, ev.EventType)
	}
	return types
}

func (s *memStore) settlement(id uuid.UUID) domain.Settlement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settlements[id]
}

// fakeProductRepo implements ProductRepository
type fakeProductRepo struct {
	*memStore
	Err error
}

func (r *fakeProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	stored := *product
	stored.Prices = nil
	r.addProduct(&stored)
	return &stored, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	p, ok := r.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return &p, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return e.ErrProductNotFound
	}
	stored := *product
	stored.Prices = nil
	r.products[product.ID] = stored
	return nil
}

func (r *fakeProductRepo) UpdateStatus(ctx context.Context, product *domain.Product) error {
	return r.Update(ctx, product)
}

func (r *fakeProductRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return e.ErrProductNotFound
	}
	delete(r.products, id)
	delete(r.prices, id)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, q domain.CatalogQuery) ([]domain.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.Product
	for _, p := range r.products {
		if q.Start != nil && p.CreatedOn.Before(*q.Start) {
			continue
		}
		if q.End != nil && p.CreatedOn.After(*q.End) {
			continue
		}
		if q.Status != nil && p.Status != *q.Status {
			continue
		}
		matched = append(matched, p)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		switch {
		case q.Sort == domain.SortAsc && !matched[i].PricePerUnit.Equal(matched[j].PricePerUnit):
			return matched[i].PricePerUnit.LessThan(matched[j].PricePerUnit)
		case q.Sort == domain.SortDesc && !matched[i].PricePerUnit.Equal(matched[j].PricePerUnit):
			return matched[i].PricePerUnit.GreaterThan(matched[j].PricePerUnit)
		default:
			return matched[i].ID < matched[j].ID
		}
	})

	total := len(matched)
	from := min(q.Offset(), total)
	to := from + min(q.Limit, total-from)
	return matched[from:to], total, nil
}

func (r *fakeProductRepo) ListByVendor(_ context.Context, vendorEmail string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []domain.Product
	for _, p := range r.products {
		if p.VendorEmail == vendorEmail {
			res = append(res, p)
		}
	}
	return res, nil
}

func (r *fakeProductRepo) ListFeatured(_ context.Context, limit int) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []domain.Product
	for _, p := range r.products {
		if p.Status == domain.ProductStatusApproved {
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedOn.After(res[j].CreatedOn) })
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

// fakePriceRepo implements PriceRepository
type fakePriceRepo struct {
	*memStore
	AppendCalls int
}

func (r *fakePriceRepo) Append(_ context.Context, productID int64, sample domain.PriceSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.AppendCalls++
	if _, ok := r.products[productID]; !ok {
		return e.ErrProductNotFound
	}
	r.prices[productID] = append(r.prices[productID], sample)
	return nil
}

func (r *fakePriceRepo) Replace(_ context.Context, productID int64, series domain.PriceSeries) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[productID]; !ok {
		return e.ErrProductNotFound
	}
	r.prices[productID] = append(domain.PriceSeries(nil), series...)
	return nil
}

func (r *fakePriceRepo) Read(_ context.Context, productID int64) (domain.PriceSeries, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[productID]; !ok {
		return nil, e.ErrProductNotFound
	}
	return append(domain.PriceSeries{}, r.prices[productID]...), nil
}

// fakeSettlementRepo implements SettlementRepository
type fakeSettlementRepo struct {
	*memStore
	// UpdateErr вызывается перед каждой записью; ненулевой результат прерывает запись.
	UpdateErr func(s *domain.Settlement) error
}

func (r *fakeSettlementRepo) Create(_ context.Context, s *domain.Settlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	r.settlements[s.ID] = *s
	return nil
}

func (r *fakeSettlementRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Settlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.settlements[id]
	if !ok {
		return nil, e.ErrSettlementNotFound
	}
	return &s, nil
}

func (r *fakeSettlementRepo) Update(_ context.Context, s *domain.Settlement, from domain.SettlementState) error {
	if r.UpdateErr != nil {
		if err := r.UpdateErr(s); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.settlements[s.ID]
	if !ok {
		return e.ErrSettlementNotFound
	}
	if current.State != from {
		return domain.StateConflict(current.State)
	}
	s.UpdatedAt = time.Now()
	r.settlements[s.ID] = *s
	return nil
}

func (r *fakeSettlementRepo) ListForReconciliation(_ context.Context, limit int) ([]domain.Settlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []domain.Settlement
	for _, s := range r.settlements {
		if s.NeedsReconciliation && s.State == domain.SettlementAuthorized && len(res) < limit {
			res = append(res, s)
		}
	}
	return res, nil
}

func (r *fakeSettlementRepo) ListFlagged(_ context.Context) ([]domain.Settlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []domain.Settlement
	for _, s := range r.settlements {
		if s.NeedsReconciliation {
			res = append(res, s)
		}
	}
	return res, nil
}

// fakeOrderRepo implements OrderRepository
type fakeOrderRepo struct {
	*memStore
	CreateErr error
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if r.CreateErr != nil {
		return nil, r.CreateErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.orders {
		if o.SettlementID == order.SettlementID {
			return nil, e.Wrap(order.SettlementID.String(), e.ErrSettlementCompleted)
		}
	}
	stored := *order
	stored.ID = r.id()
	stored.CreatedAt = time.Now()
	r.orders = append(r.orders, stored)
	return &stored, nil
}

func (r *fakeOrderRepo) ListByBuyer(_ context.Context, buyerEmail string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []domain.Order
	for _, o := range r.orders {
		if o.BuyerEmail == buyerEmail {
			res = append(res, o)
		}
	}
	return res, nil
}

func (r *fakeOrderRepo) Search(_ context.Context, search string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	needle := strings.ToLower(search)
	var res []domain.Order
	for _, o := range r.orders {
		if strings.Contains(strings.ToLower(o.BuyerName), needle) || strings.Contains(strings.ToLower(o.BuyerEmail), needle) {
			res = append(res, o)
		}
	}
	return res, nil
}

func (r *fakeOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

// fakeWatchlistRepo implements WatchlistRepository
type fakeWatchlistRepo struct {
	*memStore
}

func (r *fakeWatchlistRepo) Create(_ context.Context, entry *domain.WatchlistEntry) (*domain.WatchlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.watchlist {
		if w.UserEmail == entry.UserEmail && w.ProductID == entry.ProductID {
			return nil, e.ErrAlreadyInWatchlist
		}
	}
	stored := *entry
	stored.ID = r.id()
	r.watchlist = append(r.watchlist, stored)
	return &stored, nil
}

func (r *fakeWatchlistRepo) ListByUser(_ context.Context, userEmail string) ([]domain.WatchlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []domain.WatchlistEntry
	for _, w := range r.watchlist {
		if w.UserEmail == userEmail {
			res = append(res, w)
		}
	}
	return res, nil
}

func (r *fakeWatchlistRepo) Delete(_ context.Context, id int64, userEmail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, w := range r.watchlist {
		if w.ID == id && w.UserEmail == userEmail {
			r.watchlist = append(r.watchlist[:i], r.watchlist[i+1:]...)
			return nil
		}
	}
	return e.ErrWatchlistNotFound
}

// fakeUserRepo implements UserRepository
type fakeUserRepo struct {
	*memStore
}

func (r *fakeUserRepo) Upsert(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.users[user.Email]; ok {
		return &existing, nil
	}
	stored := *user
	stored.CreatedAt = time.Now()
	r.users[user.Email] = stored
	return &stored, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[email]
	if !ok {
		return nil, e.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) Search(_ context.Context, search string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(search))
	var res []domain.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Name), needle) || strings.Contains(u.Email, needle) {
			res = append(res, u)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Email < res[j].Email })
	return res, nil
}

func (r *fakeUserRepo) UpdateName(_ context.Context, email, name string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[email]
	if !ok {
		return nil, e.ErrUserNotFound
	}
	u.Name = name
	r.users[email] = u
	return &u, nil
}

// fakeReviewRepo implements ReviewRepository
type fakeReviewRepo struct {
	*memStore
}

func (r *fakeReviewRepo) Create(_ context.Context, review *domain.Review) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[review.ProductID]; !ok {
		return nil, e.ErrProductNotFound
	}
	stored := *review
	stored.ID = r.id()
	stored.CreatedAt = time.Now()
	r.reviews = append(r.reviews, stored)
	return &stored, nil
}

func (r *fakeReviewRepo) GetByID(_ context.Context, id int64) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rv := range r.reviews {
		if rv.ID == id {
			return &rv, nil
		}
	}
	return nil, e.ErrReviewNotFound
}

func (r *fakeReviewRepo) ListByProduct(_ context.Context, productID int64) ([]domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []domain.Review
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].ProductID == productID {
			res = append(res, r.reviews[i])
		}
	}
	return res, nil
}

func (r *fakeReviewRepo) UpdateComment(_ context.Context, id int64, comment string) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.reviews {
		if r.reviews[i].ID == id {
			now := time.Now()
			r.reviews[i].Comment = comment
			r.reviews[i].UpdatedAt = &now
			updated := r.reviews[i]
			return &updated, nil
		}
	}
	return nil, e.ErrReviewNotFound
}

func (r *fakeReviewRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, rv := range r.reviews {
		if rv.ID == id {
			r.reviews = append(r.reviews[:i], r.reviews[i+1:]...)
			return nil
		}
	}
	return e.ErrReviewNotFound
}

// fakeOutboxRepo implements OutboxRepository
type fakeOutboxRepo struct {
	*memStore
	CreateErr error
}

func (r *fakeOutboxRepo) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	if r.CreateErr != nil {
		return nil, r.CreateErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	event.ID = r.id()
	r.outbox = append(r.outbox, event)
	return event, nil
}

func (r *fakeOutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []*OutboxEvent
	for _, ev := range r.outbox {
		if ev.Status == Pending && len(res) < limit {
			ev.Status = Processing
			res = append(res, ev)
		}
	}
	return res, nil
}

func (r *fakeOutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ev := range r.outbox {
		if ev.ID == id && ev.Status == Processing {
			now := time.Now()
			ev.Status = Processed
			ev.ProcessedAt = &now
		}
	}
	return nil
}

func (r *fakeOutboxRepo) MarkAsFailed(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ev := range r.outbox {
		if ev.ID == id && ev.Status == Processing {
			ev.Status = Failed
		}
	}
	return nil
}

func (r *fakeOutboxRepo) ReclaimStale(context.Context, time.Duration) (int64, error) {
	return 0, nil
}

// fakeCacheRepo implements CacheRepository
type fakeCacheRepo struct {
	mu      sync.Mutex
	items   map[int64]domain.Product
	deleted []int64
	GetErr  error
	// SetGate, если задан, задерживает запись в кэш до закрытия канала.
	SetGate chan struct{}
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{items: make(map[int64]domain.Product)}
}

func (c *fakeCacheRepo) GetProducts(_ context.Context, ids []int64) (map[int64]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.GetErr != nil {
		return nil, c.GetErr
	}
	res := make(map[int64]domain.Product)
	for _, id := range ids {
		if p, ok := c.items[id]; ok {
			res[id] = p
		}
	}
	return res, nil
}

func (c *fakeCacheRepo) SetProducts(_ context.Context, products []domain.Product) error {
	if c.SetGate != nil {
		<-c.SetGate
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range products {
		c.items[p.ID] = p
	}
	return nil
}

func (c *fakeCacheRepo) DeleteProducts(_ context.Context, ids []int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range ids {
		delete(c.items, id)
		c.deleted = append(c.deleted, id)
	}
	return nil
}

func (c *fakeCacheRepo) has(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[id]
	return ok
}

func (c *fakeCacheRepo) deletedIDs() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int64(nil), c.deleted...)
}

// fakePayment implements PaymentProcessor
type fakePayment struct {
	mu          sync.Mutex
	CreateErr   error
	Status      IntentStatus
	AmountMinor *int64
	RetrieveErr error
	Created     []*CreateIntentReq
	Retrieved   int
}

func (p *fakePayment) CreateIntent(_ context.Context, req *CreateIntentReq) (*CreateIntentRes, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Created = append(p.Created, req)
	if p.CreateErr != nil {
		return nil, p.CreateErr
	}
	return NewCreateIntentRes("pi_"+req.IdempotencyKey[:8], "secret_"+req.IdempotencyKey[:8]), nil
}

func (p *fakePayment) RetrieveIntent(_ context.Context, intentID string) (*RetrieveIntentRes, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Retrieved++
	if p.RetrieveErr != nil {
		return nil, p.RetrieveErr
	}

	status := p.Status
	if status == "" {
		status = IntentSucceeded
	}
	var amount int64
	if p.AmountMinor != nil {
		amount = *p.AmountMinor
	} else if len(p.Created) > 0 {
		amount = p.Created[len(p.Created)-1].AmountMinor
	}
	return NewRetrieveIntentRes(intentID, status, amount, "usd"), nil
}

func (p *fakePayment) createCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Created)
}

// fakeReceipts implements ReceiptArchive
type fakeReceipts struct {
	mu   sync.Mutex
	keys []string
	Err  error
}

func (r *fakeReceipts) PutReceipt(_ context.Context, order *domain.Order) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return "", r.Err
	}
	key := "receipts/" + order.TransactionID + ".json"
	r.keys = append(r.keys, key)
	return key, nil
}

// passthroughTx implements TxRunner without a database
type passthroughTx struct {
	mu    sync.Mutex
	calls int
}

func (t *passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return fn(ctx)
}
