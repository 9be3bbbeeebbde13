package order

import (
	"context"
	"sync"
	"testing"

	"cantina/internal/models"
	"cantina/internal/repositories"
	"cantina/internal/services/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore backs both the order and wallet repository interfaces with one
// in-memory state, so an atomic unit sees and rolls back order rows and
// ledger entries together.
type fakeStore struct {
	unitMu sync.Mutex
	mu     sync.Mutex

	nextWalletID uint
	nextTxnID    uint
	nextOrderID  uint
	wallets      []models.Wallet
	txns         []models.WalletTransaction
	orders       []models.Order
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) seedWallet(tenantID, studentID uint, balanceCents int64) uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextWalletID++
	f.wallets = append(f.wallets, models.Wallet{
		ID:           f.nextWalletID,
		TenantID:     tenantID,
		StudentID:    studentID,
		BalanceCents: balanceCents,
	})
	return f.nextWalletID
}

// WalletRepository

func (f *fakeStore) Create(wallet *models.Wallet) error {
	wallet.ID = f.seedWallet(wallet.TenantID, wallet.StudentID, wallet.BalanceCents)
	return nil
}

func (f *fakeStore) GetByStudent(tenantID, studentID uint) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.wallets {
		if w.TenantID == tenantID && w.StudentID == studentID {
			copied := w
			return &copied, nil
		}
	}
	return nil, repositories.ErrWalletNotFound
}

func (f *fakeStore) AdjustBalance(walletID uint, deltaCents int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.wallets {
		if f.wallets[i].ID == walletID {
			f.wallets[i].BalanceCents += deltaCents
			return nil
		}
	}
	return repositories.ErrWalletNotFound
}

func (f *fakeStore) CreateTransaction(txn *models.WalletTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if txn.RequestID != nil {
		for _, existing := range f.txns {
			if existing.TenantID == txn.TenantID &&
				existing.RequestID != nil && *existing.RequestID == *txn.RequestID {
				return repositories.ErrDuplicateRequestID
			}
		}
	}
	f.nextTxnID++
	txn.ID = f.nextTxnID
	f.txns = append(f.txns, *txn)
	return nil
}

func (f *fakeStore) FindTransactionByRequestID(tenantID uint, requestID string) (*models.WalletTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, txn := range f.txns {
		if txn.TenantID == tenantID && txn.RequestID != nil && *txn.RequestID == requestID {
			copied := txn
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) RecentTransactions(walletID uint, limit int) ([]models.WalletTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.WalletTransaction
	for i := len(f.txns) - 1; i >= 0 && len(out) < limit; i-- {
		if f.txns[i].WalletID == walletID {
			out = append(out, f.txns[i])
		}
	}
	return out, nil
}

func (f *fakeStore) SumTransactions(walletID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for i := range f.txns {
		if f.txns[i].WalletID == walletID {
			sum += f.txns[i].SignedAmount()
		}
	}
	return sum, nil
}

func (f *fakeStore) ExecuteSerializable(fn func(tx repositories.WalletRepository) error) error {
	return f.runUnit(func() error { return fn(f) })
}

// OrderRepository

func (f *fakeStore) CreateOrder(order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextOrderID++
	order.ID = f.nextOrderID
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	f.orders = append(f.orders, stored)
	return nil
}

func (f *fakeStore) GetByID(tenantID, orderID uint) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.TenantID == tenantID && o.ID == orderID {
			copied := o
			copied.Items = append([]models.OrderItem(nil), o.Items...)
			return &copied, nil
		}
	}
	return nil, repositories.ErrOrderNotFound
}

func (f *fakeStore) UpdateStatus(orderID uint, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID == orderID {
			f.orders[i].Status = status
			return nil
		}
	}
	return repositories.ErrOrderNotFound
}

func (f *fakeStore) List(tenantID uint, filter repositories.OrderFilter) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.TenantID != tenantID {
			continue
		}
		if filter.StudentID != 0 && o.StudentID != filter.StudentID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		copied := o
		copied.Items = append([]models.OrderItem(nil), o.Items...)
		out = append(out, copied)
	}
	return out, nil
}

func (f *fakeStore) runUnit(fn func() error) error {
	f.unitMu.Lock()
	defer f.unitMu.Unlock()

	f.mu.Lock()
	wallets := append([]models.Wallet(nil), f.wallets...)
	txns := append([]models.WalletTransaction(nil), f.txns...)
	orders := append([]models.Order(nil), f.orders...)
	nextTxnID, nextOrderID := f.nextTxnID, f.nextOrderID
	f.mu.Unlock()

	if err := fn(); err != nil {
		f.mu.Lock()
		f.wallets = wallets
		f.txns = txns
		f.orders = orders
		f.nextTxnID = nextTxnID
		f.nextOrderID = nextOrderID
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeStore) transactionCount(walletID uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for i := range f.txns {
		if f.txns[i].WalletID == walletID {
			n++
		}
	}
	return n
}

// orderRepoView adapts fakeStore to OrderRepository: the interface's Create
// collides with WalletRepository's, so the order-side methods go through
// this thin wrapper.
type orderRepoView struct {
	*fakeStore
}

func (v orderRepoView) Create(order *models.Order) error {
	return v.CreateOrder(order)
}

func (v orderRepoView) ExecuteSerializable(fn func(orders repositories.OrderRepository, wallets repositories.WalletRepository) error) error {
	return v.runUnit(func() error { return fn(v, v.fakeStore) })
}

// fakePrices resolves prices from a fixed active-catalog map.
type fakePrices struct {
	active map[uint]int64
}

func (p fakePrices) ActivePrices(_ context.Context, _ uint, itemIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(itemIDs))
	for _, id := range itemIDs {
		if price, ok := p.active[id]; ok {
			out[id] = price
		}
	}
	return out, nil
}

type recordingInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (r *recordingInvalidator) InvalidateView(context.Context, uint, uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
}

func newTestCoordinator(store *fakeStore, prices map[uint]int64) Service {
	return NewService(orderRepoView{store}, fakePrices{active: prices}, nil)
}

func TestOrderService_Create(t *testing.T) {
	catalog := map[uint]int64{10: 600, 11: 450}

	t.Run("freezes prices and debits atomically", func(t *testing.T) {
		store := newFakeStore()
		walletID := store.seedWallet(1, 7, 2000)
		svc := newTestCoordinator(store, catalog)

		result, err := svc.Create(context.Background(), 1, CreateOrderInput{
			StudentID: 7,
			Items: []OrderItemInput{
				{ItemID: 10, Qty: 2},
				{ItemID: 11, Qty: 1},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1650), result.TotalCents)
		assert.Equal(t, models.OrderStatusPaid, result.Order.Status)
		require.Len(t, result.Order.Items, 2)
		assert.Equal(t, int64(600), result.Order.Items[0].UnitPriceCents)
		assert.Equal(t, int64(450), result.Order.Items[1].UnitPriceCents)

		wallet, err := store.GetByStudent(1, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(350), wallet.BalanceCents)

		// Exactly one debit, tagged with the order it paid for.
		assert.Equal(t, 1, store.transactionCount(walletID))
		txns, err := store.RecentTransactions(walletID, 10)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionTypeDebit, txns[0].Type)
		assert.Equal(t, int64(1650), txns[0].AmountCents)
		assert.Equal(t, result.Order.ID, txns[0].Meta["orderId"])
	})

	t.Run("insufficient funds leaves no order behind", func(t *testing.T) {
		store := newFakeStore()
		walletID := store.seedWallet(1, 7, 500)
		svc := newTestCoordinator(store, catalog)

		_, err := svc.Create(context.Background(), 1, CreateOrderInput{
			StudentID: 7,
			Items:     []OrderItemInput{{ItemID: 10, Qty: 1}},
		})
		assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

		orders, err := store.List(1, repositories.OrderFilter{})
		require.NoError(t, err)
		assert.Empty(t, orders)
		assert.Zero(t, store.transactionCount(walletID))

		wallet, err := store.GetByStudent(1, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(500), wallet.BalanceCents)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		store := newFakeStore()
		store.seedWallet(1, 7, 2000)
		svc := newTestCoordinator(store, catalog)

		cases := []CreateOrderInput{
			{StudentID: 0, Items: []OrderItemInput{{ItemID: 10, Qty: 1}}},
			{StudentID: 7},
			{StudentID: 7, Items: []OrderItemInput{{ItemID: 10, Qty: 0}}},
			{StudentID: 7, Items: []OrderItemInput{{ItemID: 0, Qty: 1}}},
			// Unknown or inactive item.
			{StudentID: 7, Items: []OrderItemInput{{ItemID: 99, Qty: 1}}},
			// One good line does not rescue a bad one.
			{StudentID: 7, Items: []OrderItemInput{{ItemID: 10, Qty: 1}, {ItemID: 99, Qty: 1}}},
		}
		for _, input := range cases {
			_, err := svc.Create(context.Background(), 1, input)
			assert.ErrorIs(t, err, ErrInvalidItems)
		}
	})

	t.Run("missing wallet", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestCoordinator(store, catalog)

		_, err := svc.Create(context.Background(), 1, CreateOrderInput{
			StudentID: 7,
			Items:     []OrderItemInput{{ItemID: 10, Qty: 1}},
		})
		assert.ErrorIs(t, err, ledger.ErrWalletNotFound)
	})

	t.Run("notifies the view invalidator", func(t *testing.T) {
		store := newFakeStore()
		store.seedWallet(1, 7, 2000)
		views := &recordingInvalidator{}
		svc := NewService(orderRepoView{store}, fakePrices{active: catalog}, views)

		_, err := svc.Create(context.Background(), 1, CreateOrderInput{
			StudentID: 7,
			Items:     []OrderItemInput{{ItemID: 10, Qty: 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, views.calls)
	})
}

func TestOrderService_Fulfill(t *testing.T) {
	catalog := map[uint]int64{10: 600}
	store := newFakeStore()
	store.seedWallet(1, 7, 2000)
	svc := newTestCoordinator(store, catalog)

	result, err := svc.Create(context.Background(), 1, CreateOrderInput{
		StudentID: 7,
		Items:     []OrderItemInput{{ItemID: 10, Qty: 1}},
	})
	require.NoError(t, err)

	fulfilled, err := svc.Fulfill(context.Background(), 1, result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusFulfilled, fulfilled.Status)

	// FULFILLED is terminal: no second fulfill, no cancel.
	_, err = svc.Fulfill(context.Background(), 1, result.Order.ID)
	assert.ErrorIs(t, err, ErrInvalidOrderState)
	_, err = svc.Cancel(context.Background(), 1, result.Order.ID, 42)
	assert.ErrorIs(t, err, ErrInvalidOrderState)

	_, err = svc.Fulfill(context.Background(), 1, 999)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// Another tenant cannot see the order.
	_, err = svc.Fulfill(context.Background(), 2, result.Order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_Cancel(t *testing.T) {
	catalog := map[uint]int64{10: 600, 11: 450}

	t.Run("refunds the frozen total exactly once", func(t *testing.T) {
		store := newFakeStore()
		walletID := store.seedWallet(1, 7, 2000)
		svc := newTestCoordinator(store, catalog)

		result, err := svc.Create(context.Background(), 1, CreateOrderInput{
			StudentID: 7,
			Items:     []OrderItemInput{{ItemID: 10, Qty: 1}, {ItemID: 11, Qty: 2}},
		})
		require.NoError(t, err)
		require.Equal(t, int64(1500), result.TotalCents)

		// Catalog price changes after creation must not touch the refund.
		catalogAfter := map[uint]int64{10: 9999, 11: 9999}
		svc = newTestCoordinator(store, catalogAfter)

		cancelled, err := svc.Cancel(context.Background(), 1, result.Order.ID, 42)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)

		wallet, err := store.GetByStudent(1, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(2000), wallet.BalanceCents)

		// One debit, one refund; the refund carries the deterministic key
		// and the cancellation metadata.
		assert.Equal(t, 2, store.transactionCount(walletID))
		txns, err := store.RecentTransactions(walletID, 10)
		require.NoError(t, err)
		refund := txns[0]
		assert.Equal(t, models.TransactionTypeRefund, refund.Type)
		assert.Equal(t, int64(1500), refund.AmountCents)
		require.NotNil(t, refund.RequestID)
		assert.Equal(t, refundRequestID(result.Order.ID), *refund.RequestID)
		assert.Equal(t, "ORDER_CANCELLED", refund.Meta["reason"])
		assert.Equal(t, uint(42), refund.Meta["actorId"])

		// Second cancel: idempotent no-op, still CANCELLED, no second refund.
		again, err := svc.Cancel(context.Background(), 1, result.Order.ID, 42)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, again.Status)
		assert.Equal(t, 2, store.transactionCount(walletID))

		wallet, err = store.GetByStudent(1, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(2000), wallet.BalanceCents)
	})

	t.Run("order round trip leaves a consistent ledger", func(t *testing.T) {
		store := newFakeStore()
		walletID := store.seedWallet(1, 7, 0)
		svc := newTestCoordinator(store, catalog)

		// Fund the wallet through the ledger so the full log sums to the
		// balance at every step.
		require.NoError(t, ledgerTopup(store, 1, 7, 1000))

		result, err := svc.Create(context.Background(), 1, CreateOrderInput{
			StudentID: 7,
			Items:     []OrderItemInput{{ItemID: 10, Qty: 1}},
		})
		require.NoError(t, err)

		wallet, err := store.GetByStudent(1, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(400), wallet.BalanceCents)

		_, err = svc.Cancel(context.Background(), 1, result.Order.ID, 42)
		require.NoError(t, err)

		wallet, err = store.GetByStudent(1, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), wallet.BalanceCents)

		sum, err := store.SumTransactions(walletID)
		require.NoError(t, err)
		assert.Equal(t, wallet.BalanceCents, sum)
	})

	t.Run("concurrent cancels refund once", func(t *testing.T) {
		store := newFakeStore()
		walletID := store.seedWallet(1, 7, 2000)
		svc := newTestCoordinator(store, catalog)

		result, err := svc.Create(context.Background(), 1, CreateOrderInput{
			StudentID: 7,
			Items:     []OrderItemInput{{ItemID: 10, Qty: 1}},
		})
		require.NoError(t, err)

		const workers = 8
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.Cancel(context.Background(), 1, result.Order.ID, 42)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		wallet, err := store.GetByStudent(1, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(2000), wallet.BalanceCents)
		assert.Equal(t, 2, store.transactionCount(walletID))
	})

	t.Run("unknown order", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestCoordinator(store, catalog)
		_, err := svc.Cancel(context.Background(), 1, 999, 42)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestOrderService_List(t *testing.T) {
	catalog := map[uint]int64{10: 600}
	store := newFakeStore()
	store.seedWallet(1, 7, 5000)
	store.seedWallet(1, 8, 5000)
	svc := newTestCoordinator(store, catalog)

	for _, studentID := range []uint{7, 7, 8} {
		_, err := svc.Create(context.Background(), 1, CreateOrderInput{
			StudentID: studentID,
			Items:     []OrderItemInput{{ItemID: 10, Qty: 1}},
		})
		require.NoError(t, err)
	}
	first, err := svc.List(context.Background(), 1, repositories.OrderFilter{StudentID: 7})
	require.NoError(t, err)
	require.Len(t, first, 2)

	_, err = svc.Cancel(context.Background(), 1, first[0].ID, 42)
	require.NoError(t, err)

	paid, err := svc.List(context.Background(), 1, repositories.OrderFilter{Status: models.OrderStatusPaid})
	require.NoError(t, err)
	assert.Len(t, paid, 2)

	cancelled, err := svc.List(context.Background(), 1, repositories.OrderFilter{StudentID: 7, Status: models.OrderStatusCancelled})
	require.NoError(t, err)
	assert.Len(t, cancelled, 1)

	other, err := svc.List(context.Background(), 2, repositories.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, other)
}

// ledgerTopup funds a wallet through the same entry path the ledger service
// uses, keeping the log consistent with the balance.
func ledgerTopup(store *fakeStore, tenantID, studentID uint, amountCents int64) error {
	return store.ExecuteSerializable(func(tx repositories.WalletRepository) error {
		wallet, err := tx.GetByStudent(tenantID, studentID)
		if err != nil {
			return err
		}
		return ledger.PostEntry(tx, wallet, models.TransactionTypeTopup, amountCents, "seed-topup", nil)
	})
}
