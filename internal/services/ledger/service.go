package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cantina/internal/models"
	"cantina/internal/repositories"
)

type service struct {
	repo    repositories.WalletRepository
	cache   CacheOperator
	metrics MetricsCollector
	config  Config
}

// NewService creates a new ledger service
func NewService(
	repo repositories.WalletRepository,
	cache CacheOperator,
	config Config,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("repo is required")
	}

	if config.RecentTransactions <= 0 {
		config.RecentTransactions = DefaultRecentTransactions
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultCacheTTL
	}

	// Cache and metrics are optional, fall back to no-op implementations.
	if cache == nil {
		cache = NoopCache{}
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		config:  config,
	}
}

func (s *service) Get(ctx context.Context, tenantID, studentID uint) (*WalletView, error) {
	key := viewCacheKey(tenantID, studentID)
	var cached WalletView
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		s.metrics.RecordCacheHit(key)
		return &cached, nil
	}
	s.metrics.RecordCacheMiss(key)

	view, err := s.loadView(tenantID, studentID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetWithTTL(ctx, key, view, s.config.CacheTTL); err != nil {
		log.Printf("failed to cache wallet view %s: %v", key, err)
	}
	return view, nil
}

func (s *service) Topup(ctx context.Context, tenantID, studentID uint, amountCents int64, requestID string, meta models.JSON) (*WalletView, error) {
	return s.apply(ctx, tenantID, studentID, models.TransactionTypeTopup, amountCents, requestID, meta)
}

func (s *service) Debit(ctx context.Context, tenantID, studentID uint, amountCents int64, requestID string, meta models.JSON) (*WalletView, error) {
	return s.apply(ctx, tenantID, studentID, models.TransactionTypeDebit, amountCents, requestID, meta)
}

func (s *service) Refund(ctx context.Context, tenantID, studentID uint, amountCents int64, requestID string, meta models.JSON) (*WalletView, error) {
	return s.apply(ctx, tenantID, studentID, models.TransactionTypeRefund, amountCents, requestID, meta)
}

func (s *service) PixCredit(ctx context.Context, tenantID, studentID uint, amountCents int64, chargeID string, meta models.JSON) (*WalletView, error) {
	if chargeID == "" {
		return nil, fmt.Errorf("%w: pix credit requires a charge id", ErrInvalidAmount)
	}
	return s.apply(ctx, tenantID, studentID, models.TransactionTypePix, amountCents, chargeID, meta)
}

// apply runs one ledger mutation as a serializable unit: wallet lookup,
// feasibility check, log append and balance write commit together. A
// duplicate request id aborts the unit before any mutation and is answered
// with the wallet's current state.
func (s *service) apply(ctx context.Context, tenantID, studentID uint, txType string, amountCents int64, requestID string, meta models.JSON) (*WalletView, error) {
	op := strings.ToLower(txType)

	if amountCents <= 0 {
		s.metrics.RecordError(op, "invalid_amount")
		return nil, ErrInvalidAmount
	}

	err := s.repo.ExecuteSerializable(func(tx repositories.WalletRepository) error {
		wallet, err := tx.GetByStudent(tenantID, studentID)
		if err != nil {
			return err
		}
		return PostEntry(tx, wallet, txType, amountCents, requestID, meta)
	})

	switch {
	case err == nil:
		s.metrics.RecordTransaction(op, amountCents)
		s.invalidateView(ctx, tenantID, studentID)
	case errors.Is(err, repositories.ErrDuplicateRequestID):
		// Idempotent replay: the entry already exists, nothing moved.
		s.metrics.RecordReplay(op)
	case errors.Is(err, repositories.ErrWalletNotFound):
		return nil, ErrWalletNotFound
	case errors.Is(err, ErrInsufficientFunds):
		s.metrics.RecordError(op, "insufficient_funds")
		return nil, ErrInsufficientFunds
	case errors.Is(err, repositories.ErrTxConflict):
		s.metrics.RecordError(op, "conflict")
		return nil, err
	default:
		s.metrics.RecordError(op, "internal")
		return nil, fmt.Errorf("%s failed: %w", op, err)
	}

	return s.loadView(tenantID, studentID)
}

func (s *service) Reconcile(ctx context.Context, tenantID, studentID uint) (*ReconcileReport, error) {
	var report ReconcileReport
	err := s.repo.ExecuteSerializable(func(tx repositories.WalletRepository) error {
		wallet, err := tx.GetByStudent(tenantID, studentID)
		if err != nil {
			return err
		}
		sum, err := tx.SumTransactions(wallet.ID)
		if err != nil {
			return err
		}
		report = ReconcileReport{
			WalletID:       wallet.ID,
			BalanceCents:   wallet.BalanceCents,
			LedgerSumCents: sum,
			Consistent:     wallet.BalanceCents == sum,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("reconcile failed: %w", err)
	}
	if !report.Consistent {
		s.metrics.RecordError("reconcile", "balance_drift")
	}
	return &report, nil
}

func (s *service) loadView(tenantID, studentID uint) (*WalletView, error) {
	wallet, err := s.repo.GetByStudent(tenantID, studentID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	txns, err := s.repo.RecentTransactions(wallet.ID, s.config.RecentTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	view := &WalletView{
		ID:           wallet.ID,
		TenantID:     wallet.TenantID,
		StudentID:    wallet.StudentID,
		BalanceCents: wallet.BalanceCents,
		Transactions: make([]TransactionView, 0, len(txns)),
	}
	for _, t := range txns {
		view.Transactions = append(view.Transactions, newTransactionView(t))
	}
	return view, nil
}

// InvalidateView drops the cached wallet view for one student.
func (s *service) InvalidateView(ctx context.Context, tenantID, studentID uint) {
	s.invalidateView(ctx, tenantID, studentID)
}

func (s *service) invalidateView(ctx context.Context, tenantID, studentID uint) {
	key := viewCacheKey(tenantID, studentID)
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Printf("failed to invalidate wallet view %s: %v", key, err)
	}
}
