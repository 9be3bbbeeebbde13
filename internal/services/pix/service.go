// Package pix handles the Pix top-up lifecycle: charge creation against the
// tenant's configured provider and webhook confirmation. The confirmation
// path credits the wallet through the ledger using the provider-assigned
// charge id as the idempotency key, so replayed webhooks are harmless.
package pix

import (
	"context"
	"errors"
	"fmt"

	"cantina/internal/models"
	"cantina/internal/repositories"
	"cantina/internal/services/ledger"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount      = errors.New("charge amount must be positive")
	ErrChargeNotFound     = errors.New("pix charge not found")
	ErrProviderConfigured = errors.New("tenant has no pix provider configured")
)

type Service interface {
	CreateCharge(ctx context.Context, tenant *models.Tenant, studentID uint, amountCents int64) (*Charge, error)
	Confirm(ctx context.Context, chargeID string) (*ConfirmResult, error)
}

type service struct {
	repo   repositories.PixRepository
	ledger ledger.Service
}

func NewService(repo repositories.PixRepository, ledgerService ledger.Service) Service {
	if repo == nil {
		panic("repo is required")
	}
	if ledgerService == nil {
		panic("ledger service is required")
	}
	return &service{repo: repo, ledger: ledgerService}
}

func (s *service) CreateCharge(ctx context.Context, tenant *models.Tenant, studentID uint, amountCents int64) (*Charge, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	var prefix string
	switch tenant.PixProvider {
	case models.PixProviderGerencianet:
		prefix = "gn_"
	case models.PixProviderMercadoPago:
		prefix = "mp_"
	default:
		return nil, ErrProviderConfigured
	}
	chargeID := prefix + uuid.NewString()

	record := &models.PixCharge{
		TenantID:    tenant.ID,
		StudentID:   studentID,
		ChargeID:    chargeID,
		Provider:    tenant.PixProvider,
		AmountCents: amountCents,
		Status:      models.PixChargeStatusPending,
	}
	if err := s.repo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to record pix charge: %w", err)
	}

	return &Charge{
		ChargeID:      chargeID,
		Provider:      tenant.PixProvider,
		AmountCents:   amountCents,
		StudentID:     studentID,
		CopyPasteCode: copyPasteCode(tenant.PixProvider, chargeID),
		QRCodeURL:     "https://api.qrserver.com/v1/create-qr-code/?data=" + chargeID,
		Status:        models.PixChargeStatusPending,
	}, nil
}

// Confirm is the gateway webhook path. The ledger credit is keyed by the
// charge id, so even if the paid-status update below is lost and the webhook
// replays, the wallet is credited exactly once.
func (s *service) Confirm(ctx context.Context, chargeID string) (*ConfirmResult, error) {
	charge, err := s.repo.GetByChargeID(chargeID)
	if err != nil {
		if errors.Is(err, repositories.ErrChargeNotFound) {
			return nil, ErrChargeNotFound
		}
		return nil, fmt.Errorf("failed to load pix charge: %w", err)
	}

	if charge.Status == models.PixChargeStatusPaid {
		return &ConfirmResult{ChargeID: chargeID, AlreadyProcessed: true}, nil
	}

	meta := models.JSON{"provider": charge.Provider, "chargeId": chargeID}
	if _, err := s.ledger.PixCredit(ctx, charge.TenantID, charge.StudentID, charge.AmountCents, chargeID, meta); err != nil {
		return nil, fmt.Errorf("failed to credit wallet for charge %s: %w", chargeID, err)
	}

	if err := s.repo.MarkPaid(chargeID); err != nil {
		return nil, fmt.Errorf("failed to mark charge paid: %w", err)
	}
	return &ConfirmResult{ChargeID: chargeID}, nil
}

// copyPasteCode builds a placeholder EMV payload. Real PSP integration lives
// outside this system; the shape is what the mobile client expects.
func copyPasteCode(provider, chargeID string) string {
	return fmt.Sprintf("00020126%s:%s", provider, chargeID)
}
