package services

import (
	"context"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	"github.com/bizbooks/ledger-backend/internal/dto"
)

// CurrencySvcFacade exposes currency administration and lookup.
type CurrencySvcFacade interface {
	// CreateCurrency registers a currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)

	// GetCurrencyByCode retrieves a currency by ISO code.
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)

	// ListCurrencies retrieves all known currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
