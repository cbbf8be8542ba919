package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finacct/ledgercore/internal/apperrors"
	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/core/fx"
	portsrepo "github.com/finacct/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/finacct/ledgercore/internal/core/ports/services"
	"github.com/finacct/ledgercore/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// exchangeRateService provides business logic for exchange rates and
// currency conversion. Resolution order is identity, then the direct
// pair, then the reciprocal of the inverse pair; a missing rate is an
// error, never an assumed parity.
type exchangeRateService struct {
	BaseService
	rateRepo    portsrepo.ExchangeRateRepositoryFacade
	currencySvc portssvc.CurrencySvcFacade
	resolver    *fx.Resolver
	converter   *fx.Converter
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, currencySvc portssvc.CurrencySvcFacade) portssvc.ExchangeRateSvcFacade {
	resolver := fx.NewResolver(rateRepo)
	return &exchangeRateService{
		rateRepo:    rateRepo,
		currencySvc: currencySvc,
		resolver:    resolver,
		converter:   fx.NewConverter(resolver),
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// Resolver exposes the underlying resolver for services that batch-resolve
// rates (reporting builds one rate table per report).
func (s *exchangeRateService) Resolver() *fx.Resolver {
	return s.resolver
}

// Converter exposes the underlying converter for services that convert
// amounts as part of their own flows.
func (s *exchangeRateService) Converter() *fx.Converter {
	return s.converter
}

// CreateExchangeRate handles the creation of a new exchange rate.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	// Input validation (basic format) is handled by DTO binding tags.
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if req.FromCurrencyCode == req.ToCurrencyCode {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	// Check if currencies exist
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, req.FromCurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: 'from' currency code '%s' not found", apperrors.ErrValidation, req.FromCurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate 'from' currency '%s': %w", req.FromCurrencyCode, err)
	}
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, req.ToCurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: 'to' currency code '%s' not found", apperrors.ErrValidation, req.ToCurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate 'to' currency '%s': %w", req.ToCurrencyCode, err)
	}

	now := time.Now().UTC()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		Rate:             req.Rate,
		DateEffective:    req.DateEffective,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "failed to save exchange rate",
			"from", rate.FromCurrencyCode, "to", rate.ToCurrencyCode)
		return nil, fmt.Errorf("failed to create exchange rate: %w", err)
	}

	s.LogInfo(ctx, "exchange rate created",
		"from", rate.FromCurrencyCode, "to", rate.ToCurrencyCode,
		"rate", rate.Rate.String(), "date_effective", rate.DateEffective)
	return &rate, nil
}

// ResolveRate resolves the conversion rate between two currencies as of a date.
func (s *exchangeRateService) ResolveRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*fx.Resolution, error) {
	from := strings.ToUpper(fromCurrencyCode)
	to := strings.ToUpper(toCurrencyCode)
	if len(from) != 3 || len(to) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	res, err := s.resolver.Resolve(ctx, from, to, asOf)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListRates retrieves the rate history for a currency pair.
func (s *exchangeRateService) ListRates(ctx context.Context, fromCurrencyCode, toCurrencyCode string, limit, offset int) ([]domain.ExchangeRate, error) {
	from := strings.ToUpper(fromCurrencyCode)
	to := strings.ToUpper(toCurrencyCode)
	if len(from) != 3 || len(to) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	rates, err := s.rateRepo.ListExchangeRates(ctx, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates %s->%s: %w", from, to, err)
	}
	return rates, nil
}

// ConvertAmount converts an amount between currencies at the rate effective on asOf.
func (s *exchangeRateService) ConvertAmount(ctx context.Context, amount decimal.Decimal, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*fx.Conversion, error) {
	conv, err := s.converter.Convert(ctx, amount, strings.ToUpper(fromCurrencyCode), strings.ToUpper(toCurrencyCode), asOf)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}
