// Package currency implements rate lookup, amount conversion, and rate-table
// rebasing. Every rate is expressed relative to one implicit base currency,
// so any conversion telescopes to a single division.
package currency

import (
	"strings"

	"github.com/finsuite/allocator/internal/common"
	"github.com/finsuite/allocator/internal/interfaces"
	"github.com/finsuite/allocator/internal/models"
)

// Compile-time interface check
var _ interfaces.CurrencyService = (*Service)(nil)

// Service implements CurrencyService
type Service struct {
	logger *common.Logger
}

// NewService creates a new currency service
func NewService(logger *common.Logger) *Service {
	return &Service{logger: logger}
}

// lookupRate resolves a currency code against the supplied table, falling
// back per-code to DefaultFallbackRates. An unknown, zero, or negative rate
// degrades to 1 (no-op conversion) — recoverable, never fatal.
func (s *Service) lookupRate(code string, rates models.ExchangeRates) float64 {
	rate, ok := rates[code]
	if !ok {
		rate, ok = models.DefaultFallbackRates[code]
	}
	if !ok || rate <= 0 {
		s.logger.Warn().Str("currency", code).Float64("rate", rate).Msg("No usable exchange rate, treating as 1:1")
		return 1
	}
	return rate
}

// ConvertAmount converts an amount between currencies. Identity when the
// codes match; otherwise result = amount * rates[from]/rates[to].
func (s *Service) ConvertAmount(amount float64, from, to string, rates models.ExchangeRates) float64 {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to || from == "" || to == "" {
		return amount
	}
	return amount * s.lookupRate(from, rates) / s.lookupRate(to, rates)
}

// RecalculateFallbackRates rebases the rate table so newDefault becomes the
// implicit rate=1 reference. Rebasing old→new→old reproduces the original
// table within floating tolerance.
func (s *Service) RecalculateFallbackRates(current models.ExchangeRates, oldDefault, newDefault string) models.ExchangeRates {
	oldDefault = strings.ToUpper(strings.TrimSpace(oldDefault))
	newDefault = strings.ToUpper(strings.TrimSpace(newDefault))
	if oldDefault == newDefault {
		return current.Clone()
	}

	conversionRate := s.ConvertAmount(1, oldDefault, newDefault, current)

	out := make(models.ExchangeRates, len(current)+1)
	for code, rate := range current {
		out[code] = rate * conversionRate
	}
	out[newDefault] = 1

	s.logger.Debug().
		Str("old_default", oldDefault).
		Str("new_default", newDefault).
		Float64("conversion_rate", conversionRate).
		Msg("Rate table rebased")

	return out
}
