package currency

import (
	"math"
	"testing"

	"github.com/finsuite/allocator/internal/common"
	"github.com/finsuite/allocator/internal/models"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func newTestService() *Service {
	return NewService(common.NewSilentLogger())
}

func TestConvertAmount_Identity(t *testing.T) {
	svc := newTestService()
	for _, code := range []string{"EUR", "USD", "GBP", "XXX"} {
		got := svc.ConvertAmount(123.45, code, code, models.DefaultFallbackRates)
		if got != 123.45 {
			t.Errorf("ConvertAmount(123.45, %s, %s) = %v, want 123.45", code, code, got)
		}
	}
}

func TestConvertAmount_USDToGBP(t *testing.T) {
	svc := newTestService()

	// 100 USD → 85 EUR → ~73.91 GBP
	got := svc.ConvertAmount(100, "USD", "GBP", models.DefaultFallbackRates)
	if !approxEqual(got, 73.91, 0.01) {
		t.Errorf("ConvertAmount(100, USD, GBP) = %.4f, want ~73.91", got)
	}
}

func TestConvertAmount_USDToEUR(t *testing.T) {
	svc := newTestService()
	got := svc.ConvertAmount(100, "USD", "EUR", models.DefaultFallbackRates)
	if !approxEqual(got, 85, 0.001) {
		t.Errorf("ConvertAmount(100, USD, EUR) = %.4f, want 85", got)
	}
}

func TestConvertAmount_LowercaseCodes(t *testing.T) {
	svc := newTestService()
	got := svc.ConvertAmount(100, "usd", "eur", models.DefaultFallbackRates)
	if !approxEqual(got, 85, 0.001) {
		t.Errorf("ConvertAmount(100, usd, eur) = %.4f, want 85", got)
	}
}

func TestConvertAmount_FallsBackToDefaultTable(t *testing.T) {
	svc := newTestService()

	// GBP missing from the supplied table — resolved from the default table.
	rates := models.ExchangeRates{"USD": 0.85, "EUR": 1}
	got := svc.ConvertAmount(100, "USD", "GBP", rates)
	if !approxEqual(got, 73.91, 0.01) {
		t.Errorf("ConvertAmount with partial table = %.4f, want ~73.91", got)
	}
}

func TestConvertAmount_UnknownRateIsNoOp(t *testing.T) {
	svc := newTestService()

	// Unknown in both tables → rate 1, conversion degrades toward identity.
	rates := models.ExchangeRates{"EUR": 1}
	got := svc.ConvertAmount(100, "ZZZ", "EUR", rates)
	if got != 100 {
		t.Errorf("ConvertAmount(100, ZZZ, EUR) = %v, want 100 (1:1 fallback)", got)
	}
}

func TestConvertAmount_InvalidRateIsNoOp(t *testing.T) {
	svc := newTestService()

	rates := models.ExchangeRates{"EUR": 1, "BAD": 0, "NEG": -2}
	if got := svc.ConvertAmount(50, "BAD", "EUR", rates); got != 50 {
		t.Errorf("zero rate: got %v, want 50", got)
	}
	if got := svc.ConvertAmount(50, "NEG", "EUR", rates); got != 50 {
		t.Errorf("negative rate: got %v, want 50", got)
	}
}

func TestRecalculateFallbackRates_RebaseToUSD(t *testing.T) {
	svc := newTestService()

	rebased := svc.RecalculateFallbackRates(models.DefaultFallbackRates, "EUR", "USD")

	if rebased["USD"] != 1 {
		t.Errorf("USD rate after rebase = %v, want 1", rebased["USD"])
	}
	// 1 GBP = 1.15 EUR = 1.15/0.85 USD
	if !approxEqual(rebased["GBP"], 1.15/0.85, 0.0001) {
		t.Errorf("GBP rate after rebase = %.4f, want %.4f", rebased["GBP"], 1.15/0.85)
	}
	if !approxEqual(rebased["EUR"], 1/0.85, 0.0001) {
		t.Errorf("EUR rate after rebase = %.4f, want %.4f", rebased["EUR"], 1/0.85)
	}
}

func TestRecalculateFallbackRates_RoundTrip(t *testing.T) {
	svc := newTestService()

	rebased := svc.RecalculateFallbackRates(models.DefaultFallbackRates, "EUR", "USD")
	back := svc.RecalculateFallbackRates(rebased, "USD", "EUR")

	for code, want := range models.DefaultFallbackRates {
		got := back[code]
		if math.Abs(got-want)/want > 0.01 {
			t.Errorf("round trip %s = %.6f, want %.6f (within 1%%)", code, got, want)
		}
	}
	if !approxEqual(back["GBP"], 1.15, 0.02) {
		t.Errorf("GBP after round trip = %.4f, want ~1.15", back["GBP"])
	}
	if !approxEqual(back["USD"], 0.85, 0.02) {
		t.Errorf("USD after round trip = %.4f, want ~0.85", back["USD"])
	}
}

func TestRecalculateFallbackRates_SameCurrency(t *testing.T) {
	svc := newTestService()

	rates := models.ExchangeRates{"EUR": 1, "USD": 0.9}
	out := svc.RecalculateFallbackRates(rates, "EUR", "EUR")
	if out["USD"] != 0.9 || out["EUR"] != 1 {
		t.Errorf("same-currency rebase changed the table: %v", out)
	}

	// Returned table is a copy, not the input.
	out["USD"] = 5
	if rates["USD"] != 0.9 {
		t.Error("rebase returned the input table instead of a copy")
	}
}

func TestConvertAmount_DoesNotMutateRates(t *testing.T) {
	svc := newTestService()
	rates := models.ExchangeRates{"EUR": 1, "USD": 0.85}
	svc.ConvertAmount(100, "USD", "GBP", rates)
	if len(rates) != 2 {
		t.Errorf("rate table mutated: %v", rates)
	}
}
