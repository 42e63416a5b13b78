package server

import (
	"net/http"
	"strings"

	"github.com/finsuite/allocator/internal/models"
)

// convertRequest converts a single amount between currencies.
type convertRequest struct {
	Amount float64 `json:"amount"`
	From   string  `json:"from"`
	To     string  `json:"to"`
}

// handleCurrencyConvert handles POST /api/currency/convert.
func (s *Server) handleCurrencyConvert(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req convertRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.From == "" || req.To == "" {
		WriteError(w, http.StatusBadRequest, "Both 'from' and 'to' currencies are required")
		return
	}

	settings, err := s.app.Storage.GetSettings(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result := s.app.CurrencyService.ConvertAmount(req.Amount, req.From, req.To, settings.Rates)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"amount": req.Amount,
		"from":   strings.ToUpper(req.From),
		"to":     strings.ToUpper(req.To),
		"result": result,
	})
}

// handleRates handles GET/PUT /api/currency/rates.
func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := s.app.Storage.GetSettings(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"default_currency": settings.DefaultCurrency,
			"rates":            settings.Rates,
		})

	case http.MethodPut:
		var rates models.ExchangeRates
		if !DecodeJSON(w, r, &rates) {
			return
		}
		settings, err := s.app.Storage.GetSettings(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		settings.Rates = rates
		if err := s.app.Storage.SaveSettings(r.Context(), settings); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, settings)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut)
	}
}

// defaultCurrencyRequest switches the reporting currency.
type defaultCurrencyRequest struct {
	Currency string `json:"currency"`
}

// handleDefaultCurrency handles PUT /api/currency/default. Switching the
// default currency rebases the rate table and passes every stored monetary
// collection through the converter — portfolios and the net-worth tracker.
func (s *Server) handleDefaultCurrency(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}
	var req defaultCurrencyRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	newCurrency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if newCurrency == "" {
		WriteError(w, http.StatusBadRequest, "Currency is required")
		return
	}

	ctx := r.Context()
	settings, err := s.app.Storage.GetSettings(ctx)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	oldCurrency := settings.DefaultCurrency
	if oldCurrency == newCurrency {
		WriteJSON(w, http.StatusOK, settings)
		return
	}

	// Convert portfolios with the pre-rebase table, then rebase it.
	names, err := s.app.Storage.ListPortfolios(ctx)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for _, name := range names {
		p, err := s.app.Storage.GetPortfolio(ctx, name)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		from := p.Currency
		if from == "" {
			from = oldCurrency
		}
		p.Assets = s.app.CurrencyService.ConvertAssets(p.Assets, from, newCurrency, settings.Rates)
		p.Currency = newCurrency
		if err := s.app.Storage.SavePortfolio(ctx, p); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	networth, err := s.app.Storage.GetNetWorth(ctx)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(networth.Months) > 0 {
		converted := s.app.CurrencyService.ConvertNetWorthData(networth, newCurrency, settings.Rates)
		if err := s.app.Storage.SaveNetWorth(ctx, converted); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	settings.Rates = s.app.CurrencyService.RecalculateFallbackRates(settings.Rates, oldCurrency, newCurrency)
	settings.DefaultCurrency = newCurrency
	if err := s.app.Storage.SaveSettings(ctx, settings); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info().
		Str("from", oldCurrency).
		Str("to", newCurrency).
		Int("portfolios", len(names)).
		Msg("Default currency switched")

	WriteJSON(w, http.StatusOK, settings)
}
