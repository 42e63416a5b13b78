package server

import (
	"context"
	"net/http"

	"github.com/finsuite/allocator/internal/models"
)

// handleNetWorth handles GET/PUT /api/networth.
func (s *Server) handleNetWorth(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		data, err := s.app.Storage.GetNetWorth(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, data)

	case http.MethodPut:
		var data models.NetWorthData
		if !DecodeJSON(w, r, &data) {
			return
		}
		if err := s.app.Storage.SaveNetWorth(r.Context(), &data); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, data)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut)
	}
}

// handleSettings handles GET/PUT /api/settings. PUT decodes over the stored
// settings, so partial updates leave the other fields alone.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := s.app.Storage.GetSettings(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, settings)

	case http.MethodPut:
		settings, err := s.app.Storage.GetSettings(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !DecodeJSON(w, r, settings) {
			return
		}
		if err := s.app.Storage.SaveSettings(r.Context(), settings); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, settings)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut)
	}
}

// mirrorIfEnabled pushes the portfolio into the net-worth tracker after a
// save when the sync_trackers setting is on. The save itself already
// succeeded, so mirror failures are logged rather than surfaced.
func (s *Server) mirrorIfEnabled(ctx context.Context, p *models.Portfolio) {
	settings, err := s.app.Storage.GetSettings(ctx)
	if err != nil || !settings.SyncTrackers {
		return
	}
	data, err := s.app.Storage.GetNetWorth(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Auto-sync skipped, net-worth data unavailable")
		return
	}
	synced := s.app.SyncService.SyncAssetsToNetWorth(p.Assets, data, p.Currency, settings.Rates)
	if err := s.app.Storage.SaveNetWorth(ctx, synced); err != nil {
		s.logger.Error().Err(err).Str("portfolio", p.Name).Msg("Auto-sync failed")
	}
}

// syncRequest selects the portfolio to mirror.
type syncRequest struct {
	Portfolio string `json:"portfolio"`
}

// handleSyncToNetWorth handles POST /api/sync/to-networth: mirrors the
// portfolio's assets into the current month of the net-worth tracker.
func (s *Server) handleSyncToNetWorth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req syncRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	p, err := s.app.Storage.GetPortfolio(ctx, req.Portfolio)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	data, err := s.app.Storage.GetNetWorth(ctx)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	settings, err := s.app.Storage.GetSettings(ctx)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	synced := s.app.SyncService.SyncAssetsToNetWorth(p.Assets, data, p.Currency, settings.Rates)
	if err := s.app.Storage.SaveNetWorth(ctx, synced); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, synced)
}

// handleSyncFromNetWorth handles POST /api/sync/from-networth: rebuilds the
// portfolio's asset list from the current month of the net-worth tracker.
func (s *Server) handleSyncFromNetWorth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req syncRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	p, err := s.app.Storage.GetPortfolio(ctx, req.Portfolio)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	data, err := s.app.Storage.GetNetWorth(ctx)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	settings, err := s.app.Storage.GetSettings(ctx)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	p.Assets = s.app.SyncService.SyncNetWorthToAssets(data, p.Currency, settings.Rates)
	if err := s.app.Storage.SavePortfolio(ctx, p); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, p)
}
