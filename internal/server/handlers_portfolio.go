package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/finsuite/allocator/internal/interfaces"
	"github.com/finsuite/allocator/internal/models"
)

// handlePortfolioList handles GET /api/portfolios and POST /api/portfolios.
func (s *Server) handlePortfolioList(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		names, err := s.app.Storage.ListPortfolios(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"portfolios": names})

	case http.MethodPost:
		var p models.Portfolio
		if !DecodeJSON(w, r, &p) {
			return
		}
		if p.Currency == "" {
			p.Currency = s.app.Config.DefaultCurrency
		}
		for i := range p.Assets {
			if p.Assets[i].ID == "" {
				p.Assets[i].ID = uuid.NewString()
			}
		}
		if err := s.app.Storage.SavePortfolio(r.Context(), &p); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, p)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routePortfolios dispatches /api/portfolios/{name}[/...] requests.
func (s *Server) routePortfolios(w http.ResponseWriter, r *http.Request) {
	name := PathSegment(r.URL.Path, "/api/portfolios/", 0)
	if name == "" {
		WriteError(w, http.StatusBadRequest, "Portfolio name is required")
		return
	}
	sub := PathSegment(r.URL.Path, "/api/portfolios/", 1)

	switch sub {
	case "":
		s.handlePortfolio(w, r, name)
	case "allocation":
		s.handleAllocation(w, r, name)
	case "targets":
		s.handleClassTargetEdit(w, r, name)
	case "assets":
		s.handleAssets(w, r, name)
	case "distribute":
		s.handleDistribute(w, r, name)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// handlePortfolio handles GET/PUT/DELETE /api/portfolios/{name}.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request, name string) {
	switch r.Method {
	case http.MethodGet:
		p, err := s.app.Storage.GetPortfolio(r.Context(), name)
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, p)

	case http.MethodPut:
		var p models.Portfolio
		if !DecodeJSON(w, r, &p) {
			return
		}
		p.Name = name
		if err := s.app.Storage.SavePortfolio(r.Context(), &p); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.mirrorIfEnabled(r.Context(), &p)
		WriteJSON(w, http.StatusOK, p)

	case http.MethodDelete:
		if err := s.app.Storage.DeletePortfolio(r.Context(), name); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// allocationRequest carries the optional knobs of an allocation computation.
type allocationRequest struct {
	PortfolioValue *float64 `json:"portfolio_value,omitempty"`
	CashDelta      *float64 `json:"cash_delta,omitempty"`
}

// handleAllocation handles GET/POST /api/portfolios/{name}/allocation.
// GET computes with defaults; POST accepts overrides.
func (s *Server) handleAllocation(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	p, err := s.app.Storage.GetPortfolio(r.Context(), name)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	opts := interfaces.CalcOptions{Targets: p.ClassTargets}
	if r.Method == http.MethodPost {
		var req allocationRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		opts.PortfolioValue = req.PortfolioValue
		opts.CashDelta = req.CashDelta
	}

	WriteJSON(w, http.StatusOK, s.app.AllocationService.CalculatePortfolioAllocation(p.Assets, opts))
}

// classTargetEditRequest edits one class's percentage target.
type classTargetEditRequest struct {
	Class   models.AssetClass `json:"class"`
	Percent float64           `json:"percent"`
}

// handleClassTargetEdit handles POST /api/portfolios/{name}/targets.
// The remaining PERCENTAGE classes are rescaled so the map stays at 100.
func (s *Server) handleClassTargetEdit(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req classTargetEditRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Class == "" {
		WriteError(w, http.StatusBadRequest, "Class is required")
		return
	}

	p, err := s.app.Storage.GetPortfolio(r.Context(), name)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	p.ClassTargets = s.app.AllocationService.RedistributeClassTargets(p.ClassTargets, req.Class, req.Percent)
	if err := s.app.Storage.SavePortfolio(r.Context(), p); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

// assetEditRequest adds an asset or edits its percentage target.
type assetEditRequest struct {
	Asset   *models.Asset `json:"asset,omitempty"`   // POST: asset to add
	Percent *float64      `json:"percent,omitempty"` // PUT: new target percent
}

// handleAssets handles /api/portfolios/{name}/assets[/{id}].
func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request, name string) {
	assetID := PathSegment(r.URL.Path, "/api/portfolios/", 2)

	p, err := s.app.Storage.GetPortfolio(r.Context(), name)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	switch {
	case r.Method == http.MethodPost && assetID == "":
		var req assetEditRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		if req.Asset == nil || strings.TrimSpace(req.Asset.Name) == "" {
			WriteError(w, http.StatusBadRequest, "Asset with a name is required")
			return
		}
		if req.Asset.ID == "" {
			req.Asset.ID = uuid.NewString()
		}
		p.Assets = append(p.Assets, *req.Asset)

	case r.Method == http.MethodPut && assetID != "":
		var req assetEditRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		if req.Percent == nil {
			WriteError(w, http.StatusBadRequest, "Percent is required")
			return
		}
		p.Assets = s.app.AllocationService.RedistributeAssetTargets(p.Assets, assetID, *req.Percent)

	case r.Method == http.MethodDelete && assetID != "":
		var removed *models.Asset
		for i := range p.Assets {
			if p.Assets[i].ID == assetID {
				removed = &p.Assets[i]
				break
			}
		}
		if removed == nil {
			WriteError(w, http.StatusNotFound, "Asset not found")
			return
		}
		p.Assets = s.app.AllocationService.HandleAssetRemoval(p.Assets, *removed)

	default:
		RequireMethod(w, r, http.MethodPost, http.MethodPut, http.MethodDelete)
		return
	}

	if err := s.app.Storage.SavePortfolio(r.Context(), p); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.mirrorIfEnabled(r.Context(), p)
	WriteJSON(w, http.StatusOK, p)
}

// distributeRequest splits a class-level amount across the class's assets.
type distributeRequest struct {
	Class models.AssetClass `json:"class"`
	Delta float64           `json:"delta"`
}

// handleDistribute handles POST /api/portfolios/{name}/distribute.
func (s *Server) handleDistribute(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req distributeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	p, err := s.app.Storage.GetPortfolio(r.Context(), name)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	shares := s.app.AllocationService.DistributeDelta(p.Assets, req.Class, req.Delta)
	WriteJSON(w, http.StatusOK, map[string]interface{}{"class": req.Class, "shares": shares})
}
