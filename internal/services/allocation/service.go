package allocation

import (
	"github.com/finsuite/allocator/internal/common"
	"github.com/finsuite/allocator/internal/interfaces"
	"github.com/finsuite/allocator/internal/models"
)

// Compile-time interface check
var _ interfaces.AllocationService = (*Service)(nil)

// Service implements AllocationService. The computations themselves are
// pure package functions; the service adds logging for the API surface.
type Service struct {
	logger *common.Logger
}

// NewService creates a new allocation service
func NewService(logger *common.Logger) *Service {
	return &Service{logger: logger}
}

// CalculatePortfolioAllocation derives the full allocation snapshot.
func (s *Service) CalculatePortfolioAllocation(assets []models.Asset, opts interfaces.CalcOptions) models.PortfolioAllocation {
	result := CalculatePortfolioAllocation(assets, opts)
	if !result.IsValid {
		s.logger.Warn().
			Int("findings", len(result.Errors)).
			Msg("Allocation computed with validation findings")
	}
	return result
}

// RedistributeClassTargets rebalances the class-target map after an edit.
func (s *Service) RedistributeClassTargets(targets models.ClassTargets, edited models.AssetClass, newPercent float64) models.ClassTargets {
	return RedistributeClassTargets(targets, edited, newPercent)
}

// RedistributeAssetTargets rebalances sibling targets after an asset edit.
func (s *Service) RedistributeAssetTargets(assets []models.Asset, editedAssetID string, newPercent float64) []models.Asset {
	return RedistributeAssetTargets(assets, editedAssetID, newPercent)
}

// DistributeDelta splits a class-level rebalance amount across assets.
func (s *Service) DistributeDelta(assets []models.Asset, class models.AssetClass, delta float64) map[string]float64 {
	return DistributeDelta(assets, class, delta)
}

// HandleAssetRemoval drops an asset and redistributes its percentage.
func (s *Service) HandleAssetRemoval(assets []models.Asset, removed models.Asset) []models.Asset {
	return HandleAssetRemoval(assets, removed)
}
