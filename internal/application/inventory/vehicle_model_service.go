package inventory

import (
	"context"

	"github.com/fleet/backend/internal/domain/inventory"
	"github.com/fleet/backend/internal/domain/shared"
)

// VehicleModelService handles the model catalog
type VehicleModelService struct {
	modelRepo inventory.VehicleModelRepository
}

// NewVehicleModelService creates a new VehicleModelService
func NewVehicleModelService(modelRepo inventory.VehicleModelRepository) *VehicleModelService {
	return &VehicleModelService{modelRepo: modelRepo}
}

// Create adds a model to the catalog
func (s *VehicleModelService) Create(ctx context.Context, req CreateVehicleModelRequest) (*VehicleModelResponse, error) {
	model, err := inventory.NewVehicleModel(req.Brand, req.Name, req.Year)
	if err != nil {
		return nil, err
	}
	if err := s.modelRepo.Save(ctx, model); err != nil {
		return nil, err
	}
	response := ToVehicleModelResponse(model)
	return &response, nil
}

// List lists catalog models ordered by brand
func (s *VehicleModelService) List(ctx context.Context, filter ModelListFilter) ([]VehicleModelResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	domainFilter.OrderBy = "brand"
	domainFilter.OrderDir = "asc"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	models, total, err := s.modelRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]VehicleModelResponse, len(models))
	for i := range models {
		responses[i] = ToVehicleModelResponse(&models[i])
	}
	return responses, total, nil
}
