// Package inventory manages the vehicle model catalog and inventory items.
package inventory

import (
	"context"
	"errors"

	"github.com/fleet/backend/internal/domain/inventory"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/fleet/backend/internal/infrastructure/event"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryService handles inventory item operations. Order and invoice
// links are owned by the assignment service and never written here.
type InventoryService struct {
	itemRepo       inventory.InventoryItemRepository
	modelRepo      inventory.VehicleModelRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	itemRepo inventory.InventoryItemRepository,
	modelRepo inventory.VehicleModelRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		itemRepo:       itemRepo,
		modelRepo:      modelRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Create registers a new item
func (s *InventoryService) Create(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	var status inventory.ItemStatus
	if req.Status != "" {
		parsed, err := inventory.ParseItemStatus(req.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	exists, err := s.itemRepo.ExistsBySerialNumber(ctx, req.SerialNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.AlreadyExists("Inventory item with this serial number already exists")
	}
	if err := s.checkModel(ctx, req.ModelID); err != nil {
		return nil, err
	}

	item, err := inventory.NewInventoryItem(req.SerialNumber, req.ActiveNumber, req.ModelID, status)
	if err != nil {
		return nil, err
	}
	if req.Plate != "" || req.Comments != "" {
		item.UpdateDetails(item.ActiveNumber, req.Plate, req.Comments)
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.publish(ctx, item)

	response := ToItemResponse(item)
	return &response, nil
}

// GetByID retrieves an item by ID
func (s *InventoryService) GetByID(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// List lists items. Search folds case and accents over serial, active number and plate.
func (s *InventoryService) List(ctx context.Context, filter ItemListFilter) ([]ItemResponse, int64, error) {
	domainFilter, err := filter.toDomain()
	if err != nil {
		return nil, 0, err
	}
	items, total, err := s.itemRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses, total, nil
}

// Update changes descriptive fields and optionally the model
func (s *InventoryService) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ModelID != nil && *req.ModelID != item.ModelID {
		if err := s.checkModel(ctx, *req.ModelID); err != nil {
			return nil, err
		}
		if err := item.ChangeModel(*req.ModelID); err != nil {
			return nil, err
		}
	}
	item.UpdateDetails(req.ActiveNumber, req.Plate, req.Comments)

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// ChangeStatus moves an item through ALTA, BAJA and PROPUESTA. Items are
// decommissioned with BAJA rather than deleted.
func (s *InventoryService) ChangeStatus(ctx context.Context, id uuid.UUID, req ChangeStatusRequest) (*ItemResponse, error) {
	status, err := inventory.ParseItemStatus(req.Status)
	if err != nil {
		return nil, err
	}
	item, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	from := item.Status
	if err := item.ChangeStatus(status); err != nil {
		return nil, err
	}
	if from != item.Status {
		if err := s.itemRepo.Save(ctx, item); err != nil {
			return nil, err
		}
		s.publish(ctx, item)
		s.logger.Info("inventory status changed",
			zap.String("serial_number", item.SerialNumber),
			zap.String("from", from.String()),
			zap.String("to", item.Status.String()),
		)
	}

	response := ToItemResponse(item)
	return &response, nil
}

func (s *InventoryService) findItem(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NotFound("Inventory item")
		}
		return nil, err
	}
	return item, nil
}

func (s *InventoryService) checkModel(ctx context.Context, modelID uuid.UUID) error {
	if _, err := s.modelRepo.FindByID(ctx, modelID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.InvalidInput("model_id does not reference an existing vehicle model")
		}
		return err
	}
	return nil
}

func (s *InventoryService) publish(ctx context.Context, item *inventory.InventoryItem) {
	if err := event.PublishPending(ctx, s.eventPublisher, item); err != nil {
		s.logger.Warn("failed to publish inventory events", zap.Error(err))
	}
}
