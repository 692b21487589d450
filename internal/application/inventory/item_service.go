package inventory

import (
	"context"

	"github.com/moodtrack/backend/internal/domain/inventory"
	"github.com/moodtrack/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ItemService handles inventory list operations
type ItemService struct {
	repo    inventory.ItemRepository
	metrics *telemetry.AppMetrics
	logger  *zap.Logger
}

// NewItemService creates a new ItemService. metrics may be nil.
func NewItemService(repo inventory.ItemRepository, metrics *telemetry.AppMetrics, logger *zap.Logger) *ItemService {
	return &ItemService{repo: repo, metrics: metrics, logger: logger}
}

// List returns every item in insertion order
func (s *ItemService) List(ctx context.Context) ([]ItemResponse, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToItemResponses(items), nil
}

// Get returns one item
func (s *ItemService) Get(ctx context.Context, id string) (*ItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// Create adds an item
func (s *ItemService) Create(ctx context.Context, input CreateItemInput) (*ItemResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "item", "create")
	defer span.End()

	item, err := inventory.NewItem(input.Name, input.Quantity, input.Price)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.metrics.ItemMutation(ctx, "create")
	s.logger.Info("Item created", zap.String("item_id", item.ID), zap.String("name", item.Name))

	resp := ToItemResponse(item)
	return &resp, nil
}

// Update sets quantity and price of an existing item
func (s *ItemService) Update(ctx context.Context, id string, input UpdateItemInput) (*ItemResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "item", "update", "item_id", id)
	defer span.End()

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.SetStock(input.Quantity, input.Price); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.metrics.ItemMutation(ctx, "update")

	resp := ToItemResponse(item)
	return &resp, nil
}

// Delete removes an item
func (s *ItemService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "item", "delete", "item_id", id)
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	s.metrics.ItemMutation(ctx, "delete")
	s.logger.Info("Item deleted", zap.String("item_id", id))
	return nil
}
