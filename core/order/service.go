package order

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrItemNotFound     = errors.New("order item not found")
	ErrInvalidGarment   = errors.New("invalid garment type")
	ErrOrderNotFound    = errors.New("order not found")
	ErrNonPositiveCount = errors.New("printed count must be positive")
)

type (
	Repository interface {
		GetItemByID(ctx context.Context, id string) (Item, error)
		UpdateItem(ctx context.Context, item Item) (Item, error)
		// ListOrdersBySchool returns the school's orders ordered by creation time
		// ascending, capped at limit.
		ListOrdersBySchool(ctx context.Context, schoolID string, limit int) ([]Order, error)
		GetOrderByID(ctx context.Context, id string) (Order, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ApplyPrintedCount adds a reported garment count to the matching printed counter and
// re-derives the item's status. The increment is additive by design: replayed COMPLETE
// events must be stopped at the idempotency gate, not here.
func (svc *Service) ApplyPrintedCount(ctx context.Context, itemID, garmentType string, count int) error {
	if count <= 0 {
		return ErrNonPositiveCount
	}

	item, err := svc.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return errors.Wrap(err, "fetching order item")
	}

	switch garmentType {
	case GarmentDark:
		item.PrintedDarkGarmentCount += count
	case GarmentLight:
		item.PrintedLightGarmentCount += count
	default:
		return ErrInvalidGarment
	}

	item.Status = item.DeriveStatus()
	item.UpdatedAt = time.Now().UTC()

	if _, err := svc.repo.UpdateItem(ctx, item); err != nil {
		return errors.Wrap(err, "updating order item")
	}
	return nil
}

// FirstOrder reports whether orderID is chronologically the school's first order.
// The underlying query is ordered and capped at 2 rows: one row that matches means
// first; anything else means not first.
func (svc *Service) FirstOrder(ctx context.Context, schoolID, orderID string) (bool, error) {
	orders, err := svc.repo.ListOrdersBySchool(ctx, schoolID, 2)
	if err != nil {
		return false, errors.Wrap(err, "listing school orders")
	}
	if len(orders) == 0 {
		return false, nil
	}
	return orders[0].ID == orderID, nil
}

func (svc *Service) GetOrder(ctx context.Context, id string) (Order, error) {
	return svc.repo.GetOrderByID(ctx, id)
}
