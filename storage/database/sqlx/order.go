package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Apollox9/fusion-loom-sub002/core/order"
)

type orderRepository struct {
	db *sqlx.DB
}

var _ order.Repository = (*orderRepository)(nil) // interface compliance check

func NewOrderRepository(db *sqlx.DB) *orderRepository {
	return &orderRepository{db: db}
}

func (repo orderRepository) GetItemByID(ctx context.Context, id string) (order.Item, error) {
	var it order.Item
	err := repo.db.GetContext(ctx, &it, `SELECT * FROM order_item WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return order.Item{}, order.ErrItemNotFound
	}
	if err != nil {
		return order.Item{}, errors.Wrap(err, "getting order item")
	}
	return it, nil
}

func (repo orderRepository) UpdateItem(ctx context.Context, item order.Item) (order.Item, error) {
	res, err := repo.db.ExecContext(ctx, `
		UPDATE order_item SET
			printed_dark_garment_count = $1, printed_light_garment_count = $2,
			status = $3, updated_at = $4
		WHERE id = $5`,
		item.PrintedDarkGarmentCount, item.PrintedLightGarmentCount,
		item.Status, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return order.Item{}, errors.Wrap(err, "updating order item")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return order.Item{}, order.ErrItemNotFound
	}
	return item, nil
}

func (repo orderRepository) ListOrdersBySchool(ctx context.Context, schoolID string, limit int) ([]order.Order, error) {
	orders := make([]order.Order, 0, limit)
	err := repo.db.SelectContext(ctx, &orders, `
		SELECT * FROM "order" WHERE school_id = $1 ORDER BY created_at ASC LIMIT $2`,
		schoolID, limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "listing orders")
	}
	return orders, nil
}

func (repo orderRepository) GetOrderByID(ctx context.Context, id string) (order.Order, error) {
	var ord order.Order
	err := repo.db.GetContext(ctx, &ord, `SELECT * FROM "order" WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return order.Order{}, order.ErrOrderNotFound
	}
	if err != nil {
		return order.Order{}, errors.Wrap(err, "getting order")
	}
	return ord, nil
}
