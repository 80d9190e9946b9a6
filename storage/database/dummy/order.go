package dummydb

import (
	"context"
	"sort"

	"github.com/Apollox9/fusion-loom-sub002/core/order"
)

type orderRepository struct {
	db *DB
}

var _ order.Repository = (*orderRepository)(nil) // interface compliance check

func NewOrderRepository(db *DB) *orderRepository {
	return &orderRepository{db: db}
}

func (repo *orderRepository) GetItemByID(_ context.Context, id string) (order.Item, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if it, ok := repo.db.orderItems[id]; ok {
		return *it, nil
	}
	return order.Item{}, order.ErrItemNotFound
}

func (repo *orderRepository) UpdateItem(_ context.Context, item order.Item) (order.Item, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.orderItems[item.ID]; !ok {
		return order.Item{}, order.ErrItemNotFound
	}
	repo.db.orderItems[item.ID] = &item
	return item, nil
}

func (repo *orderRepository) ListOrdersBySchool(_ context.Context, schoolID string, limit int) ([]order.Order, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	orders := make([]order.Order, 0, limit)
	for _, ord := range repo.db.orders {
		if ord.SchoolID == schoolID {
			orders = append(orders, *ord)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.Before(orders[j].CreatedAt) })
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (repo *orderRepository) GetOrderByID(_ context.Context, id string) (order.Order, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if ord, ok := repo.db.orders[id]; ok {
		return *ord, nil
	}
	return order.Order{}, order.ErrOrderNotFound
}
