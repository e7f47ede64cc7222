package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecomarket/storefront/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	if err := r.DB.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *GormRepo) OrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Products").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return orders, nil
}

func (r *GormRepo) AllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Products").Order("id ASC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return orders, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Products").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &order, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	order, err := r.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Status = status
	if err := r.DB.WithContext(ctx).Save(order).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return order, nil
}
