package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecomarket/storefront/internal/logging"
	"github.com/ecomarket/storefront/internal/models"
	"github.com/ecomarket/storefront/internal/mykafka"
	"github.com/ecomarket/storefront/internal/repo"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

type OrderService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

func (s *OrderService) CreateOrder(ctx context.Context, user *models.User, productIDs []uint) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create", "user_id", user.ID)

	if len(productIDs) == 0 {
		return nil, fmt.Errorf("%w: product ids required", ErrValidation)
	}

	products, err := s.Repo.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	if len(products) != len(productIDs) {
		return nil, fmt.Errorf("%w: some products not found", ErrValidation)
	}

	var total float64
	for _, p := range products {
		if p.Stock <= 0 {
			return nil, fmt.Errorf("%w: product %s is out of stock", ErrValidation, p.Name)
		}
		total += p.Price
	}

	order := &models.Order{
		UserID:    user.ID,
		Status:    models.OrderStatusPending,
		Total:     total,
		CreatedAt: time.Now(),
		Products:  products,
	}

	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		l.Error("create order failed", "error", err)
		return nil, err
	}

	s.publishOrderCreated(ctx, order)
	l.Info("order created", "order_id", order.ID, "total", order.Total)
	return order, nil
}

func (s *OrderService) GetUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.OrdersByUser(ctx, userID)
}

func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.AllOrders(ctx)
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	if status == "" {
		return nil, fmt.Errorf("%w: status required", ErrValidation)
	}
	order, err := s.Repo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *models.Order) {
	event := mykafka.OrderCreatedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Total:     order.Total,
		Timestamp: time.Now().UnixMilli(),
		Status:    order.Status,
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.Producer.PublishEvent(pubCtx, "order.created", fmt.Sprint(order.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
