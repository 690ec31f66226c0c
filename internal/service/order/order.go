// Package order implements the order placement workflow and the status
// transition rules for both the buyer and the admin paths.
package order

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/farmify/farmify-api/internal/models"
	"github.com/farmify/farmify-api/internal/validation"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
)

var pincodeRe = regexp.MustCompile(`^\d{6}$`)

type Service struct {
	DB *gorm.DB
}

// PlaceOrder validates the submitted cart and address, resolves current
// prices in one batch read and persists a single order with per-item
// snapshots. Items referencing a product that no longer exists are kept
// with pricePerKg = 0 rather than dropped.
func (s *Service) PlaceOrder(ctx context.Context, buyerID uint, req validation.PlaceOrderRequest) (*models.Order, error) {
	if len(req.OrderItems) == 0 {
		return nil, fmt.Errorf("%w: order items required", ErrValidation)
	}
	if err := checkAddress(req.Address); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(req.OrderItems))
	for _, item := range req.OrderItems {
		if item.ProductID == 0 {
			return nil, fmt.Errorf("%w: invalid product id", ErrValidation)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
		}
		if item.ProductName == "" {
			return nil, fmt.Errorf("%w: product name required", ErrValidation)
		}
		ids = append(ids, item.ProductID)
	}

	prices, err := s.resolvePrices(ctx, ids)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		BuyerID: buyerID,
		Address: models.Address(req.Address),
		Status:  models.OrderStatusPending,
		Items:   make([]models.OrderItem, 0, len(req.OrderItems)),
	}
	for _, item := range req.OrderItems {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			PricePerKg:  prices[item.ProductID],
		})
	}

	if err := s.DB.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// resolvePrices returns the current pricePerKg for every referenced
// product in a single query. Missing products are simply absent from the
// map, so their snapshot price defaults to zero.
func (s *Service) resolvePrices(ctx context.Context, ids []uint) (map[uint]float64, error) {
	var rows []models.Product
	if err := s.DB.WithContext(ctx).
		Select("id", "price_per_kg").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	prices := make(map[uint]float64, len(rows))
	for _, p := range rows {
		prices[p.ID] = p.PricePerKg
	}
	return prices, nil
}

func checkAddress(a validation.AddressInput) error {
	if a.Taluk == "" || a.District == "" || a.VillageTown == "" {
		return fmt.Errorf("%w: address fields required", ErrValidation)
	}
	if !pincodeRe.MatchString(a.Pincode) {
		return fmt.Errorf("%w: invalid pincode format", ErrValidation)
	}
	return nil
}

// ListBuyerOrders returns all orders placed by buyerID, newest first,
// with the live product's name and picture joined onto each item.
func (s *Service) ListBuyerOrders(ctx context.Context, buyerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "picture")
		}).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAllOrders returns every order with product and buyer details
// expanded, for the admin console.
func (s *Service) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Buyer").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus is the admin transition. Any member of the status enum is
// accepted at any time; only enum membership is enforced. This preserves
// the deployed behavior where an admin may move an order straight from
// pending to delivered or back again.
func (s *Service) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}

	var ord models.Order
	if err := s.DB.WithContext(ctx).First(&ord, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}

	ord.Status = status
	if err := s.DB.WithContext(ctx).Model(&ord).Update("status", status).Error; err != nil {
		return nil, err
	}
	return &ord, nil
}

// BuyerEditOrder is the buyer transition: only shipped or delivered, only
// while the order is pending or shipped, and only on the caller's own
// orders. Every failure surfaces as not-found so the existence of other
// buyers' orders is never leaked.
func (s *Service) BuyerEditOrder(ctx context.Context, buyerID, orderID uint, req validation.EditOrderRequest) (*models.Order, error) {
	if req.Status != "" &&
		req.Status != models.OrderStatusShipped &&
		req.Status != models.OrderStatusDelivered {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, req.Status)
	}
	if req.Address != nil {
		if err := checkAddress(*req.Address); err != nil {
			return nil, err
		}
	}

	var ord models.Order
	err := s.DB.WithContext(ctx).
		Where("id = ? AND buyer_id = ? AND status IN ?", orderID, buyerID,
			[]string{models.OrderStatusPending, models.OrderStatusShipped}).
		First(&ord).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order not found or not updatable", ErrNotFound)
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Status != "" {
		updates["status"] = req.Status
		ord.Status = req.Status
	}
	if req.Address != nil {
		addr := models.Address(*req.Address)
		updates["address_taluk"] = addr.Taluk
		updates["address_district"] = addr.District
		updates["address_pincode"] = addr.Pincode
		updates["address_village_town"] = addr.VillageTown
		ord.Address = addr
	}
	if len(updates) == 0 {
		return &ord, nil
	}

	if err := s.DB.WithContext(ctx).Model(&ord).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &ord, nil
}

// DeleteOrder removes one of the caller's own orders along with its
// snapshot items.
func (s *Service) DeleteOrder(ctx context.Context, buyerID, orderID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ord models.Order
		err := tx.Where("id = ? AND buyer_id = ?", orderID, buyerID).First(&ord).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order not found or not authorized", ErrNotFound)
			}
			return err
		}

		if err := tx.Where("order_id = ?", ord.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&ord).Error
	})
}
