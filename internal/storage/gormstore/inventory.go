package gormstore

import (
	"context"
	"errors"
	"time"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"

	"gorm.io/gorm"
)

func (s *Store) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetItem(ctx context.Context, id uint) (*models.InventoryItem, error) {
	return getByID[models.InventoryItem](ctx, s.db, id)
}

func (s *Store) ListItems(ctx context.Context, f storage.ItemFilter) ([]models.InventoryItem, error) {
	q := s.db.WithContext(ctx).Model(&models.InventoryItem{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Location != "" {
		q = q.Where("location = ?", f.Location)
	}
	if f.SupplierID != 0 {
		q = q.Where("supplier_id = ?", f.SupplierID)
	}
	var items []models.InventoryItem
	if err := q.Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateItem(ctx context.Context, id uint, fields map[string]any) (*models.InventoryItem, error) {
	// CurrentStock changes only through RecordMovement.
	delete(fields, "current_stock")
	return updateFields[models.InventoryItem](ctx, s.db, id, fields)
}

func (s *Store) DeleteItem(ctx context.Context, id uint) error {
	return deleteByID[models.InventoryItem](ctx, s.db, id)
}

// RecordMovement appends a ledger row and moves the item quantity in one
// transaction. The quantity write is conditional on the value read at the
// start, so two racing movements cannot both apply against the same base;
// the loser re-reads and retries once.
func (s *Store) RecordMovement(ctx context.Context, p storage.MovementParams) (*models.StockMovement, error) {
	if p.Quantity <= 0 {
		return nil, storage.ErrInvalidQuantity
	}

	for attempt := 0; attempt < 2; attempt++ {
		item, err := s.GetItem(ctx, p.ItemID)
		if err != nil {
			return nil, err
		}

		newQty := item.CurrentStock - p.Quantity
		if p.Type == models.MovementIn {
			newQty = item.CurrentStock + p.Quantity
		}
		if newQty < 0 {
			return nil, storage.ErrInsufficientStock
		}

		mv := &models.StockMovement{
			ItemID:           item.ID,
			Type:             p.Type,
			Quantity:         p.Quantity,
			PreviousQuantity: item.CurrentStock,
			NewQuantity:      newQty,
			Reason:           p.Reason,
			Reference:        p.Reference,
			ActorID:          p.ActorID,
		}

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.InventoryItem{}).
				Where("id = ? AND current_stock = ?", item.ID, item.CurrentStock).
				Update("current_stock", newQty)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return storage.ErrConflict
			}
			return tx.Create(mv).Error
		})
		if errors.Is(err, storage.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return mv, nil
	}
	return nil, storage.ErrConflict
}

func (s *Store) ListMovements(ctx context.Context, itemID uint) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	err := s.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at desc, id desc").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

func (s *Store) CreateSupplier(ctx context.Context, sup *models.Supplier) error {
	return s.db.WithContext(ctx).Create(sup).Error
}

func (s *Store) GetSupplier(ctx context.Context, id uint) (*models.Supplier, error) {
	return getByID[models.Supplier](ctx, s.db, id)
}

func (s *Store) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := s.db.WithContext(ctx).Order("name asc").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (s *Store) UpdateSupplier(ctx context.Context, id uint, fields map[string]any) (*models.Supplier, error) {
	return updateFields[models.Supplier](ctx, s.db, id, fields)
}

func (s *Store) DeleteSupplier(ctx context.Context, id uint) error {
	return deleteByID[models.Supplier](ctx, s.db, id)
}

func (s *Store) CreatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error {
	if _, err := s.GetSupplier(ctx, po.SupplierID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(po).Error
}

func (s *Store) GetPurchaseOrder(ctx context.Context, id uint) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := s.db.WithContext(ctx).Preload("Items").First(&po, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

func (s *Store) ListPurchaseOrders(ctx context.Context, status models.PurchaseOrderStatus) ([]models.PurchaseOrder, error) {
	q := s.db.WithContext(ctx).Preload("Items")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var orders []models.PurchaseOrder
	if err := q.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) SetPurchaseOrderStatus(ctx context.Context, id uint, status models.PurchaseOrderStatus) (*models.PurchaseOrder, error) {
	po, err := s.GetPurchaseOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status == models.PurchaseOrderReceived || po.Status == models.PurchaseOrderCancelled {
		return nil, storage.ErrConflict
	}

	now := time.Now()
	fields := map[string]any{"status": status}
	switch status {
	case models.PurchaseOrderOrdered:
		fields["ordered_at"] = now
	case models.PurchaseOrderReceived:
		fields["received_at"] = now
	}
	if err := s.db.WithContext(ctx).Model(po).Updates(fields).Error; err != nil {
		return nil, err
	}
	return s.GetPurchaseOrder(ctx, id)
}
