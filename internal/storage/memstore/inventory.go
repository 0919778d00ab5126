package memstore

import (
	"context"
	"time"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"

	"github.com/shopspring/decimal"
)

func (s *Store) CreateItem(_ context.Context, item *models.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = s.nextID()
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	s.items[item.ID] = *item
	return nil
}

func (s *Store) GetItem(_ context.Context, id uint) (*models.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &item, nil
}

func (s *Store) ListItems(_ context.Context, f storage.ItemFilter) ([]models.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := collect(s.items, func(it models.InventoryItem) bool {
		if f.Category != "" && it.Category != f.Category {
			return false
		}
		if f.Location != "" && it.Location != f.Location {
			return false
		}
		if f.SupplierID != 0 && (it.SupplierID == nil || *it.SupplierID != f.SupplierID) {
			return false
		}
		return true
	})
	return sortBy(items, func(a, b models.InventoryItem) bool { return a.Name < b.Name }), nil
}

func (s *Store) UpdateItem(_ context.Context, id uint, fields map[string]any) (*models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			item.Name = v.(string)
		case "category":
			item.Category = v.(string)
		case "location":
			item.Location = v.(string)
		case "unit":
			item.Unit = v.(string)
		case "min_stock_level":
			item.MinStockLevel = v.(int)
		case "max_stock_level":
			item.MaxStockLevel = v.(int)
		case "expiry_date":
			item.ExpiryDate = ptrTime(v.(time.Time))
		case "unit_cost":
			item.UnitCost = v.(decimal.Decimal)
		case "supplier_id":
			id := uint(v.(int))
			item.SupplierID = &id
		}
	}
	item.UpdatedAt = time.Now()
	s.items[id] = item
	return &item, nil
}

func (s *Store) DeleteItem(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// RecordMovement holds the store lock for the whole read-compute-write cycle,
// so the ledger and the cached quantity cannot diverge.
func (s *Store) RecordMovement(_ context.Context, p storage.MovementParams) (*models.StockMovement, error) {
	if p.Quantity <= 0 {
		return nil, storage.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[p.ItemID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	newQty := item.CurrentStock - p.Quantity
	if p.Type == models.MovementIn {
		newQty = item.CurrentStock + p.Quantity
	}
	if newQty < 0 {
		return nil, storage.ErrInsufficientStock
	}

	mv := models.StockMovement{
		ID:               s.nextID(),
		ItemID:           item.ID,
		Type:             p.Type,
		Quantity:         p.Quantity,
		PreviousQuantity: item.CurrentStock,
		NewQuantity:      newQty,
		Reason:           p.Reason,
		Reference:        p.Reference,
		ActorID:          p.ActorID,
		CreatedAt:        time.Now(),
	}
	s.movements[mv.ID] = mv

	item.CurrentStock = newQty
	item.UpdatedAt = mv.CreatedAt
	s.items[item.ID] = item

	return &mv, nil
}

func (s *Store) ListMovements(_ context.Context, itemID uint) ([]models.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	movements := collect(s.movements, func(m models.StockMovement) bool { return m.ItemID == itemID })
	return sortBy(movements, func(a, b models.StockMovement) bool { return a.ID > b.ID }), nil
}

func (s *Store) CreateSupplier(_ context.Context, sup *models.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sup.ID = s.nextID()
	sup.CreatedAt = time.Now()
	sup.UpdatedAt = sup.CreatedAt
	s.suppliers[sup.ID] = *sup
	return nil
}

func (s *Store) GetSupplier(_ context.Context, id uint) (*models.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sup, ok := s.suppliers[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &sup, nil
}

func (s *Store) ListSuppliers(_ context.Context) ([]models.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortBy(collect(s.suppliers, nil), func(a, b models.Supplier) bool { return a.Name < b.Name }), nil
}

func (s *Store) UpdateSupplier(_ context.Context, id uint, fields map[string]any) (*models.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sup, ok := s.suppliers[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			sup.Name = v.(string)
		case "contact_name":
			sup.ContactName = v.(string)
		case "email":
			sup.Email = v.(string)
		case "phone":
			sup.Phone = v.(string)
		case "notes":
			sup.Notes = v.(string)
		}
	}
	sup.UpdatedAt = time.Now()
	s.suppliers[id] = sup
	return &sup, nil
}

func (s *Store) DeleteSupplier(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.suppliers, id)
	return nil
}

func (s *Store) CreatePurchaseOrder(_ context.Context, po *models.PurchaseOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.suppliers[po.SupplierID]; !ok {
		return storage.ErrNotFound
	}
	po.ID = s.nextID()
	po.CreatedAt = time.Now()
	po.UpdatedAt = po.CreatedAt
	for i := range po.Items {
		po.Items[i].ID = s.nextID()
		po.Items[i].PurchaseOrderID = po.ID
	}
	s.purchaseOrders[po.ID] = *po
	return nil
}

func (s *Store) GetPurchaseOrder(_ context.Context, id uint) (*models.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	po, ok := s.purchaseOrders[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &po, nil
}

func (s *Store) ListPurchaseOrders(_ context.Context, status models.PurchaseOrderStatus) ([]models.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := collect(s.purchaseOrders, func(po models.PurchaseOrder) bool {
		return status == "" || po.Status == status
	})
	return sortBy(orders, func(a, b models.PurchaseOrder) bool { return a.ID > b.ID }), nil
}

func (s *Store) SetPurchaseOrderStatus(_ context.Context, id uint, status models.PurchaseOrderStatus) (*models.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	po, ok := s.purchaseOrders[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if po.Status == models.PurchaseOrderReceived || po.Status == models.PurchaseOrderCancelled {
		return nil, storage.ErrConflict
	}

	now := time.Now()
	po.Status = status
	switch status {
	case models.PurchaseOrderOrdered:
		po.OrderedAt = &now
	case models.PurchaseOrderReceived:
		po.ReceivedAt = &now
	}
	po.UpdatedAt = now
	s.purchaseOrders[id] = po
	return &po, nil
}
