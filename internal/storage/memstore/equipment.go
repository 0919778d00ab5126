package memstore

import (
	"context"
	"time"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
)

func (s *Store) CreateEquipment(_ context.Context, e *models.Equipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextID()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	if e.Status == "" {
		e.Status = models.EquipmentOperational
	}
	s.equipment[e.ID] = *e
	return nil
}

func (s *Store) GetEquipment(_ context.Context, id uint) (*models.Equipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.equipment[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &e, nil
}

func (s *Store) ListEquipment(_ context.Context, f storage.EquipmentFilter) ([]models.Equipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	equipment := collect(s.equipment, func(e models.Equipment) bool {
		if f.Category != "" && e.Category != f.Category {
			return false
		}
		if f.Location != "" && e.Location != f.Location {
			return false
		}
		if f.Status != "" && e.Status != f.Status {
			return false
		}
		return true
	})
	return sortBy(equipment, func(a, b models.Equipment) bool { return a.Name < b.Name }), nil
}

func (s *Store) UpdateEquipment(_ context.Context, id uint, fields map[string]any) (*models.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.equipment[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			e.Name = v.(string)
		case "category":
			e.Category = v.(string)
		case "location":
			e.Location = v.(string)
		case "notes":
			e.Notes = v.(string)
		case "service_interval_days":
			e.ServiceIntervalDays = v.(int)
		case "status":
			e.Status = models.EquipmentStatus(v.(string))
		case "next_service_date":
			e.NextServiceDate = ptrTime(v.(time.Time))
		}
	}
	e.UpdatedAt = time.Now()
	s.equipment[id] = e
	return &e, nil
}

func (s *Store) DeleteEquipment(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.equipment, id)
	return nil
}

func (s *Store) CreateMaintenance(_ context.Context, r *models.MaintenanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.equipment[r.EquipmentID]; !ok {
		return storage.ErrNotFound
	}
	r.ID = s.nextID()
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	if r.Status == "" {
		r.Status = models.MaintenanceScheduled
	}
	s.maintenance[r.ID] = *r
	return nil
}

func (s *Store) GetMaintenance(_ context.Context, id uint) (*models.MaintenanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.maintenance[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &r, nil
}

func (s *Store) ListMaintenance(_ context.Context, equipmentID uint) ([]models.MaintenanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := collect(s.maintenance, func(r models.MaintenanceRecord) bool { return r.EquipmentID == equipmentID })
	return sortBy(records, func(a, b models.MaintenanceRecord) bool { return a.ID > b.ID }), nil
}

func (s *Store) CompleteMaintenance(_ context.Context, id uint, p storage.MaintenanceCompletion) (*models.MaintenanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.maintenance[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if r.Status == models.MaintenanceCompleted {
		return &r, nil
	}

	now := time.Now()
	r.Status = models.MaintenanceCompleted
	r.CompletedAt = ptrTime(p.CompletedAt)
	r.IssuesFound = p.IssuesFound
	r.ActionsPerformed = p.ActionsPerformed
	r.Cost = p.Cost
	r.NextServiceDate = p.NextServiceDate
	r.UpdatedAt = now
	s.maintenance[id] = r

	if e, ok := s.equipment[r.EquipmentID]; ok {
		e.LastServiceDate = ptrTime(p.CompletedAt)
		if p.NextServiceDate != nil {
			e.NextServiceDate = p.NextServiceDate
		}
		e.Status = models.EquipmentOperational
		e.UpdatedAt = now
		s.equipment[e.ID] = e
	}

	return &r, nil
}

func (s *Store) CreateAlert(_ context.Context, a *models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.nextID()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	s.alerts[a.ID] = *a
	return nil
}

func (s *Store) ListAlerts(_ context.Context, f storage.AlertFilter) ([]models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alerts := collect(s.alerts, func(a models.Alert) bool {
		if f.Type != "" && a.Type != f.Type {
			return false
		}
		if f.ResourceType != "" && a.ResourceType != f.ResourceType {
			return false
		}
		if f.UnreadOnly && a.Read {
			return false
		}
		if !f.IncludeDismissed && a.Dismissed {
			return false
		}
		return true
	})
	return sortBy(alerts, func(a, b models.Alert) bool { return a.ID > b.ID }), nil
}

func (s *Store) SetAlertRead(_ context.Context, id uint) (*models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.alerts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	a.Read = true
	a.UpdatedAt = time.Now()
	s.alerts[id] = a
	return &a, nil
}

func (s *Store) SetAlertDismissed(_ context.Context, id uint) (*models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.alerts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	a.Dismissed = true
	a.UpdatedAt = time.Now()
	s.alerts[id] = a
	return &a, nil
}
