package gormstore

import (
	"context"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"

	"gorm.io/gorm"
)

func (s *Store) CreateEquipment(ctx context.Context, e *models.Equipment) error {
	return s.db.WithContext(ctx).Create(e).Error
}

func (s *Store) GetEquipment(ctx context.Context, id uint) (*models.Equipment, error) {
	return getByID[models.Equipment](ctx, s.db, id)
}

func (s *Store) ListEquipment(ctx context.Context, f storage.EquipmentFilter) ([]models.Equipment, error) {
	q := s.db.WithContext(ctx).Model(&models.Equipment{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Location != "" {
		q = q.Where("location = ?", f.Location)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var equipment []models.Equipment
	if err := q.Order("name asc").Find(&equipment).Error; err != nil {
		return nil, err
	}
	return equipment, nil
}

func (s *Store) UpdateEquipment(ctx context.Context, id uint, fields map[string]any) (*models.Equipment, error) {
	return updateFields[models.Equipment](ctx, s.db, id, fields)
}

func (s *Store) DeleteEquipment(ctx context.Context, id uint) error {
	return deleteByID[models.Equipment](ctx, s.db, id)
}

func (s *Store) CreateMaintenance(ctx context.Context, r *models.MaintenanceRecord) error {
	if _, err := s.GetEquipment(ctx, r.EquipmentID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *Store) GetMaintenance(ctx context.Context, id uint) (*models.MaintenanceRecord, error) {
	return getByID[models.MaintenanceRecord](ctx, s.db, id)
}

func (s *Store) ListMaintenance(ctx context.Context, equipmentID uint) ([]models.MaintenanceRecord, error) {
	var records []models.MaintenanceRecord
	err := s.db.WithContext(ctx).
		Where("equipment_id = ?", equipmentID).
		Order("created_at desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CompleteMaintenance marks the record completed and propagates service dates
// to the owning equipment in one transaction. A second completion call is a
// no-op: the record stays terminal and the equipment does not regress.
func (s *Store) CompleteMaintenance(ctx context.Context, id uint, p storage.MaintenanceCompletion) (*models.MaintenanceRecord, error) {
	rec, err := s.GetMaintenance(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status == models.MaintenanceCompleted {
		return rec, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recFields := map[string]any{
			"status":            models.MaintenanceCompleted,
			"completed_at":      p.CompletedAt,
			"issues_found":      p.IssuesFound,
			"actions_performed": p.ActionsPerformed,
			"cost":              p.Cost,
			"next_service_date": p.NextServiceDate,
		}
		if err := tx.Model(rec).Updates(recFields).Error; err != nil {
			return err
		}

		eqFields := map[string]any{
			"last_service_date": p.CompletedAt,
			"status":            models.EquipmentOperational,
		}
		if p.NextServiceDate != nil {
			eqFields["next_service_date"] = p.NextServiceDate
		}
		return tx.Model(&models.Equipment{}).Where("id = ?", rec.EquipmentID).Updates(eqFields).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetMaintenance(ctx, id)
}
