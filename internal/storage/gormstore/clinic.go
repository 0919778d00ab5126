package gormstore

import (
	"context"
	"errors"
	"time"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"

	"gorm.io/gorm"
)

func (s *Store) CreateClient(ctx context.Context, c *models.Client) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *Store) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	return getByID[models.Client](ctx, s.db, id)
}

func (s *Store) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.WithContext(ctx).Order("last_name asc, first_name asc").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *Store) UpdateClient(ctx context.Context, id uint, fields map[string]any) (*models.Client, error) {
	return updateFields[models.Client](ctx, s.db, id, fields)
}

func (s *Store) DeleteClient(ctx context.Context, id uint) error {
	return deleteByID[models.Client](ctx, s.db, id)
}

func (s *Store) CreateTreatment(ctx context.Context, t *models.Treatment) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *Store) GetTreatment(ctx context.Context, id uint) (*models.Treatment, error) {
	return getByID[models.Treatment](ctx, s.db, id)
}

func (s *Store) ListTreatments(ctx context.Context, category string) ([]models.Treatment, error) {
	q := s.db.WithContext(ctx).Model(&models.Treatment{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var treatments []models.Treatment
	if err := q.Order("name asc").Find(&treatments).Error; err != nil {
		return nil, err
	}
	return treatments, nil
}

func (s *Store) UpdateTreatment(ctx context.Context, id uint, fields map[string]any) (*models.Treatment, error) {
	return updateFields[models.Treatment](ctx, s.db, id, fields)
}

func (s *Store) DeleteTreatment(ctx context.Context, id uint) error {
	return deleteByID[models.Treatment](ctx, s.db, id)
}

func (s *Store) CreateBooking(ctx context.Context, b *models.Booking) error {
	return s.db.WithContext(ctx).Create(b).Error
}

func (s *Store) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	return getByID[models.Booking](ctx, s.db, id)
}

func (s *Store) ListBookings(ctx context.Context, f storage.BookingFilter) ([]models.Booking, error) {
	q := s.db.WithContext(ctx).Model(&models.Booking{})
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.PractitionerID != 0 {
		q = q.Where("practitioner_id = ?", f.PractitionerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("starts_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("starts_at < ?", *f.To)
	}
	var bookings []models.Booking
	if err := q.Order("starts_at asc").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *Store) UpdateBooking(ctx context.Context, id uint, fields map[string]any) (*models.Booking, error) {
	return updateFields[models.Booking](ctx, s.db, id, fields)
}

func (s *Store) DeleteBooking(ctx context.Context, id uint) error {
	return deleteByID[models.Booking](ctx, s.db, id)
}

func (s *Store) HasBookingOverlap(ctx context.Context, practitionerID uint, start, end time.Time, excludeID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("practitioner_id = ? AND status = ? AND starts_at < ? AND ends_at > ? AND id <> ?",
			practitionerID, models.BookingScheduled, end, start, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) CreateConsentTemplate(ctx context.Context, t *models.ConsentTemplate) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *Store) GetConsentTemplate(ctx context.Context, id uint) (*models.ConsentTemplate, error) {
	return getByID[models.ConsentTemplate](ctx, s.db, id)
}

func (s *Store) ListConsentTemplates(ctx context.Context) ([]models.ConsentTemplate, error) {
	var templates []models.ConsentTemplate
	if err := s.db.WithContext(ctx).Order("name asc, version desc").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (s *Store) CreateConsentForm(ctx context.Context, f *models.ConsentForm) error {
	if _, err := s.GetConsentTemplate(ctx, f.TemplateID); err != nil {
		return err
	}
	if _, err := s.GetClient(ctx, f.ClientID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(f).Error
}

func (s *Store) GetConsentForm(ctx context.Context, id uint) (*models.ConsentForm, error) {
	return getByID[models.ConsentForm](ctx, s.db, id)
}

func (s *Store) ListConsentForms(ctx context.Context, clientID uint) ([]models.ConsentForm, error) {
	q := s.db.WithContext(ctx).Model(&models.ConsentForm{})
	if clientID != 0 {
		q = q.Where("client_id = ?", clientID)
	}
	var forms []models.ConsentForm
	if err := q.Order("created_at desc").Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

func (s *Store) UpdateConsentForm(ctx context.Context, id uint, fields map[string]any) (*models.ConsentForm, error) {
	form, err := s.GetConsentForm(ctx, id)
	if err != nil {
		return nil, err
	}
	if form.SignedAt != nil {
		return nil, storage.ErrImmutable
	}
	return updateFields[models.ConsentForm](ctx, s.db, id, fields)
}

func (s *Store) SetConsentFormStatus(ctx context.Context, id uint, status models.ConsentStatus) (*models.ConsentForm, error) {
	form, err := s.GetConsentForm(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(form).Update("status", status).Error; err != nil {
		return nil, err
	}
	return s.GetConsentForm(ctx, id)
}

func (s *Store) CreateMessage(ctx context.Context, m *models.Message) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *Store) ListMessagesForUser(ctx context.Context, recipientID uint) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at desc").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *Store) MarkMessageRead(ctx context.Context, id uint) (*models.Message, error) {
	msg, err := getByID[models.Message](ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if msg.Read {
		return msg, nil
	}
	now := time.Now()
	if err := s.db.WithContext(ctx).Model(msg).Updates(map[string]any{"read": true, "read_at": now}).Error; err != nil {
		return nil, err
	}
	return getByID[models.Message](ctx, s.db, id)
}

func (s *Store) CreatePayment(ctx context.Context, p *models.Payment) error {
	if _, err := s.GetClient(ctx, p.ClientID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *Store) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	return getByID[models.Payment](ctx, s.db, id)
}

func (s *Store) ListPayments(ctx context.Context, f storage.PaymentFilter) ([]models.Payment, error) {
	q := s.db.WithContext(ctx).Model(&models.Payment{})
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var payments []models.Payment
	if err := q.Order("created_at desc").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *Store) SetPaymentAgeVerified(ctx context.Context, id, verifiedBy uint) (*models.Payment, error) {
	p, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	fields := map[string]any{
		"age_verified":    true,
		"age_verified_by": verifiedBy,
		"age_verified_at": now,
	}
	if err := s.db.WithContext(ctx).Model(p).Updates(fields).Error; err != nil {
		return nil, err
	}
	return s.GetPayment(ctx, id)
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return getByID[models.User](ctx, s.db, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) CountUsersByRole(ctx context.Context, role models.UserRole) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return int(count), err
}

func (s *Store) CreateAuditLog(ctx context.Context, l *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(l).Error
}

func (s *Store) ListAuditLogs(ctx context.Context, f storage.AuditFilter) ([]models.AuditLog, error) {
	q := s.db.WithContext(ctx).Model(&models.AuditLog{})
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var logs []models.AuditLog
	if err := q.Order("created_at desc").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *Store) CreateAlert(ctx context.Context, a *models.Alert) error {
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *Store) ListAlerts(ctx context.Context, f storage.AlertFilter) ([]models.Alert, error) {
	q := s.db.WithContext(ctx).Model(&models.Alert{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.ResourceType != "" {
		q = q.Where("resource_type = ?", f.ResourceType)
	}
	if f.UnreadOnly {
		q = q.Where("read = ?", false)
	}
	if !f.IncludeDismissed {
		q = q.Where("dismissed = ?", false)
	}
	var alerts []models.Alert
	if err := q.Order("created_at desc").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (s *Store) SetAlertRead(ctx context.Context, id uint) (*models.Alert, error) {
	a, err := getByID[models.Alert](ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(a).Update("read", true).Error; err != nil {
		return nil, err
	}
	return getByID[models.Alert](ctx, s.db, id)
}

func (s *Store) SetAlertDismissed(ctx context.Context, id uint) (*models.Alert, error) {
	a, err := getByID[models.Alert](ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(a).Update("dismissed", true).Error; err != nil {
		return nil, err
	}
	return getByID[models.Alert](ctx, s.db, id)
}
