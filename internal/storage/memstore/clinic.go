package memstore

import (
	"context"
	"time"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func (s *Store) CreateClient(_ context.Context, c *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.clients[c.ID] = *c
	return nil
}

func (s *Store) GetClient(_ context.Context, id uint) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (s *Store) ListClients(_ context.Context) ([]models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortBy(collect(s.clients, nil), func(a, b models.Client) bool {
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		return a.FirstName < b.FirstName
	}), nil
}

func (s *Store) UpdateClient(_ context.Context, id uint, fields map[string]any) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "first_name":
			c.FirstName = v.(string)
		case "last_name":
			c.LastName = v.(string)
		case "email":
			c.Email = v.(string)
		case "phone":
			c.Phone = v.(string)
		case "date_of_birth":
			c.DateOfBirth = ptrTime(v.(time.Time))
		case "notes":
			c.Notes = v.(string)
		}
	}
	c.UpdatedAt = time.Now()
	s.clients[id] = c
	return &c, nil
}

func (s *Store) DeleteClient(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, id)
	return nil
}

func (s *Store) CreateTreatment(_ context.Context, t *models.Treatment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.nextID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	s.treatments[t.ID] = *t
	return nil
}

func (s *Store) GetTreatment(_ context.Context, id uint) (*models.Treatment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.treatments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &t, nil
}

func (s *Store) ListTreatments(_ context.Context, category string) ([]models.Treatment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	treatments := collect(s.treatments, func(t models.Treatment) bool {
		return category == "" || t.Category == category
	})
	return sortBy(treatments, func(a, b models.Treatment) bool { return a.Name < b.Name }), nil
}

func (s *Store) UpdateTreatment(_ context.Context, id uint, fields map[string]any) (*models.Treatment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.treatments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			t.Name = v.(string)
		case "category":
			t.Category = v.(string)
		case "duration_minutes":
			t.DurationMinutes = v.(int)
		case "price":
			t.Price = v.(decimal.Decimal)
		case "requires_consent":
			t.RequiresConsent = v.(bool)
		case "active":
			t.Active = v.(bool)
		}
	}
	t.UpdatedAt = time.Now()
	s.treatments[id] = t
	return &t, nil
}

func (s *Store) DeleteTreatment(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.treatments, id)
	return nil
}

func (s *Store) CreateBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = s.nextID()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	if b.Status == "" {
		b.Status = models.BookingScheduled
	}
	s.bookings[b.ID] = *b
	return nil
}

func (s *Store) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &b, nil
}

func (s *Store) ListBookings(_ context.Context, f storage.BookingFilter) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := collect(s.bookings, func(b models.Booking) bool {
		if f.ClientID != 0 && b.ClientID != f.ClientID {
			return false
		}
		if f.PractitionerID != 0 && b.PractitionerID != f.PractitionerID {
			return false
		}
		if f.Status != "" && b.Status != f.Status {
			return false
		}
		if f.From != nil && b.StartsAt.Before(*f.From) {
			return false
		}
		if f.To != nil && !b.StartsAt.Before(*f.To) {
			return false
		}
		return true
	})
	return sortBy(bookings, func(a, b models.Booking) bool { return a.StartsAt.Before(b.StartsAt) }), nil
}

func (s *Store) UpdateBooking(_ context.Context, id uint, fields map[string]any) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "starts_at":
			b.StartsAt = v.(time.Time)
		case "ends_at":
			b.EndsAt = v.(time.Time)
		case "status":
			b.Status = models.BookingStatus(v.(string))
		case "notes":
			b.Notes = v.(string)
		case "practitioner_id":
			b.PractitionerID = uint(v.(int))
		}
	}
	b.UpdatedAt = time.Now()
	s.bookings[id] = b
	return &b, nil
}

func (s *Store) DeleteBooking(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bookings, id)
	return nil
}

func (s *Store) HasBookingOverlap(_ context.Context, practitionerID uint, start, end time.Time, excludeID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bookings {
		if b.ID == excludeID || b.PractitionerID != practitionerID || b.Status != models.BookingScheduled {
			continue
		}
		if b.StartsAt.Before(end) && b.EndsAt.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreateConsentTemplate(_ context.Context, t *models.ConsentTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.nextID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	s.templates[t.ID] = *t
	return nil
}

func (s *Store) GetConsentTemplate(_ context.Context, id uint) (*models.ConsentTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &t, nil
}

func (s *Store) ListConsentTemplates(_ context.Context) ([]models.ConsentTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortBy(collect(s.templates, nil), func(a, b models.ConsentTemplate) bool { return a.ID < b.ID }), nil
}

func (s *Store) CreateConsentForm(_ context.Context, f *models.ConsentForm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[f.TemplateID]; !ok {
		return storage.ErrNotFound
	}
	if _, ok := s.clients[f.ClientID]; !ok {
		return storage.ErrNotFound
	}
	f.ID = s.nextID()
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	if f.Status == "" {
		f.Status = models.ConsentActive
	}
	s.consentForms[f.ID] = *f
	return nil
}

func (s *Store) GetConsentForm(_ context.Context, id uint) (*models.ConsentForm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.consentForms[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &f, nil
}

func (s *Store) ListConsentForms(_ context.Context, clientID uint) ([]models.ConsentForm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	forms := collect(s.consentForms, func(f models.ConsentForm) bool {
		return clientID == 0 || f.ClientID == clientID
	})
	return sortBy(forms, func(a, b models.ConsentForm) bool { return a.ID > b.ID }), nil
}

func (s *Store) UpdateConsentForm(_ context.Context, id uint, fields map[string]any) (*models.ConsentForm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.consentForms[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if f.SignedAt != nil {
		return nil, storage.ErrImmutable
	}
	for k, v := range fields {
		switch k {
		case "responses":
			f.Responses = v.(datatypes.JSON)
		case "signed_at":
			f.SignedAt = ptrTime(v.(time.Time))
		case "signed_by":
			f.SignedBy = v.(string)
		}
	}
	f.UpdatedAt = time.Now()
	s.consentForms[id] = f
	return &f, nil
}

func (s *Store) SetConsentFormStatus(_ context.Context, id uint, status models.ConsentStatus) (*models.ConsentForm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.consentForms[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	f.Status = status
	f.UpdatedAt = time.Now()
	s.consentForms[id] = f
	return &f, nil
}

func (s *Store) CreateMessage(_ context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.nextID()
	m.CreatedAt = time.Now()
	s.messages[m.ID] = *m
	return nil
}

func (s *Store) ListMessagesForUser(_ context.Context, recipientID uint) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := collect(s.messages, func(m models.Message) bool { return m.RecipientID == recipientID })
	return sortBy(messages, func(a, b models.Message) bool { return a.ID > b.ID }), nil
}

func (s *Store) MarkMessageRead(_ context.Context, id uint) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if !m.Read {
		m.Read = true
		m.ReadAt = ptrTime(time.Now())
		s.messages[id] = m
	}
	return &m, nil
}

func (s *Store) CreatePayment(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[p.ClientID]; !ok {
		return storage.ErrNotFound
	}
	p.ID = s.nextID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	if p.Status == "" {
		p.Status = models.PaymentPending
	}
	s.payments[p.ID] = *p
	return nil
}

func (s *Store) GetPayment(_ context.Context, id uint) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListPayments(_ context.Context, f storage.PaymentFilter) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payments := collect(s.payments, func(p models.Payment) bool {
		if f.ClientID != 0 && p.ClientID != f.ClientID {
			return false
		}
		if f.Status != "" && p.Status != f.Status {
			return false
		}
		return true
	})
	return sortBy(payments, func(a, b models.Payment) bool { return a.ID > b.ID }), nil
}

func (s *Store) SetPaymentAgeVerified(_ context.Context, id, verifiedBy uint) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	now := time.Now()
	p.AgeVerified = true
	p.AgeVerifiedBy = &verifiedBy
	p.AgeVerifiedAt = &now
	p.UpdatedAt = now
	s.payments[id] = p
	return &p, nil
}

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.ID = s.nextID()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) CountUsersByRole(_ context.Context, role models.UserRole) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, u := range s.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

func (s *Store) CreateAuditLog(_ context.Context, l *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l.ID = s.nextID()
	l.CreatedAt = time.Now()
	s.auditLogs[l.ID] = *l
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, f storage.AuditFilter) ([]models.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := collect(s.auditLogs, func(l models.AuditLog) bool {
		return f.EntityType == "" || l.EntityType == f.EntityType
	})
	logs = sortBy(logs, func(a, b models.AuditLog) bool { return a.ID > b.ID })
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}
