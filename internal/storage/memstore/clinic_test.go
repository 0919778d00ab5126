package memstore

import (
	"context"
	"testing"
	"time"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestBookingOverlapDetection(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	existing := &models.Booking{
		Reference: "b-1", ClientID: 1, TreatmentID: 1, PractitionerID: 5,
		StartsAt: base, EndsAt: base.Add(time.Hour), Status: models.BookingScheduled,
	}
	require.NoError(t, s.CreateBooking(ctx, existing))

	cases := []struct {
		name    string
		start   time.Time
		overlap bool
	}{
		{"inside", base.Add(30 * time.Minute), true},
		{"exact", base, true},
		{"straddles start", base.Add(-30 * time.Minute), true},
		{"back to back after", base.Add(time.Hour), false},
		{"well before", base.Add(-2 * time.Hour), false},
	}
	for _, tc := range cases {
		got, err := s.HasBookingOverlap(ctx, 5, tc.start, tc.start.Add(time.Hour), 0)
		require.NoError(t, err)
		assert.Equal(t, tc.overlap, got, tc.name)
	}

	// Different practitioner never conflicts.
	got, err := s.HasBookingOverlap(ctx, 6, base, base.Add(time.Hour), 0)
	require.NoError(t, err)
	assert.False(t, got)

	// The booking's own slot is excluded when rescheduling.
	got, err = s.HasBookingOverlap(ctx, 5, base, base.Add(time.Hour), existing.ID)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestCancelledBookingFreesTheSlot(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	b := &models.Booking{
		Reference: "b-2", ClientID: 1, TreatmentID: 1, PractitionerID: 5,
		StartsAt: base, EndsAt: base.Add(time.Hour), Status: models.BookingScheduled,
	}
	require.NoError(t, s.CreateBooking(ctx, b))

	_, err := s.UpdateBooking(ctx, b.ID, map[string]any{"status": "cancelled"})
	require.NoError(t, err)

	got, err := s.HasBookingOverlap(ctx, 5, base, base.Add(time.Hour), 0)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestConsentFormImmutableAfterSigning(t *testing.T) {
	s := New()
	ctx := context.Background()

	tmpl := &models.ConsentTemplate{Name: "Filler Consent", Content: "terms"}
	require.NoError(t, s.CreateConsentTemplate(ctx, tmpl))
	client := &models.Client{FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, s.CreateClient(ctx, client))

	form := &models.ConsentForm{
		TemplateID: tmpl.ID,
		ClientID:   client.ID,
		Responses:  datatypes.JSON([]byte(`{"allergies":"none"}`)),
	}
	require.NoError(t, s.CreateConsentForm(ctx, form))

	// Unsigned forms accept revisions.
	_, err := s.UpdateConsentForm(ctx, form.ID, map[string]any{
		"responses": datatypes.JSON([]byte(`{"allergies":"latex"}`)),
	})
	require.NoError(t, err)

	// Signing goes through the same update path.
	signed, err := s.UpdateConsentForm(ctx, form.ID, map[string]any{
		"signed_at": time.Now(),
		"signed_by": "Ada Lovelace",
	})
	require.NoError(t, err)
	require.NotNil(t, signed.SignedAt)

	_, err = s.UpdateConsentForm(ctx, form.ID, map[string]any{
		"responses": datatypes.JSON([]byte(`{"allergies":"changed my mind"}`)),
	})
	assert.ErrorIs(t, err, storage.ErrImmutable)

	// Status stays mutable after signing.
	got, err := s.SetConsentFormStatus(ctx, form.ID, models.ConsentWithdrawn)
	require.NoError(t, err)
	assert.Equal(t, models.ConsentWithdrawn, got.Status)
}

func TestConsentFormRequiresTemplateAndClient(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.CreateConsentForm(ctx, &models.ConsentForm{TemplateID: 1, ClientID: 1})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMarkMessageReadKeepsFirstTimestamp(t *testing.T) {
	s := New()
	ctx := context.Background()

	m := &models.Message{SenderID: 1, RecipientID: 2, Subject: "rota", Body: "swap?"}
	require.NoError(t, s.CreateMessage(ctx, m))

	first, err := s.MarkMessageRead(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, first.ReadAt)

	second, err := s.MarkMessageRead(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ReadAt, second.ReadAt)
}

func TestCountActiveEnrollments(t *testing.T) {
	s := New()
	ctx := context.Background()

	st := &models.Student{FirstName: "May", LastName: "Wong", Email: "may@example.com"}
	require.NoError(t, s.CreateStudent(ctx, st))
	course := &models.Course{Title: "Foundation Aesthetics", DurationDays: 5, MaxStudents: 2}
	require.NoError(t, s.CreateCourse(ctx, course))

	e1 := &models.Enrollment{StudentID: st.ID, CourseID: course.ID, EnrolledOn: time.Now()}
	require.NoError(t, s.CreateEnrollment(ctx, e1))

	count, err := s.CountActiveEnrollments(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = s.UpdateEnrollment(ctx, e1.ID, map[string]any{"status": "withdrawn"})
	require.NoError(t, err)

	count, err = s.CountActiveEnrollments(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPaymentAgeVerification(t *testing.T) {
	s := New()
	ctx := context.Background()

	client := &models.Client{FirstName: "Ben", LastName: "Ng"}
	require.NoError(t, s.CreateClient(ctx, client))

	p := &models.Payment{ClientID: client.ID, IntentID: "local_x", Currency: "GBP"}
	require.NoError(t, s.CreatePayment(ctx, p))
	assert.Equal(t, models.PaymentPending, p.Status)

	got, err := s.SetPaymentAgeVerified(ctx, p.ID, 9)
	require.NoError(t, err)
	assert.True(t, got.AgeVerified)
	require.NotNil(t, got.AgeVerifiedBy)
	assert.Equal(t, uint(9), *got.AgeVerifiedBy)
	require.NotNil(t, got.AgeVerifiedAt)
}

func TestAuditLogLimit(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 120; i++ {
		require.NoError(t, s.CreateAuditLog(ctx, &models.AuditLog{EntityType: "inventory_item", EntityID: uint(i + 1)}))
	}

	logs, err := s.ListAuditLogs(ctx, storage.AuditFilter{})
	require.NoError(t, err)
	assert.Len(t, logs, 100, "default limit")

	logs, err = s.ListAuditLogs(ctx, storage.AuditFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 10)
	assert.Greater(t, logs[0].ID, logs[9].ID, "newest first")
}
