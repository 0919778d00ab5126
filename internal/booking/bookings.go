package booking

import (
	"time"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/validate"
	"clinicpro-backend/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var createBookingRules = validate.RuleSet{
	{Field: "client_id", Kind: validate.KindInt, Required: true, Min: validate.MinOf(1)},
	{Field: "treatment_id", Kind: validate.KindInt, Required: true, Min: validate.MinOf(1)},
	{Field: "practitioner_id", Kind: validate.KindInt, Required: true, Min: validate.MinOf(1)},
	{Field: "starts_at", Kind: validate.KindDateTime, Required: true},
	{Field: "notes", Kind: validate.KindString, MaxLen: 500},
}

var updateBookingRules = validate.RuleSet{
	{Field: "starts_at", Kind: validate.KindDateTime},
	{Field: "status", Kind: validate.KindEnum, Values: []string{"scheduled", "completed", "cancelled", "no_show"}},
	{Field: "notes", Kind: validate.KindString, MaxLen: 500},
}

// POST /api/bookings
// The slot length comes from the treatment's duration. A slot that overlaps
// another scheduled booking for the same practitioner is rejected with 409.
func CreateBookingHandler(store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(createBookingRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		clientID := validate.Uint(fields, "client_id")
		if _, err := store.GetClient(c.Context(), clientID); err != nil {
			return web.StoreError(err, "Client not found")
		}
		treatment, err := store.GetTreatment(c.Context(), validate.Uint(fields, "treatment_id"))
		if err != nil {
			return web.StoreError(err, "Treatment not found")
		}
		practitionerID := validate.Uint(fields, "practitioner_id")
		if _, err := store.GetUser(c.Context(), practitionerID); err != nil {
			return web.StoreError(err, "Practitioner not found")
		}

		startsAt, _ := validate.Time(fields, "starts_at")
		endsAt := startsAt.Add(time.Duration(treatment.DurationMinutes) * time.Minute)

		overlaps, err := store.HasBookingOverlap(c.Context(), practitionerID, startsAt, endsAt, 0)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Availability check failed")
		}
		if overlaps {
			return fiber.NewError(fiber.StatusConflict, "The practitioner already has a booking in this slot")
		}

		b := models.Booking{
			Reference:      uuid.NewString(),
			ClientID:       clientID,
			TreatmentID:    treatment.ID,
			PractitionerID: practitionerID,
			StartsAt:       startsAt,
			EndsAt:         endsAt,
			Status:         models.BookingScheduled,
			Notes:          validate.Str(fields, "notes"),
		}
		if err := store.CreateBooking(c.Context(), &b); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Booking could not be created")
		}
		return c.JSON(b)
	}
}

// GET /api/bookings?clientId=&practitionerId=&status=&from=&to=
func ListBookingsHandler(store storage.BookingStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := storage.BookingFilter{
			ClientID:       uint(c.QueryInt("clientId")),
			PractitionerID: uint(c.QueryInt("practitionerId")),
			Status:         models.BookingStatus(c.Query("status")),
		}
		if from := c.Query("from"); from != "" {
			t, err := time.Parse(time.RFC3339, from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from must be an RFC3339 timestamp")
			}
			f.From = &t
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse(time.RFC3339, to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to must be an RFC3339 timestamp")
			}
			f.To = &t
		}

		bookings, err := store.ListBookings(c.Context(), f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bookings could not be loaded")
		}
		return c.JSON(fiber.Map{"bookings": bookings, "count": len(bookings)})
	}
}

// GET /api/bookings/:id
func GetBookingHandler(store storage.BookingStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		b, err := store.GetBooking(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Booking not found")
		}
		return c.JSON(b)
	}
}

// PUT /api/bookings/:id
// Rescheduling recomputes the end from the treatment duration and re-checks
// the practitioner's availability, ignoring this booking's own slot.
func UpdateBookingHandler(store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.ApplyPartial(updateBookingRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		current, err := store.GetBooking(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Booking not found")
		}

		if startsAt, ok := validate.Time(fields, "starts_at"); ok {
			treatment, err := store.GetTreatment(c.Context(), current.TreatmentID)
			if err != nil {
				return web.StoreError(err, "Treatment not found")
			}
			endsAt := startsAt.Add(time.Duration(treatment.DurationMinutes) * time.Minute)

			overlaps, err := store.HasBookingOverlap(c.Context(), current.PractitionerID, startsAt, endsAt, id)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Availability check failed")
			}
			if overlaps {
				return fiber.NewError(fiber.StatusConflict, "The practitioner already has a booking in this slot")
			}
			fields["ends_at"] = endsAt
		}

		b, err := store.UpdateBooking(c.Context(), id, fields)
		if err != nil {
			return web.StoreError(err, "Booking not found")
		}
		return c.JSON(b)
	}
}

// DELETE /api/bookings/:id
func DeleteBookingHandler(store storage.BookingStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		if _, err := store.GetBooking(c.Context(), id); err != nil {
			return web.StoreError(err, "Booking not found")
		}
		if err := store.DeleteBooking(c.Context(), id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Booking could not be deleted")
		}
		return c.JSON(fiber.Map{"message": "Booking deleted"})
	}
}
