package payments

import (
	"clinicpro-backend/internal/auth"
	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/validate"
	"clinicpro-backend/internal/web"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var paymentRules = validate.RuleSet{
	{Field: "client_id", Kind: validate.KindInt, Required: true, Min: validate.MinOf(1)},
	{Field: "booking_id", Kind: validate.KindInt, Min: validate.MinOf(1)},
	{Field: "amount", Kind: validate.KindDecimal, Required: true, Min: validate.MinOf(0.01)},
	{Field: "currency", Kind: validate.KindEnum, Values: []string{"GBP", "EUR", "USD"}, Default: "GBP"},
}

// POST /api/payments
// Creates a processor-side intent first; the stored row mirrors it.
func CreatePaymentHandler(store storage.Store, processor Processor, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(paymentRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		clientID := validate.Uint(fields, "client_id")
		if _, err := store.GetClient(c.Context(), clientID); err != nil {
			return web.StoreError(err, "Client not found")
		}
		if bookingID := validate.UintPtr(fields, "booking_id"); bookingID != nil {
			if _, err := store.GetBooking(c.Context(), *bookingID); err != nil {
				return web.StoreError(err, "Booking not found")
			}
		}

		amount := validate.Dec(fields, "amount")
		currency := validate.Str(fields, "currency")

		intentID, err := processor.CreateIntent(c.Context(), amount, currency)
		if err != nil {
			log.Error("payment intent creation failed", zap.Error(err))
			return fiber.NewError(fiber.StatusBadGateway, "The payment processor is unavailable")
		}

		p := models.Payment{
			ClientID:  clientID,
			BookingID: validate.UintPtr(fields, "booking_id"),
			Amount:    amount,
			Currency:  currency,
			Status:    models.PaymentPending,
			IntentID:  intentID,
		}
		if err := store.CreatePayment(c.Context(), &p); err != nil {
			return web.StoreError(err, "Client not found")
		}
		return c.JSON(p)
	}
}

// GET /api/payments?clientId=&status=
func ListPaymentsHandler(store storage.PaymentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := storage.PaymentFilter{
			ClientID: uint(c.QueryInt("clientId")),
			Status:   models.PaymentStatus(c.Query("status")),
		}
		payments, err := store.ListPayments(c.Context(), f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Payments could not be loaded")
		}
		return c.JSON(fiber.Map{"payments": payments, "count": len(payments)})
	}
}

// GET /api/payments/:id
func GetPaymentHandler(store storage.PaymentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		p, err := store.GetPayment(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Payment not found")
		}
		return c.JSON(p)
	}
}

// POST /api/payments/:id/verify-age
// Records which staff member confirmed the client's age for age-restricted
// treatments.
func VerifyAgeHandler(store storage.PaymentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		verifiedBy, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		p, err := store.SetPaymentAgeVerified(c.Context(), id, verifiedBy)
		if err != nil {
			return web.StoreError(err, "Payment not found")
		}
		return c.JSON(p)
	}
}
