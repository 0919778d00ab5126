// Package messaging provides the internal inbox between staff accounts.
package messaging

import (
	"clinicpro-backend/internal/auth"
	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/validate"
	"clinicpro-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

var messageRules = validate.RuleSet{
	{Field: "recipient_id", Kind: validate.KindInt, Required: true, Min: validate.MinOf(1)},
	{Field: "subject", Kind: validate.KindString, Required: true, MaxLen: 200},
	{Field: "body", Kind: validate.KindString, Required: true},
}

// POST /api/messages
func SendMessageHandler(store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(messageRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		senderID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		recipientID := validate.Uint(fields, "recipient_id")
		if _, err := store.GetUser(c.Context(), recipientID); err != nil {
			return web.StoreError(err, "Recipient not found")
		}

		m := models.Message{
			SenderID:    senderID,
			RecipientID: recipientID,
			Subject:     validate.Str(fields, "subject"),
			Body:        validate.Str(fields, "body"),
		}
		if err := store.CreateMessage(c.Context(), &m); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Message could not be sent")
		}
		return c.JSON(m)
	}
}

// GET /api/messages
// Lists the authenticated user's inbox, newest first.
func ListMessagesHandler(store storage.MessageStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		messages, err := store.ListMessagesForUser(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Messages could not be loaded")
		}

		unread := 0
		for _, m := range messages {
			if !m.Read {
				unread++
			}
		}
		return c.JSON(fiber.Map{"messages": messages, "count": len(messages), "unread": unread})
	}
}

// PUT /api/messages/:id/read
// Marking twice is a no-op; the first read timestamp is kept.
func MarkMessageReadHandler(store storage.MessageStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		inbox, err := store.ListMessagesForUser(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Messages could not be loaded")
		}
		mine := false
		for _, m := range inbox {
			if m.ID == id {
				mine = true
				break
			}
		}
		if !mine {
			return fiber.NewError(fiber.StatusNotFound, "Message not found")
		}

		m, err := store.MarkMessageRead(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Message not found")
		}
		return c.JSON(m)
	}
}
