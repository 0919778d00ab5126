// Package consent manages consent templates and the signed forms clients
// complete before treatments that require them.
package consent

import (
	"encoding/json"
	"time"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/validate"
	"clinicpro-backend/internal/web"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

var templateRules = validate.RuleSet{
	{Field: "name", Kind: validate.KindString, Required: true, MaxLen: 150},
	{Field: "version", Kind: validate.KindInt, Min: validate.MinOf(1), Default: 1},
	{Field: "content", Kind: validate.KindString, Required: true},
	{Field: "active", Kind: validate.KindBool, Default: true},
}

var createFormRules = validate.RuleSet{
	{Field: "template_id", Kind: validate.KindInt, Required: true, Min: validate.MinOf(1)},
	{Field: "client_id", Kind: validate.KindInt, Required: true, Min: validate.MinOf(1)},
}

var signFormRules = validate.RuleSet{
	{Field: "signed_by", Kind: validate.KindString, Required: true, MaxLen: 100},
}

var formStatusRules = validate.RuleSet{
	{Field: "status", Kind: validate.KindEnum, Required: true, Values: []string{"active", "expired", "withdrawn"}},
}

func jsonField(raw map[string]any, field string) (datatypes.JSON, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// POST /api/consent-templates
func CreateTemplateHandler(store storage.ConsentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(templateRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		fieldDefs, err := jsonField(raw, "fields")
		if err != nil {
			return web.Invalid(c, validate.FieldErrors{"fields": "must be valid JSON"})
		}

		t := models.ConsentTemplate{
			Name:    validate.Str(fields, "name"),
			Version: validate.Int(fields, "version"),
			Content: validate.Str(fields, "content"),
			Fields:  fieldDefs,
			Active:  validate.Bool(fields, "active"),
		}
		if err := store.CreateConsentTemplate(c.Context(), &t); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Template could not be created")
		}
		return c.JSON(t)
	}
}

// GET /api/consent-templates
func ListTemplatesHandler(store storage.ConsentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		templates, err := store.ListConsentTemplates(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Templates could not be loaded")
		}
		return c.JSON(fiber.Map{"templates": templates, "count": len(templates)})
	}
}

// GET /api/consent-templates/:id
func GetTemplateHandler(store storage.ConsentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		t, err := store.GetConsentTemplate(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Template not found")
		}
		return c.JSON(t)
	}
}

// POST /api/consent-forms
// A form starts unsigned; responses can be revised until it is signed.
func CreateFormHandler(store storage.ConsentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(createFormRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		responses, err := jsonField(raw, "responses")
		if err != nil {
			return web.Invalid(c, validate.FieldErrors{"responses": "must be valid JSON"})
		}

		f := models.ConsentForm{
			TemplateID: validate.Uint(fields, "template_id"),
			ClientID:   validate.Uint(fields, "client_id"),
			Responses:  responses,
			Status:     models.ConsentActive,
		}
		if err := store.CreateConsentForm(c.Context(), &f); err != nil {
			return web.StoreError(err, "Template or client not found")
		}
		return c.JSON(f)
	}
}

// GET /api/consent-forms?clientId=
func ListFormsHandler(store storage.ConsentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		forms, err := store.ListConsentForms(c.Context(), uint(c.QueryInt("clientId")))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Consent forms could not be loaded")
		}
		return c.JSON(fiber.Map{"forms": forms, "count": len(forms)})
	}
}

// GET /api/consent-forms/:id
func GetFormHandler(store storage.ConsentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		f, err := store.GetConsentForm(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Consent form not found")
		}
		return c.JSON(f)
	}
}

// PUT /api/consent-forms/:id
// Signed forms reject content edits with 409.
func UpdateFormHandler(store storage.ConsentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		raw, err := web.Body(c)
		if err != nil {
			return err
		}

		responses, err := jsonField(raw, "responses")
		if err != nil {
			return web.Invalid(c, validate.FieldErrors{"responses": "must be valid JSON"})
		}
		if responses == nil {
			return web.Invalid(c, validate.FieldErrors{"responses": "is required"})
		}

		f, err := store.UpdateConsentForm(c.Context(), id, map[string]any{"responses": responses})
		if err != nil {
			return web.StoreError(err, "Consent form not found")
		}
		return c.JSON(f)
	}
}

// POST /api/consent-forms/:id/sign
// Signing stamps the form; afterwards the responses are frozen.
func SignFormHandler(store storage.ConsentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(signFormRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		f, err := store.UpdateConsentForm(c.Context(), id, map[string]any{
			"signed_at": time.Now(),
			"signed_by": validate.Str(fields, "signed_by"),
		})
		if err != nil {
			return web.StoreError(err, "Consent form not found")
		}
		return c.JSON(f)
	}
}

// PUT /api/consent-forms/:id/status
// Status remains mutable after signing; withdrawal must always be possible.
func SetFormStatusHandler(store storage.ConsentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(formStatusRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		f, err := store.SetConsentFormStatus(c.Context(), id, models.ConsentStatus(validate.Str(fields, "status")))
		if err != nil {
			return web.StoreError(err, "Consent form not found")
		}
		return c.JSON(f)
	}
}
