package academy

import (
	"time"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/validate"
	"clinicpro-backend/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var certificationRules = validate.RuleSet{
	{Field: "student_id", Kind: validate.KindInt, Required: true, Min: validate.MinOf(1)},
	{Field: "name", Kind: validate.KindString, Required: true, MaxLen: 150},
	{Field: "issued_by", Kind: validate.KindString, Required: true, MaxLen: 150},
	{Field: "issue_date", Kind: validate.KindDate},
	{Field: "expiry_date", Kind: validate.KindDate},
	{Field: "cpd_hours", Kind: validate.KindFloat, Min: validate.MinOf(0), Default: float64(0)},
}

// POST /api/certifications
// Awarding a certification credits its CPD hours to the student.
func CreateCertificationHandler(store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(certificationRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		student, err := store.GetStudent(c.Context(), validate.Uint(fields, "student_id"))
		if err != nil {
			return web.StoreError(err, "Student not found")
		}

		issueDate := time.Now()
		if t, ok := validate.Time(fields, "issue_date"); ok {
			issueDate = t
		}
		cert := models.Certification{
			StudentID:         student.ID,
			Name:              validate.Str(fields, "name"),
			IssuedBy:          validate.Str(fields, "issued_by"),
			CertificateNumber: uuid.NewString(),
			IssueDate:         issueDate,
			ExpiryDate:        validate.TimePtr(fields, "expiry_date"),
			CPDHours:          validate.Float(fields, "cpd_hours"),
		}
		if err := store.CreateCertification(c.Context(), &cert); err != nil {
			return web.StoreError(err, "Student not found")
		}

		if cert.CPDHours > 0 {
			_, err := store.UpdateStudent(c.Context(), student.ID, map[string]any{
				"cpd_hours": student.CPDHours + cert.CPDHours,
			})
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "CPD hours could not be credited")
			}
		}

		return c.JSON(cert)
	}
}

// GET /api/certifications?studentId=
func ListCertificationsHandler(store storage.CertificationStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		certs, err := store.ListCertifications(c.Context(), uint(c.QueryInt("studentId")))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Certifications could not be loaded")
		}
		return c.JSON(fiber.Map{"certifications": certs, "count": len(certs)})
	}
}

// GET /api/certifications/expiring?days=60
func ListExpiringCertificationsHandler(store storage.CertificationStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		days := c.QueryInt("days", 60)
		if days <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "days must be positive")
		}

		certs, err := store.ListCertifications(c.Context(), 0)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Certifications could not be loaded")
		}

		cutoff := time.Now().AddDate(0, 0, days)
		expiring := make([]models.Certification, 0)
		for _, cert := range certs {
			if cert.ExpiryDate != nil && cert.ExpiryDate.Before(cutoff) {
				expiring = append(expiring, cert)
			}
		}
		return c.JSON(fiber.Map{"certifications": expiring, "count": len(expiring)})
	}
}
