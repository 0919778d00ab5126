// Package academy manages the training side: students, courses, enrollments,
// assessments and certifications.
package academy

import (
	"time"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/validate"
	"clinicpro-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

var studentRules = validate.RuleSet{
	{Field: "first_name", Kind: validate.KindString, Required: true, MaxLen: 100},
	{Field: "last_name", Kind: validate.KindString, Required: true, MaxLen: 100},
	{Field: "email", Kind: validate.KindString, Required: true, MaxLen: 100},
	{Field: "phone", Kind: validate.KindString, MaxLen: 50},
	{Field: "cpd_hours", Kind: validate.KindFloat, Min: validate.MinOf(0), Default: float64(0)},
	{Field: "status", Kind: validate.KindEnum, Values: []string{"active", "graduated", "withdrawn"}, Default: "active"},
}

// POST /api/students
func CreateStudentHandler(store storage.StudentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(studentRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		student := models.Student{
			FirstName:  validate.Str(fields, "first_name"),
			LastName:   validate.Str(fields, "last_name"),
			Email:      validate.Str(fields, "email"),
			Phone:      validate.Str(fields, "phone"),
			EnrolledAt: time.Now(),
			CPDHours:   validate.Float(fields, "cpd_hours"),
			Status:     models.StudentStatus(validate.Str(fields, "status")),
		}
		if err := store.CreateStudent(c.Context(), &student); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Student could not be created")
		}
		return c.JSON(student)
	}
}

// GET /api/students?status=
func ListStudentsHandler(store storage.StudentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		students, err := store.ListStudents(c.Context(), models.StudentStatus(c.Query("status")))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Students could not be loaded")
		}
		return c.JSON(fiber.Map{"students": students, "count": len(students)})
	}
}

// GET /api/students/:id
func GetStudentHandler(store storage.StudentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		student, err := store.GetStudent(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Student not found")
		}
		return c.JSON(student)
	}
}

// PUT /api/students/:id
func UpdateStudentHandler(store storage.StudentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.ApplyPartial(studentRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}
		student, err := store.UpdateStudent(c.Context(), id, fields)
		if err != nil {
			return web.StoreError(err, "Student not found")
		}
		return c.JSON(student)
	}
}

// DELETE /api/students/:id
func DeleteStudentHandler(store storage.StudentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		if _, err := store.GetStudent(c.Context(), id); err != nil {
			return web.StoreError(err, "Student not found")
		}
		if err := store.DeleteStudent(c.Context(), id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Student could not be deleted")
		}
		return c.JSON(fiber.Map{"message": "Student deleted"})
	}
}
