package academy

import (
	"time"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/validate"
	"clinicpro-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

var createEnrollmentRules = validate.RuleSet{
	{Field: "student_id", Kind: validate.KindInt, Required: true, Min: validate.MinOf(1)},
	{Field: "course_id", Kind: validate.KindInt, Required: true, Min: validate.MinOf(1)},
	{Field: "enrolled_on", Kind: validate.KindDate},
}

var updateEnrollmentRules = validate.RuleSet{
	{Field: "status", Kind: validate.KindEnum, Required: true, Values: []string{"enrolled", "completed", "withdrawn"}},
}

// POST /api/enrollments
// A course with max_students active enrollments is full and rejects further
// enrollments with 409.
func CreateEnrollmentHandler(store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(createEnrollmentRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		studentID := validate.Uint(fields, "student_id")
		if _, err := store.GetStudent(c.Context(), studentID); err != nil {
			return web.StoreError(err, "Student not found")
		}
		course, err := store.GetCourse(c.Context(), validate.Uint(fields, "course_id"))
		if err != nil {
			return web.StoreError(err, "Course not found")
		}

		active, err := store.CountActiveEnrollments(c.Context(), course.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Capacity check failed")
		}
		if active >= course.MaxStudents {
			return fiber.NewError(fiber.StatusConflict, "The course is full")
		}

		enrolledOn := time.Now()
		if t, ok := validate.Time(fields, "enrolled_on"); ok {
			enrolledOn = t
		}
		e := models.Enrollment{
			StudentID:  studentID,
			CourseID:   course.ID,
			EnrolledOn: enrolledOn,
			Status:     models.EnrollmentEnrolled,
		}
		if err := store.CreateEnrollment(c.Context(), &e); err != nil {
			return web.StoreError(err, "Student or course not found")
		}
		return c.JSON(e)
	}
}

// GET /api/enrollments?studentId=&courseId=
func ListEnrollmentsHandler(store storage.EnrollmentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := storage.EnrollmentFilter{
			StudentID: uint(c.QueryInt("studentId")),
			CourseID:  uint(c.QueryInt("courseId")),
		}
		enrollments, err := store.ListEnrollments(c.Context(), f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Enrollments could not be loaded")
		}
		return c.JSON(fiber.Map{"enrollments": enrollments, "count": len(enrollments)})
	}
}

// PUT /api/enrollments/:id
func UpdateEnrollmentHandler(store storage.EnrollmentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(updateEnrollmentRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}
		e, err := store.UpdateEnrollment(c.Context(), id, fields)
		if err != nil {
			return web.StoreError(err, "Enrollment not found")
		}
		return c.JSON(e)
	}
}
