package academy

import (
	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/validate"
	"clinicpro-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

var courseRules = validate.RuleSet{
	{Field: "title", Kind: validate.KindString, Required: true, MaxLen: 150},
	{Field: "description", Kind: validate.KindString, MaxLen: 1000},
	{Field: "level", Kind: validate.KindEnum, Values: []string{"foundation", "advanced", "masterclass"}},
	{Field: "duration_days", Kind: validate.KindInt, Required: true, Min: validate.MinOf(1)},
	{Field: "price", Kind: validate.KindDecimal, Required: true, Min: validate.MinOf(0)},
	{Field: "max_students", Kind: validate.KindInt, Min: validate.MinOf(1), Default: 12},
	{Field: "active", Kind: validate.KindBool, Default: true},
}

// POST /api/courses
func CreateCourseHandler(store storage.CourseStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(courseRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		course := models.Course{
			Title:        validate.Str(fields, "title"),
			Description:  validate.Str(fields, "description"),
			Level:        validate.Str(fields, "level"),
			DurationDays: validate.Int(fields, "duration_days"),
			Price:        validate.Dec(fields, "price"),
			MaxStudents:  validate.Int(fields, "max_students"),
			Active:       validate.Bool(fields, "active"),
		}
		if err := store.CreateCourse(c.Context(), &course); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Course could not be created")
		}
		return c.JSON(course)
	}
}

// GET /api/courses?level=
func ListCoursesHandler(store storage.CourseStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		courses, err := store.ListCourses(c.Context(), c.Query("level"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Courses could not be loaded")
		}
		return c.JSON(fiber.Map{"courses": courses, "count": len(courses)})
	}
}

// GET /api/courses/:id
func GetCourseHandler(store storage.CourseStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		course, err := store.GetCourse(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Course not found")
		}
		return c.JSON(course)
	}
}

// PUT /api/courses/:id
func UpdateCourseHandler(store storage.CourseStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.ApplyPartial(courseRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}
		course, err := store.UpdateCourse(c.Context(), id, fields)
		if err != nil {
			return web.StoreError(err, "Course not found")
		}
		return c.JSON(course)
	}
}

// DELETE /api/courses/:id
func DeleteCourseHandler(store storage.CourseStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		if _, err := store.GetCourse(c.Context(), id); err != nil {
			return web.StoreError(err, "Course not found")
		}
		if err := store.DeleteCourse(c.Context(), id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Course could not be deleted")
		}
		return c.JSON(fiber.Map{"message": "Course deleted"})
	}
}
