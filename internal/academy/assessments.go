package academy

import (
	"time"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/validate"
	"clinicpro-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

// PassMark is the score at or above which an assessment counts as passed.
const PassMark = 70.0

var createAssessmentRules = validate.RuleSet{
	{Field: "student_id", Kind: validate.KindInt, Required: true, Min: validate.MinOf(1)},
	{Field: "course_id", Kind: validate.KindInt, Required: true, Min: validate.MinOf(1)},
	{Field: "title", Kind: validate.KindString, Required: true, MaxLen: 150},
}

var gradeAssessmentRules = validate.RuleSet{
	{Field: "score", Kind: validate.KindFloat, Required: true, Min: validate.MinOf(0), Max: validate.MaxOf(100)},
	{Field: "assessed_on", Kind: validate.KindDate},
}

// POST /api/assessments
func CreateAssessmentHandler(store storage.AssessmentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(createAssessmentRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		a := models.Assessment{
			StudentID: validate.Uint(fields, "student_id"),
			CourseID:  validate.Uint(fields, "course_id"),
			Title:     validate.Str(fields, "title"),
			Status:    models.AssessmentPending,
		}
		if err := store.CreateAssessment(c.Context(), &a); err != nil {
			return web.StoreError(err, "Student or course not found")
		}
		return c.JSON(a)
	}
}

// GET /api/assessments?studentId=&courseId=
func ListAssessmentsHandler(store storage.AssessmentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := storage.AssessmentFilter{
			StudentID: uint(c.QueryInt("studentId")),
			CourseID:  uint(c.QueryInt("courseId")),
		}
		assessments, err := store.ListAssessments(c.Context(), f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Assessments could not be loaded")
		}
		return c.JSON(fiber.Map{"assessments": assessments, "count": len(assessments)})
	}
}

// PUT /api/assessments/:id/grade
// Grading derives the pass flag from the score and moves the record to
// graded state.
func GradeAssessmentHandler(store storage.AssessmentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(gradeAssessmentRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		score := validate.Float(fields, "score")
		assessedOn := time.Now()
		if t, ok := validate.Time(fields, "assessed_on"); ok {
			assessedOn = t
		}

		a, err := store.UpdateAssessment(c.Context(), id, map[string]any{
			"score":       score,
			"passed":      score >= PassMark,
			"status":      string(models.AssessmentGraded),
			"assessed_on": assessedOn,
		})
		if err != nil {
			return web.StoreError(err, "Assessment not found")
		}
		return c.JSON(a)
	}
}
