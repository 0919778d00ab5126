package gormstore

import (
	"context"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
)

func (s *Store) CreateStudent(ctx context.Context, st *models.Student) error {
	return s.db.WithContext(ctx).Create(st).Error
}

func (s *Store) GetStudent(ctx context.Context, id uint) (*models.Student, error) {
	return getByID[models.Student](ctx, s.db, id)
}

func (s *Store) ListStudents(ctx context.Context, status models.StudentStatus) ([]models.Student, error) {
	q := s.db.WithContext(ctx).Model(&models.Student{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var students []models.Student
	if err := q.Order("last_name asc, first_name asc").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (s *Store) UpdateStudent(ctx context.Context, id uint, fields map[string]any) (*models.Student, error) {
	return updateFields[models.Student](ctx, s.db, id, fields)
}

func (s *Store) DeleteStudent(ctx context.Context, id uint) error {
	return deleteByID[models.Student](ctx, s.db, id)
}

func (s *Store) CreateCourse(ctx context.Context, c *models.Course) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *Store) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	return getByID[models.Course](ctx, s.db, id)
}

func (s *Store) ListCourses(ctx context.Context, level string) ([]models.Course, error) {
	q := s.db.WithContext(ctx).Model(&models.Course{})
	if level != "" {
		q = q.Where("level = ?", level)
	}
	var courses []models.Course
	if err := q.Order("title asc").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *Store) UpdateCourse(ctx context.Context, id uint, fields map[string]any) (*models.Course, error) {
	return updateFields[models.Course](ctx, s.db, id, fields)
}

func (s *Store) DeleteCourse(ctx context.Context, id uint) error {
	return deleteByID[models.Course](ctx, s.db, id)
}

func (s *Store) CreateEnrollment(ctx context.Context, e *models.Enrollment) error {
	if _, err := s.GetStudent(ctx, e.StudentID); err != nil {
		return err
	}
	if _, err := s.GetCourse(ctx, e.CourseID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(e).Error
}

func (s *Store) GetEnrollment(ctx context.Context, id uint) (*models.Enrollment, error) {
	return getByID[models.Enrollment](ctx, s.db, id)
}

func (s *Store) ListEnrollments(ctx context.Context, f storage.EnrollmentFilter) ([]models.Enrollment, error) {
	q := s.db.WithContext(ctx).Model(&models.Enrollment{})
	if f.StudentID != 0 {
		q = q.Where("student_id = ?", f.StudentID)
	}
	if f.CourseID != 0 {
		q = q.Where("course_id = ?", f.CourseID)
	}
	var enrollments []models.Enrollment
	if err := q.Order("enrolled_on desc").Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (s *Store) UpdateEnrollment(ctx context.Context, id uint, fields map[string]any) (*models.Enrollment, error) {
	return updateFields[models.Enrollment](ctx, s.db, id, fields)
}

func (s *Store) CountActiveEnrollments(ctx context.Context, courseID uint) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, models.EnrollmentEnrolled).
		Count(&count).Error
	return int(count), err
}

func (s *Store) CreateAssessment(ctx context.Context, a *models.Assessment) error {
	if _, err := s.GetStudent(ctx, a.StudentID); err != nil {
		return err
	}
	if _, err := s.GetCourse(ctx, a.CourseID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *Store) GetAssessment(ctx context.Context, id uint) (*models.Assessment, error) {
	return getByID[models.Assessment](ctx, s.db, id)
}

func (s *Store) ListAssessments(ctx context.Context, f storage.AssessmentFilter) ([]models.Assessment, error) {
	q := s.db.WithContext(ctx).Model(&models.Assessment{})
	if f.StudentID != 0 {
		q = q.Where("student_id = ?", f.StudentID)
	}
	if f.CourseID != 0 {
		q = q.Where("course_id = ?", f.CourseID)
	}
	var assessments []models.Assessment
	if err := q.Order("created_at desc").Find(&assessments).Error; err != nil {
		return nil, err
	}
	return assessments, nil
}

func (s *Store) UpdateAssessment(ctx context.Context, id uint, fields map[string]any) (*models.Assessment, error) {
	return updateFields[models.Assessment](ctx, s.db, id, fields)
}

func (s *Store) CreateCertification(ctx context.Context, c *models.Certification) error {
	if _, err := s.GetStudent(ctx, c.StudentID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *Store) ListCertifications(ctx context.Context, studentID uint) ([]models.Certification, error) {
	q := s.db.WithContext(ctx).Model(&models.Certification{})
	if studentID != 0 {
		q = q.Where("student_id = ?", studentID)
	}
	var certs []models.Certification
	if err := q.Order("issue_date desc").Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}
