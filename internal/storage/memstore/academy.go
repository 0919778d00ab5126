package memstore

import (
	"context"
	"time"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"

	"github.com/shopspring/decimal"
)

func (s *Store) CreateStudent(_ context.Context, st *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st.ID = s.nextID()
	st.CreatedAt = time.Now()
	st.UpdatedAt = st.CreatedAt
	if st.Status == "" {
		st.Status = models.StudentActive
	}
	s.students[st.ID] = *st
	return nil
}

func (s *Store) GetStudent(_ context.Context, id uint) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &st, nil
}

func (s *Store) ListStudents(_ context.Context, status models.StudentStatus) ([]models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	students := collect(s.students, func(st models.Student) bool {
		return status == "" || st.Status == status
	})
	return sortBy(students, func(a, b models.Student) bool {
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		return a.FirstName < b.FirstName
	}), nil
}

func (s *Store) UpdateStudent(_ context.Context, id uint, fields map[string]any) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "first_name":
			st.FirstName = v.(string)
		case "last_name":
			st.LastName = v.(string)
		case "email":
			st.Email = v.(string)
		case "phone":
			st.Phone = v.(string)
		case "cpd_hours":
			st.CPDHours = v.(float64)
		case "status":
			st.Status = models.StudentStatus(v.(string))
		}
	}
	st.UpdatedAt = time.Now()
	s.students[id] = st
	return &st, nil
}

func (s *Store) DeleteStudent(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.students, id)
	return nil
}

func (s *Store) CreateCourse(_ context.Context, c *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.courses[c.ID] = *c
	return nil
}

func (s *Store) GetCourse(_ context.Context, id uint) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (s *Store) ListCourses(_ context.Context, level string) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	courses := collect(s.courses, func(c models.Course) bool {
		return level == "" || c.Level == level
	})
	return sortBy(courses, func(a, b models.Course) bool { return a.Title < b.Title }), nil
}

func (s *Store) UpdateCourse(_ context.Context, id uint, fields map[string]any) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "title":
			c.Title = v.(string)
		case "description":
			c.Description = v.(string)
		case "level":
			c.Level = v.(string)
		case "duration_days":
			c.DurationDays = v.(int)
		case "price":
			c.Price = v.(decimal.Decimal)
		case "max_students":
			c.MaxStudents = v.(int)
		case "active":
			c.Active = v.(bool)
		}
	}
	c.UpdatedAt = time.Now()
	s.courses[id] = c
	return &c, nil
}

func (s *Store) DeleteCourse(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.courses, id)
	return nil
}

func (s *Store) CreateEnrollment(_ context.Context, e *models.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[e.StudentID]; !ok {
		return storage.ErrNotFound
	}
	if _, ok := s.courses[e.CourseID]; !ok {
		return storage.ErrNotFound
	}
	e.ID = s.nextID()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	if e.Status == "" {
		e.Status = models.EnrollmentEnrolled
	}
	s.enrollments[e.ID] = *e
	return nil
}

func (s *Store) GetEnrollment(_ context.Context, id uint) (*models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.enrollments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &e, nil
}

func (s *Store) ListEnrollments(_ context.Context, f storage.EnrollmentFilter) ([]models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	enrollments := collect(s.enrollments, func(e models.Enrollment) bool {
		if f.StudentID != 0 && e.StudentID != f.StudentID {
			return false
		}
		if f.CourseID != 0 && e.CourseID != f.CourseID {
			return false
		}
		return true
	})
	return sortBy(enrollments, func(a, b models.Enrollment) bool { return a.ID > b.ID }), nil
}

func (s *Store) UpdateEnrollment(_ context.Context, id uint, fields map[string]any) (*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.enrollments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "status":
			e.Status = models.EnrollmentStatus(v.(string))
		}
	}
	e.UpdatedAt = time.Now()
	s.enrollments[id] = e
	return &e, nil
}

func (s *Store) CountActiveEnrollments(_ context.Context, courseID uint) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.enrollments {
		if e.CourseID == courseID && e.Status == models.EnrollmentEnrolled {
			count++
		}
	}
	return count, nil
}

func (s *Store) CreateAssessment(_ context.Context, a *models.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[a.StudentID]; !ok {
		return storage.ErrNotFound
	}
	if _, ok := s.courses[a.CourseID]; !ok {
		return storage.ErrNotFound
	}
	a.ID = s.nextID()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	if a.Status == "" {
		a.Status = models.AssessmentPending
	}
	s.assessments[a.ID] = *a
	return nil
}

func (s *Store) GetAssessment(_ context.Context, id uint) (*models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assessments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &a, nil
}

func (s *Store) ListAssessments(_ context.Context, f storage.AssessmentFilter) ([]models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assessments := collect(s.assessments, func(a models.Assessment) bool {
		if f.StudentID != 0 && a.StudentID != f.StudentID {
			return false
		}
		if f.CourseID != 0 && a.CourseID != f.CourseID {
			return false
		}
		return true
	})
	return sortBy(assessments, func(a, b models.Assessment) bool { return a.ID > b.ID }), nil
}

func (s *Store) UpdateAssessment(_ context.Context, id uint, fields map[string]any) (*models.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assessments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "title":
			a.Title = v.(string)
		case "score":
			a.Score = v.(float64)
		case "passed":
			a.Passed = v.(bool)
		case "status":
			a.Status = models.AssessmentStatus(v.(string))
		case "assessed_on":
			a.AssessedOn = ptrTime(v.(time.Time))
		}
	}
	a.UpdatedAt = time.Now()
	s.assessments[id] = a
	return &a, nil
}

func (s *Store) CreateCertification(_ context.Context, c *models.Certification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[c.StudentID]; !ok {
		return storage.ErrNotFound
	}
	c.ID = s.nextID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.certifications[c.ID] = *c
	return nil
}

func (s *Store) ListCertifications(_ context.Context, studentID uint) ([]models.Certification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	certs := collect(s.certifications, func(c models.Certification) bool {
		return studentID == 0 || c.StudentID == studentID
	})
	return sortBy(certs, func(a, b models.Certification) bool { return a.ID > b.ID }), nil
}
