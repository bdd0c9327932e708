package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/repository"
	"github.com/noah-isme/gradebook-api/internal/validation"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type gradeRepository interface {
	Create(ctx context.Context, grade *models.Grade) error
	UpdateByPair(ctx context.Context, grade *models.Grade) (int64, error)
	DeleteByPair(ctx context.Context, studentRoll int64, subjectID string) (*models.Grade, error)
	FindByPair(ctx context.Context, studentRoll int64, subjectID string) (*models.Grade, error)
	ListByStudent(ctx context.Context, studentRoll int64) ([]models.StudentGradeDetail, error)
	ListBySubject(ctx context.Context, subjectID string) ([]models.SubjectGradeDetail, error)
}

type gradeStudentReader interface {
	ExistsByRollNo(ctx context.Context, rollNo int64) (bool, error)
}

type gradeSubjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// GradeRequest is the payload for both grade creation and update. StudentID
// and Attendance tolerate numeric strings; grade points are always derived
// from the letter, never read from the payload.
type GradeRequest struct {
	StudentID  validation.Number `json:"student_id"`
	SubjectID  string            `json:"subject_id"`
	Grade      string            `json:"grade"`
	Attendance validation.Number `json:"attendance"`
	Remarks    *string           `json:"remarks"`
}

// GradeService handles grade use-cases.
type GradeService struct {
	repo     gradeRepository
	students gradeStudentReader
	subjects gradeSubjectReader
	cache    *CacheService
	logger   *zap.Logger
}

// NewGradeService constructs the grade service.
func NewGradeService(repo gradeRepository, students gradeStudentReader, subjects gradeSubjectReader, cache *CacheService, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{repo: repo, students: students, subjects: subjects, cache: cache, logger: logger}
}

const duplicatePairMessage = "Grade already exists for this student-subject combination. Use update instead."

// Create records a new grade after checking both referenced entities exist
// and no grade exists yet for the (student, subject) pair.
func (s *GradeService) Create(ctx context.Context, req GradeRequest) (*models.Grade, error) {
	result, violations := validation.GradeInput(req.StudentID, req.SubjectID, req.Grade, req.Attendance)
	if len(violations) > 0 {
		return nil, appErrors.Validation(violations)
	}

	exists, err := s.students.ExistsByRollNo(ctx, result.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to add grade")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Student with roll_no %d not found", result.StudentID))
	}

	if _, err := uuid.Parse(req.SubjectID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "Invalid subject_id format")
	}
	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Subject with ID %s not found", req.SubjectID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to add grade")
	}

	if _, err := s.repo.FindByPair(ctx, result.StudentID, req.SubjectID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, duplicatePairMessage)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to add grade")
	}

	grade := &models.Grade{
		StudentID:  result.StudentID,
		SubjectID:  req.SubjectID,
		Letter:     result.Letter,
		Points:     result.Points,
		Attendance: result.Attendance,
		Remarks:    req.Remarks,
	}
	if err := s.repo.Create(ctx, grade); err != nil {
		if err == repository.ErrDuplicate {
			return nil, appErrors.Clone(appErrors.ErrConflict, duplicatePairMessage)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to add grade")
	}

	s.invalidateReports(ctx)
	return grade, nil
}

// Update re-validates the full payload and replaces the existing grade for
// the (student, subject) pair. It never creates: a missing pair is a 404.
func (s *GradeService) Update(ctx context.Context, req GradeRequest) (*models.Grade, error) {
	result, violations := validation.GradeInput(req.StudentID, req.SubjectID, req.Grade, req.Attendance)
	if len(violations) > 0 {
		return nil, appErrors.Validation(violations)
	}
	if _, err := uuid.Parse(req.SubjectID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "Invalid subject_id format")
	}

	grade := &models.Grade{
		StudentID:  result.StudentID,
		SubjectID:  req.SubjectID,
		Letter:     result.Letter,
		Points:     result.Points,
		Attendance: result.Attendance,
	}
	affected, err := s.repo.UpdateByPair(ctx, grade)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to update grade")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Grade not found for this student-subject combination")
	}

	updated, err := s.repo.FindByPair(ctx, result.StudentID, req.SubjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to update grade")
	}

	s.invalidateReports(ctx)
	return updated, nil
}

// Delete removes the grade for a (student, subject) pair.
func (s *GradeService) Delete(ctx context.Context, studentID validation.Number, subjectID string) (*models.Grade, error) {
	roll, ok := studentID.PositiveInt()
	if !ok {
		return nil, appErrors.Validation([]appErrors.FieldError{{Field: "student_id", Message: "student_id must be a positive integer"}})
	}
	if _, err := uuid.Parse(subjectID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "Invalid subject_id format")
	}

	deleted, err := s.repo.DeleteByPair(ctx, roll, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Grade not found for this student-subject combination")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to delete grade")
	}

	s.invalidateReports(ctx)
	return deleted, nil
}

// ListByStudent returns one student's grades with subject info, newest first.
func (s *GradeService) ListByStudent(ctx context.Context, studentID validation.Number) ([]models.StudentGradeDetail, error) {
	roll, ok := studentID.PositiveInt()
	if !ok {
		return nil, appErrors.Validation([]appErrors.FieldError{{Field: "student_id", Message: "student_id must be a positive integer"}})
	}
	grades, err := s.repo.ListByStudent(ctx, roll)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch student grades")
	}
	return grades, nil
}

// ListBySubject returns one subject's grades enriched with student names.
// A grade whose roll number no longer resolves reads "Unknown".
func (s *GradeService) ListBySubject(ctx context.Context, subjectID string) ([]models.SubjectGradeDetail, error) {
	if _, err := uuid.Parse(subjectID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "Invalid subject_id format")
	}
	grades, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch subject grades")
	}
	unknown := "Unknown"
	for i := range grades {
		if grades[i].StudentName == nil {
			grades[i].StudentName = &unknown
		}
	}
	return grades, nil
}

func (s *GradeService) invalidateReports(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "reports:*"); err != nil {
		s.logger.Warn("failed to invalidate report cache", zap.Error(err))
	}
}
