package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/repository"
	"github.com/noah-isme/gradebook-api/internal/validation"
	"github.com/noah-isme/gradebook-api/pkg/config"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type studentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	ExistsByRollNo(ctx context.Context, rollNo int64) (bool, error)
	FindByRollNo(ctx context.Context, rollNo int64) (*models.Student, error)
	ListActive(ctx context.Context) ([]models.Student, error)
	ListWithSubjects(ctx context.Context) ([]models.StudentSubjectRow, error)
	ListWithGrades(ctx context.Context) ([]models.StudentGradeRow, error)
	Delete(ctx context.Context, rollNo int64) (int64, error)
	DeleteCascade(ctx context.Context, rollNo int64) (int64, error)
}

type studentGradeCleanup interface {
	CountByStudent(ctx context.Context, studentRoll int64) (int, error)
}

// CreateStudentRequest holds the payload for creating students. RollNo
// tolerates both JSON numbers and numeric strings.
type CreateStudentRequest struct {
	Name   string            `json:"name"`
	RollNo validation.Number `json:"roll_no"`
	Email  *string           `json:"email"`
	Phone  *string           `json:"phone"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo         studentRepository
	grades       studentGradeCleanup
	cache        *CacheService
	orphanPolicy string
	logger       *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, grades studentGradeCleanup, cache *CacheService, orphanPolicy string, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, grades: grades, cache: cache, orphanPolicy: orphanPolicy, logger: logger}
}

// Create registers a new student. The roll number must be unique; both the
// pre-emptive check and the store's constraint surface as 409.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	rollNo, violations := validation.StudentInput(req.Name, req.RollNo)
	if len(violations) > 0 {
		return nil, appErrors.Validation(violations)
	}

	exists, err := s.repo.ExistsByRollNo(ctx, rollNo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to add student")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("Student with roll_no %d already exists", rollNo))
	}

	student := &models.Student{
		RollNo: rollNo,
		Name:   strings.TrimSpace(req.Name),
		Email:  req.Email,
		Phone:  req.Phone,
		Status: models.StudentActive,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		if err == repository.ErrDuplicate {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("Student with roll_no %d already exists", rollNo))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to add student")
	}
	return student, nil
}

// List returns active students ordered by roll number.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	students, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch students")
	}
	return students, nil
}

// Details returns the outer-joined student/subject view. Students without
// grades still appear, with a null subject.
func (s *StudentService) Details(ctx context.Context) ([]models.StudentSubjectRow, error) {
	rows, err := s.repo.ListWithSubjects(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch students with subjects")
	}
	return rows, nil
}

// AllDetails returns the inner-joined student/subject/grade view.
func (s *StudentService) AllDetails(ctx context.Context) ([]models.StudentGradeRow, error) {
	rows, err := s.repo.ListWithGrades(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch students with grades and subjects")
	}
	return rows, nil
}

// Delete removes a student. Dependent grades follow the configured orphan
// policy: cascade removes them in the same transaction, orphan keeps them
// and logs a warning. Either way the report cache is invalidated.
func (s *StudentService) Delete(ctx context.Context, rollNo validation.Number) error {
	roll, ok := rollNo.PositiveInt()
	if !ok {
		return appErrors.Validation([]appErrors.FieldError{{Field: "student_id", Message: "student_id must be a positive integer"}})
	}

	var affected int64
	var err error
	if s.orphanPolicy == config.OrphanPolicyCascade {
		affected, err = s.repo.DeleteCascade(ctx, roll)
	} else {
		affected, err = s.repo.Delete(ctx, roll)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to delete student")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Student with roll_no %d not found", roll))
	}

	if s.orphanPolicy != config.OrphanPolicyCascade {
		orphaned, err := s.grades.CountByStudent(ctx, roll)
		if err != nil {
			s.logger.Warn("failed to count orphaned grades", zap.Int64("roll_no", roll), zap.Error(err))
		} else if orphaned > 0 {
			s.logger.Warn("student deleted with grades left orphaned",
				zap.Int64("roll_no", roll), zap.Int("orphaned_grades", orphaned))
		}
	}

	if err := s.cache.Invalidate(ctx, "reports:*"); err != nil {
		s.logger.Warn("failed to invalidate report cache", zap.Error(err))
	}
	return nil
}
