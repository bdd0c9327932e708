package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/repository"
	"github.com/noah-isme/gradebook-api/internal/validation"
	"github.com/noah-isme/gradebook-api/pkg/config"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type subjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	ExistsByName(ctx context.Context, name string) (bool, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	ListActive(ctx context.Context) ([]models.Subject, error)
	Delete(ctx context.Context, id string) (int64, error)
	DeleteCascade(ctx context.Context, id string) (int64, error)
}

type subjectGradeCleanup interface {
	CountBySubject(ctx context.Context, subjectID string) (int, error)
}

// CreateSubjectRequest holds the payload for creating subjects.
type CreateSubjectRequest struct {
	Subject     string  `json:"subject"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
}

// SubjectService handles subject use-cases.
type SubjectService struct {
	repo         subjectRepository
	grades       subjectGradeCleanup
	cache        *CacheService
	orphanPolicy string
	logger       *zap.Logger
}

// NewSubjectService constructs the subject service.
func NewSubjectService(repo subjectRepository, grades subjectGradeCleanup, cache *CacheService, orphanPolicy string, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, grades: grades, cache: cache, orphanPolicy: orphanPolicy, logger: logger}
}

// Create registers a new subject. The name is trimmed before storage and
// before the uniqueness comparison.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	if violations := validation.SubjectInput(req.Subject); len(violations) > 0 {
		return nil, appErrors.Validation(violations)
	}

	name := strings.TrimSpace(req.Subject)
	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to add subject")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Subject already exists")
	}

	subject := &models.Subject{
		Name:        name,
		Description: req.Description,
		Active:      true,
	}
	if req.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.Code))
		if code != "" {
			subject.Code = &code
		}
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		if err == repository.ErrDuplicate {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Subject already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to add subject")
	}
	return subject, nil
}

// List returns active subjects ordered by name.
func (s *SubjectService) List(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch subjects")
	}
	return subjects, nil
}

// Delete removes a subject. Dependent grades follow the configured orphan
// policy, mirroring student deletion, and the report cache is invalidated.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return appErrors.Clone(appErrors.ErrBadRequest, "Invalid subject_id format")
	}

	var affected int64
	var err error
	if s.orphanPolicy == config.OrphanPolicyCascade {
		affected, err = s.repo.DeleteCascade(ctx, id)
	} else {
		affected, err = s.repo.Delete(ctx, id)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to delete subject")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "Subject not found")
	}

	if s.orphanPolicy != config.OrphanPolicyCascade {
		orphaned, err := s.grades.CountBySubject(ctx, id)
		if err != nil {
			s.logger.Warn("failed to count orphaned grades", zap.String("subject_id", id), zap.Error(err))
		} else if orphaned > 0 {
			s.logger.Warn("subject deleted with grades left orphaned",
				zap.String("subject_id", id), zap.Int("orphaned_grades", orphaned))
		}
	}

	if err := s.cache.Invalidate(ctx, "reports:*"); err != nil {
		s.logger.Warn("failed to invalidate report cache", zap.Error(err))
	}
	return nil
}
