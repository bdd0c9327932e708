package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/repository"
	"github.com/noah-isme/gradebook-api/internal/validation"
	"github.com/noah-isme/gradebook-api/pkg/config"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type fakeStudentRepo struct {
	exists        bool
	createErr     error
	created       *models.Student
	affected      int64
	deleteCalled  bool
	cascadeCalled bool
	cascadeRoll   int64
}

func (f *fakeStudentRepo) Create(_ context.Context, student *models.Student) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = student
	return nil
}

func (f *fakeStudentRepo) ExistsByRollNo(context.Context, int64) (bool, error) {
	return f.exists, nil
}

func (f *fakeStudentRepo) FindByRollNo(context.Context, int64) (*models.Student, error) {
	return nil, nil
}

func (f *fakeStudentRepo) ListActive(context.Context) ([]models.Student, error) {
	return nil, nil
}

func (f *fakeStudentRepo) ListWithSubjects(context.Context) ([]models.StudentSubjectRow, error) {
	return nil, nil
}

func (f *fakeStudentRepo) ListWithGrades(context.Context) ([]models.StudentGradeRow, error) {
	return nil, nil
}

func (f *fakeStudentRepo) Delete(context.Context, int64) (int64, error) {
	f.deleteCalled = true
	return f.affected, nil
}

func (f *fakeStudentRepo) DeleteCascade(_ context.Context, roll int64) (int64, error) {
	f.cascadeCalled = true
	f.cascadeRoll = roll
	return f.affected, nil
}

type fakeGradeCleanup struct {
	orphaned int
}

func (f *fakeGradeCleanup) CountByStudent(context.Context, int64) (int, error) {
	return f.orphaned, nil
}

type fakeCacheStore struct {
	entries     map[string][]byte
	invalidated []string
}

func newFakeCacheStore() *fakeCacheStore {
	return &fakeCacheStore{entries: map[string][]byte{}}
}

func (f *fakeCacheStore) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCacheStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeCacheStore) DeleteByPattern(_ context.Context, pattern string) error {
	f.invalidated = append(f.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range f.entries {
		if strings.HasPrefix(key, prefix) {
			delete(f.entries, key)
		}
	}
	return nil
}

func TestStudentCreateValidationFailure(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{}, &fakeGradeCleanup{}, nil, config.OrphanPolicyOrphan, nil)

	_, err := svc.Create(context.Background(), CreateStudentRequest{Name: "A", RollNo: validation.Number("zero")})
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Validation failed", appErr.Message)
	assert.Len(t, appErr.Fields, 2)
}

func TestStudentCreateDuplicateRoll(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{exists: true}, &fakeGradeCleanup{}, nil, config.OrphanPolicyOrphan, nil)

	_, err := svc.Create(context.Background(), CreateStudentRequest{Name: "Asha Rao", RollNo: validation.Number("12")})
	appErr := appErrors.FromError(err)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "Student with roll_no 12 already exists", appErr.Message)
}

func TestStudentCreateConstraintRace(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{createErr: repository.ErrDuplicate}, &fakeGradeCleanup{}, nil, config.OrphanPolicyOrphan, nil)

	_, err := svc.Create(context.Background(), CreateStudentRequest{Name: "Asha Rao", RollNo: validation.Number("12")})
	appErr := appErrors.FromError(err)
	assert.Equal(t, 409, appErr.Status)
}

func TestStudentCreateSuccess(t *testing.T) {
	repo := &fakeStudentRepo{}
	svc := NewStudentService(repo, &fakeGradeCleanup{}, nil, config.OrphanPolicyOrphan, nil)

	student, err := svc.Create(context.Background(), CreateStudentRequest{Name: "Asha Rao", RollNo: validation.Number("12")})
	require.NoError(t, err)
	assert.Equal(t, int64(12), student.RollNo)
	assert.Equal(t, models.StudentActive, student.Status)
	require.NotNil(t, repo.created)
}

func TestStudentCreateTrimsName(t *testing.T) {
	repo := &fakeStudentRepo{}
	svc := NewStudentService(repo, &fakeGradeCleanup{}, nil, config.OrphanPolicyOrphan, nil)

	student, err := svc.Create(context.Background(), CreateStudentRequest{Name: "  Asha Rao  ", RollNo: validation.Number("12")})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", student.Name)
	assert.Equal(t, "Asha Rao", repo.created.Name)
}

func TestStudentDeleteNotFound(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{affected: 0}, &fakeGradeCleanup{}, nil, config.OrphanPolicyOrphan, nil)

	err := svc.Delete(context.Background(), validation.Number("12"))
	appErr := appErrors.FromError(err)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Student with roll_no 12 not found", appErr.Message)
}

func TestStudentDeleteCascadeRemovesGrades(t *testing.T) {
	repo := &fakeStudentRepo{affected: 1}
	svc := NewStudentService(repo, &fakeGradeCleanup{}, nil, config.OrphanPolicyCascade, nil)

	require.NoError(t, svc.Delete(context.Background(), validation.Number("12")))
	assert.True(t, repo.cascadeCalled)
	assert.Equal(t, int64(12), repo.cascadeRoll)
	assert.False(t, repo.deleteCalled)
}

func TestStudentDeleteCascadeNotFound(t *testing.T) {
	repo := &fakeStudentRepo{affected: 0}
	svc := NewStudentService(repo, &fakeGradeCleanup{}, nil, config.OrphanPolicyCascade, nil)

	err := svc.Delete(context.Background(), validation.Number("12"))
	appErr := appErrors.FromError(err)
	assert.Equal(t, 404, appErr.Status)
	assert.True(t, repo.cascadeCalled)
}

func TestStudentDeleteOrphanKeepsGrades(t *testing.T) {
	repo := &fakeStudentRepo{affected: 1}
	svc := NewStudentService(repo, &fakeGradeCleanup{orphaned: 3}, nil, config.OrphanPolicyOrphan, nil)

	require.NoError(t, svc.Delete(context.Background(), validation.Number("12")))
	assert.True(t, repo.deleteCalled)
	assert.False(t, repo.cascadeCalled)
}

func TestStudentDeleteInvalidatesReportCache(t *testing.T) {
	store := newFakeCacheStore()
	cache := NewCacheService(store, nil, time.Minute, nil, true)

	for _, policy := range []string{config.OrphanPolicyCascade, config.OrphanPolicyOrphan} {
		svc := NewStudentService(&fakeStudentRepo{affected: 1}, &fakeGradeCleanup{}, cache, policy, nil)
		require.NoError(t, svc.Delete(context.Background(), validation.Number("7")))
	}
	assert.Equal(t, []string{"reports:*", "reports:*"}, store.invalidated)
}

func TestStudentDeleteNotFoundSkipsCacheInvalidation(t *testing.T) {
	store := newFakeCacheStore()
	cache := NewCacheService(store, nil, time.Minute, nil, true)
	svc := NewStudentService(&fakeStudentRepo{affected: 0}, &fakeGradeCleanup{}, cache, config.OrphanPolicyCascade, nil)

	err := svc.Delete(context.Background(), validation.Number("7"))
	assert.Equal(t, 404, appErrors.FromError(err).Status)
	assert.Empty(t, store.invalidated)
}

func TestStudentDeleteRejectsMalformedRoll(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{}, &fakeGradeCleanup{}, nil, config.OrphanPolicyOrphan, nil)

	err := svc.Delete(context.Background(), validation.Number("abc"))
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
}
