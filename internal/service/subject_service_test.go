package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/pkg/config"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type fakeSubjectRepo struct {
	exists        bool
	created       *models.Subject
	affected      int64
	deleteCalled  bool
	cascadeCalled bool
	cascadeID     string
}

func (f *fakeSubjectRepo) Create(_ context.Context, subject *models.Subject) error {
	f.created = subject
	return nil
}

func (f *fakeSubjectRepo) ExistsByName(context.Context, string) (bool, error) {
	return f.exists, nil
}

func (f *fakeSubjectRepo) FindByID(context.Context, string) (*models.Subject, error) {
	return nil, nil
}

func (f *fakeSubjectRepo) ListActive(context.Context) ([]models.Subject, error) {
	return nil, nil
}

func (f *fakeSubjectRepo) Delete(context.Context, string) (int64, error) {
	f.deleteCalled = true
	return f.affected, nil
}

func (f *fakeSubjectRepo) DeleteCascade(_ context.Context, id string) (int64, error) {
	f.cascadeCalled = true
	f.cascadeID = id
	return f.affected, nil
}

type fakeSubjectCleanup struct {
	orphaned int
}

func (f *fakeSubjectCleanup) CountBySubject(context.Context, string) (int, error) {
	return f.orphaned, nil
}

func TestSubjectCreateTrimsAndUppercasesCode(t *testing.T) {
	repo := &fakeSubjectRepo{}
	svc := NewSubjectService(repo, &fakeSubjectCleanup{}, nil, config.OrphanPolicyOrphan, nil)

	code := " math101 "
	subject, err := svc.Create(context.Background(), CreateSubjectRequest{Subject: "  Mathematics  ", Code: &code})
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", subject.Name)
	require.NotNil(t, subject.Code)
	assert.Equal(t, "MATH101", *subject.Code)
	assert.True(t, subject.Active)
}

func TestSubjectCreateDuplicateName(t *testing.T) {
	svc := NewSubjectService(&fakeSubjectRepo{exists: true}, &fakeSubjectCleanup{}, nil, config.OrphanPolicyOrphan, nil)

	_, err := svc.Create(context.Background(), CreateSubjectRequest{Subject: "Mathematics"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "Subject already exists", appErr.Message)
}

func TestSubjectCreateShortName(t *testing.T) {
	svc := NewSubjectService(&fakeSubjectRepo{}, &fakeSubjectCleanup{}, nil, config.OrphanPolicyOrphan, nil)

	_, err := svc.Create(context.Background(), CreateSubjectRequest{Subject: "M"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "Subject name must be at least 2 characters", appErr.Fields[0].Message)
}

func TestSubjectDeleteMalformedID(t *testing.T) {
	svc := NewSubjectService(&fakeSubjectRepo{}, &fakeSubjectCleanup{}, nil, config.OrphanPolicyOrphan, nil)

	err := svc.Delete(context.Background(), "not-a-uuid")
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Invalid subject_id format", appErr.Message)
}

func TestSubjectDeleteNotFound(t *testing.T) {
	svc := NewSubjectService(&fakeSubjectRepo{affected: 0}, &fakeSubjectCleanup{}, nil, config.OrphanPolicyOrphan, nil)

	err := svc.Delete(context.Background(), subjMath)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Subject not found", appErr.Message)
}

func TestSubjectDeleteCascade(t *testing.T) {
	repo := &fakeSubjectRepo{affected: 1}
	svc := NewSubjectService(repo, &fakeSubjectCleanup{}, nil, config.OrphanPolicyCascade, nil)

	require.NoError(t, svc.Delete(context.Background(), subjMath))
	assert.True(t, repo.cascadeCalled)
	assert.Equal(t, subjMath, repo.cascadeID)
	assert.False(t, repo.deleteCalled)
}

func TestSubjectDeleteInvalidatesReportCache(t *testing.T) {
	store := newFakeCacheStore()
	cache := NewCacheService(store, nil, time.Minute, nil, true)
	svc := NewSubjectService(&fakeSubjectRepo{affected: 1}, &fakeSubjectCleanup{}, cache, config.OrphanPolicyCascade, nil)

	require.NoError(t, svc.Delete(context.Background(), subjMath))
	assert.Equal(t, []string{"reports:*"}, store.invalidated)
}
