package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

const testSubjectID = "11111111-1111-1111-1111-111111111111"

func TestGradeRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO grades")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	grade := &models.Grade{StudentID: 7, SubjectID: testSubjectID, Letter: models.GradeA, Points: 4}
	require.NoError(t, repo.Create(context.Background(), grade))
	require.NotEmpty(t, grade.ID)
	require.False(t, grade.ExaminationDate.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryCreateMapsUniqueViolation(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO grades")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Grade{StudentID: 7, SubjectID: testSubjectID})
	require.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryFindByPair(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_roll", "subject_id", "letter", "points", "attendance", "remarks", "examination_date", "created_at", "updated_at"}).
		AddRow("grade-1", 7, testSubjectID, "B", 3, nil, nil, now, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_roll, subject_id")).
		WithArgs(int64(7), testSubjectID).
		WillReturnRows(rows)

	grade, err := repo.FindByPair(context.Background(), 7, testSubjectID)
	require.NoError(t, err)
	require.Equal(t, models.GradeB, grade.Letter)
	require.Equal(t, 3, grade.Points)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryFindByPairMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_roll, subject_id")).
		WithArgs(int64(7), testSubjectID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByPair(context.Background(), 7, testSubjectID)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryDeleteByPairReturnsRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_roll", "subject_id", "letter", "points", "attendance", "remarks", "examination_date", "created_at", "updated_at"}).
		AddRow("grade-1", 7, testSubjectID, "A", 4, 95.5, nil, now, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM grades WHERE student_roll = $1 AND subject_id = $2")).
		WithArgs(int64(7), testSubjectID).
		WillReturnRows(rows)

	grade, err := repo.DeleteByPair(context.Background(), 7, testSubjectID)
	require.NoError(t, err)
	require.Equal(t, models.GradeA, grade.Letter)
	require.NotNil(t, grade.Attendance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryUpdateByPairReportsAffected(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE grades SET letter")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.UpdateByPair(context.Background(), &models.Grade{StudentID: 7, SubjectID: testSubjectID, Letter: models.GradeC, Points: 2})
	require.NoError(t, err)
	require.Zero(t, affected)
	require.NoError(t, mock.ExpectationsWereMet())
}
