package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// ReportRepository serves the raw datasets the reporting service aggregates
// over. All queries are read-only full scans of the working set.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// AllSubjects returns every subject, graded or not, ordered by name.
func (r *ReportRepository) AllSubjects(ctx context.Context) ([]models.SubjectRef, error) {
	const query = `SELECT id, name FROM subjects ORDER BY name ASC`
	var subjects []models.SubjectRef
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("report subjects: %w", err)
	}
	return subjects, nil
}

// AllGradePoints returns every (subject, points) pair in the grade set.
func (r *ReportRepository) AllGradePoints(ctx context.Context) ([]models.SubjectPointsRow, error) {
	const query = `SELECT subject_id, points FROM grades`
	var rows []models.SubjectPointsRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("report grade points: %w", err)
	}
	return rows, nil
}

// GradesBySubject returns a subject's grades with student names, ordered by
// points descending then roll number ascending.
func (r *ReportRepository) GradesBySubject(ctx context.Context, subjectID string) ([]models.SubjectGradeDetail, error) {
	const query = `SELECT g.id, g.student_roll, g.subject_id, g.letter, g.points, g.attendance, g.remarks,
            g.examination_date, g.created_at, g.updated_at, s.name AS student_name
        FROM grades g
        LEFT JOIN students s ON s.roll_no = g.student_roll
        WHERE g.subject_id = $1
        ORDER BY g.points DESC, g.student_roll ASC`
	var grades []models.SubjectGradeDetail
	if err := r.db.SelectContext(ctx, &grades, query, subjectID); err != nil {
		return nil, fmt.Errorf("report subject grades: %w", err)
	}
	return grades, nil
}

// RankAggregates returns the per-student average and graded-subject count
// for active students with at least one grade, best average first, roll
// number as the tie-break.
func (r *ReportRepository) RankAggregates(ctx context.Context) ([]models.RankAggregate, error) {
	const query = `SELECT s.roll_no, s.name, AVG(g.points)::double precision AS avg_points, COUNT(g.id) AS subjects_count
        FROM students s
        JOIN grades g ON g.student_roll = s.roll_no
        WHERE s.status = $1
        GROUP BY s.roll_no, s.name
        ORDER BY avg_points DESC, s.roll_no ASC`
	var rows []models.RankAggregate
	if err := r.db.SelectContext(ctx, &rows, query, models.StudentActive); err != nil {
		return nil, fmt.Errorf("report rank aggregates: %w", err)
	}
	return rows, nil
}
