package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// GradeRepository handles grade persistence. Grades are keyed by the
// (student_roll, subject_id) pair, which carries a unique constraint.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository creates a new grade repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// Create inserts a new grade. Duplicate pairs surface as ErrDuplicate.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if grade.CreatedAt.IsZero() {
		grade.CreatedAt = now
	}
	grade.UpdatedAt = now
	if grade.ExaminationDate.IsZero() {
		grade.ExaminationDate = now
	}
	const query = `INSERT INTO grades (id, student_roll, subject_id, letter, points, attendance, remarks, examination_date, created_at, updated_at)
        VALUES (:id, :student_roll, :subject_id, :letter, :points, :attendance, :remarks, :examination_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create grade: %w", err)
	}
	return nil
}

// UpdateByPair replaces the letter, points and attendance of the grade keyed
// by (student, subject). Returns the number of rows updated; zero means the
// pair does not exist (an update never creates).
func (r *GradeRepository) UpdateByPair(ctx context.Context, grade *models.Grade) (int64, error) {
	grade.UpdatedAt = time.Now().UTC()
	const query = `UPDATE grades SET letter = :letter, points = :points, attendance = :attendance, updated_at = :updated_at
        WHERE student_roll = :student_roll AND subject_id = :subject_id`
	result, err := r.db.NamedExecContext(ctx, query, grade)
	if err != nil {
		return 0, fmt.Errorf("update grade: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update grade rows: %w", err)
	}
	return affected, nil
}

// DeleteByPair removes the grade keyed by (student, subject), returning the
// deleted record so the caller can echo it back.
func (r *GradeRepository) DeleteByPair(ctx context.Context, studentRoll int64, subjectID string) (*models.Grade, error) {
	const query = `DELETE FROM grades WHERE student_roll = $1 AND subject_id = $2
        RETURNING id, student_roll, subject_id, letter, points, attendance, remarks, examination_date, created_at, updated_at`
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, studentRoll, subjectID); err != nil {
		return nil, err
	}
	return &grade, nil
}

// FindByPair fetches the grade for a (student, subject) pair.
func (r *GradeRepository) FindByPair(ctx context.Context, studentRoll int64, subjectID string) (*models.Grade, error) {
	const query = `SELECT id, student_roll, subject_id, letter, points, attendance, remarks, examination_date, created_at, updated_at
        FROM grades WHERE student_roll = $1 AND subject_id = $2`
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, studentRoll, subjectID); err != nil {
		return nil, err
	}
	return &grade, nil
}

// ListByStudent returns a student's grades with subject info, newest first.
func (r *GradeRepository) ListByStudent(ctx context.Context, studentRoll int64) ([]models.StudentGradeDetail, error) {
	const query = `SELECT g.id, g.student_roll, g.subject_id, g.letter, g.points, g.attendance, g.remarks,
            g.examination_date, g.created_at, g.updated_at, sub.name AS subject_name, sub.code AS subject_code
        FROM grades g
        JOIN subjects sub ON sub.id = g.subject_id
        WHERE g.student_roll = $1
        ORDER BY g.created_at DESC`
	var grades []models.StudentGradeDetail
	if err := r.db.SelectContext(ctx, &grades, query, studentRoll); err != nil {
		return nil, fmt.Errorf("list grades by student: %w", err)
	}
	return grades, nil
}

// ListBySubject returns a subject's grades enriched with student names,
// best first with roll number as the tie-break.
func (r *GradeRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.SubjectGradeDetail, error) {
	const query = `SELECT g.id, g.student_roll, g.subject_id, g.letter, g.points, g.attendance, g.remarks,
            g.examination_date, g.created_at, g.updated_at, s.name AS student_name
        FROM grades g
        LEFT JOIN students s ON s.roll_no = g.student_roll
        WHERE g.subject_id = $1
        ORDER BY g.points DESC, g.student_roll ASC`
	var grades []models.SubjectGradeDetail
	if err := r.db.SelectContext(ctx, &grades, query, subjectID); err != nil {
		return nil, fmt.Errorf("list grades by subject: %w", err)
	}
	return grades, nil
}

// CountByStudent returns the number of grades referencing the student.
func (r *GradeRepository) CountByStudent(ctx context.Context, studentRoll int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM grades WHERE student_roll = $1`, studentRoll); err != nil {
		return 0, fmt.Errorf("count grades by student: %w", err)
	}
	return count, nil
}

// CountBySubject returns the number of grades referencing the subject.
func (r *GradeRepository) CountBySubject(ctx context.Context, subjectID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM grades WHERE subject_id = $1`, subjectID); err != nil {
		return 0, fmt.Errorf("count grades by subject: %w", err)
	}
	return count, nil
}
