package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, roll_no, name, email, phone, status, created_at, updated_at)
        VALUES (:id, :roll_no, :name, :email, :phone, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// ExistsByRollNo checks if a student with the given roll number exists.
func (r *StudentRepository) ExistsByRollNo(ctx context.Context, rollNo int64) (bool, error) {
	const query = `SELECT 1 FROM students WHERE roll_no = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, rollNo); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check roll_no: %w", err)
	}
	return true, nil
}

// FindByRollNo fetches a student by roll number.
func (r *StudentRepository) FindByRollNo(ctx context.Context, rollNo int64) (*models.Student, error) {
	const query = `SELECT id, roll_no, name, email, phone, status, created_at, updated_at
        FROM students WHERE roll_no = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, rollNo); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListActive returns active students ordered by roll number.
func (r *StudentRepository) ListActive(ctx context.Context) ([]models.Student, error) {
	const query = `SELECT id, roll_no, name, email, phone, status, created_at, updated_at
        FROM students WHERE status = $1 ORDER BY roll_no ASC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, models.StudentActive); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ListWithSubjects returns the outer-joined student view: one row per
// (student, graded subject) pair, and a row with a null subject for students
// without grades.
func (r *StudentRepository) ListWithSubjects(ctx context.Context) ([]models.StudentSubjectRow, error) {
	const query = `SELECT s.roll_no, s.name, s.email, sub.name AS subject
        FROM students s
        LEFT JOIN grades g ON g.student_roll = s.roll_no
        LEFT JOIN subjects sub ON sub.id = g.subject_id
        WHERE s.status = $1
        ORDER BY s.roll_no ASC, sub.name ASC`
	var rows []models.StudentSubjectRow
	if err := r.db.SelectContext(ctx, &rows, query, models.StudentActive); err != nil {
		return nil, fmt.Errorf("list students with subjects: %w", err)
	}
	return rows, nil
}

// ListWithGrades returns the inner-joined student view: only graded pairs,
// ordered by roll number then subject name.
func (r *StudentRepository) ListWithGrades(ctx context.Context) ([]models.StudentGradeRow, error) {
	const query = `SELECT s.roll_no, s.name, sub.name AS subject, sub.id AS subject_id,
            g.letter AS grade, g.points AS grade_points, g.attendance, g.examination_date
        FROM students s
        JOIN grades g ON g.student_roll = s.roll_no
        JOIN subjects sub ON sub.id = g.subject_id
        WHERE s.status = $1
        ORDER BY s.roll_no ASC, sub.name ASC`
	var rows []models.StudentGradeRow
	if err := r.db.SelectContext(ctx, &rows, query, models.StudentActive); err != nil {
		return nil, fmt.Errorf("list students with grades: %w", err)
	}
	return rows, nil
}

// Delete removes a student record, returning the number of rows removed.
func (r *StudentRepository) Delete(ctx context.Context, rollNo int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE roll_no = $1`, rollNo)
	if err != nil {
		return 0, fmt.Errorf("delete student: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete student rows: %w", err)
	}
	return affected, nil
}

// DeleteCascade removes a student and every grade referencing it in a single
// transaction. The student is deleted first: when no row matches, the
// transaction rolls back and no grade is touched.
func (r *StudentRepository) DeleteCascade(ctx context.Context, rollNo int64) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("delete student begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	result, err := tx.ExecContext(ctx, `DELETE FROM students WHERE roll_no = $1`, rollNo)
	if err != nil {
		return 0, fmt.Errorf("delete student: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete student rows: %w", err)
	}
	if affected == 0 {
		return 0, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM grades WHERE student_roll = $1`, rollNo); err != nil {
		return 0, fmt.Errorf("delete student grades: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("delete student commit: %w", err)
	}
	return affected, nil
}
