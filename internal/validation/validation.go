// Package validation holds the pure input validators for the domain
// entities. Each validator collects every violation instead of failing on
// the first, so callers can present the full list at once.
package validation

import (
	"regexp"
	"strings"

	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// StudentInput validates a create-student payload and coerces the roll
// number. The returned roll is only meaningful when there are no violations.
func StudentInput(name string, rollNo Number) (int64, []appErrors.FieldError) {
	var violations []appErrors.FieldError

	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 {
		violations = append(violations, appErrors.FieldError{Field: "name", Message: "Name must be at least 2 characters"})
	}
	if len(trimmed) > 100 {
		violations = append(violations, appErrors.FieldError{Field: "name", Message: "Name cannot exceed 100 characters"})
	}

	roll, ok := rollNo.PositiveInt()
	if !ok {
		violations = append(violations, appErrors.FieldError{Field: "roll_no", Message: "roll_no must be a positive integer"})
	}

	return roll, violations
}

// SubjectInput validates a create-subject payload.
func SubjectInput(name string) []appErrors.FieldError {
	var violations []appErrors.FieldError

	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 {
		violations = append(violations, appErrors.FieldError{Field: "subject", Message: "Subject name must be at least 2 characters"})
	}
	if len(trimmed) > 100 {
		violations = append(violations, appErrors.FieldError{Field: "subject", Message: "Subject name cannot exceed 100 characters"})
	}

	return violations
}

// GradeResult carries the coerced values of a valid grade payload.
type GradeResult struct {
	StudentID  int64
	Letter     models.GradeLetter
	Points     int
	Attendance *float64
}

// GradeInput validates a grade payload: positive student roll, present
// subject id, a letter on the fixed scale (case-insensitive), and an
// optional attendance in [0,100]. The subject id's store-specific syntax is
// deliberately not checked here; callers enforce that separately.
func GradeInput(studentID Number, subjectID string, grade string, attendance Number) (GradeResult, []appErrors.FieldError) {
	var result GradeResult
	var violations []appErrors.FieldError

	roll, ok := studentID.PositiveInt()
	if !ok {
		violations = append(violations, appErrors.FieldError{Field: "student_id", Message: "student_id must be a positive integer"})
	}
	result.StudentID = roll

	if strings.TrimSpace(subjectID) == "" {
		violations = append(violations, appErrors.FieldError{Field: "subject_id", Message: "subject_id is required"})
	}

	letter, points, ok := models.NormalizeLetter(grade)
	if !ok {
		violations = append(violations, appErrors.FieldError{Field: "grade", Message: "grade must be one of: A, B, C, D, F"})
	} else {
		result.Letter = letter
		result.Points = points
	}

	if !attendance.Empty() {
		value, ok := attendance.FiniteFloat()
		if !ok || value < 0 || value > 100 {
			violations = append(violations, appErrors.FieldError{Field: "attendance", Message: "attendance must be between 0 and 100"})
		} else {
			result.Attendance = &value
		}
	}

	return result, violations
}

// UserInput validates a registration payload.
func UserInput(userID, email, password string) []appErrors.FieldError {
	var violations []appErrors.FieldError

	if len(strings.TrimSpace(userID)) < 3 {
		violations = append(violations, appErrors.FieldError{Field: "user_id", Message: "user_id must be at least 3 characters"})
	}
	if !emailPattern.MatchString(email) {
		violations = append(violations, appErrors.FieldError{Field: "email", Message: "Please provide a valid email"})
	}
	if len(password) < 6 {
		violations = append(violations, appErrors.FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}

	return violations
}
