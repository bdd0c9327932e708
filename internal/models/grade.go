package models

import (
	"strings"
	"time"
)

// GradeLetter is one of the five letters of the fixed grading scale.
type GradeLetter string

const (
	GradeA GradeLetter = "A"
	GradeB GradeLetter = "B"
	GradeC GradeLetter = "C"
	GradeD GradeLetter = "D"
	GradeF GradeLetter = "F"
)

// letterPoints is the fixed letter-to-points table. Grade points are always
// derived from the letter at write time, never accepted as input.
var letterPoints = map[GradeLetter]int{
	GradeA: 4,
	GradeB: 3,
	GradeC: 2,
	GradeD: 1,
	GradeF: 0,
}

// NormalizeLetter trims and upper-cases the raw letter and resolves its grade
// points. The boolean reports whether the letter is on the scale.
func NormalizeLetter(raw string) (GradeLetter, int, bool) {
	letter := GradeLetter(strings.ToUpper(strings.TrimSpace(raw)))
	points, ok := letterPoints[letter]
	return letter, points, ok
}

// LetterForScore maps an average score back onto the letter scale.
// The minimum possible average is 0, so anything below 0.5 reads F.
func LetterForScore(score float64) GradeLetter {
	switch {
	case score >= 3.5:
		return GradeA
	case score >= 2.5:
		return GradeB
	case score >= 1.5:
		return GradeC
	case score >= 0.5:
		return GradeD
	default:
		return GradeF
	}
}

// Grade records one student's result in one subject. At most one grade may
// exist per (student, subject) pair, enforced by a unique constraint.
type Grade struct {
	ID              string      `db:"id" json:"id"`
	StudentID       int64       `db:"student_roll" json:"student_id"`
	SubjectID       string      `db:"subject_id" json:"subject_id"`
	Letter          GradeLetter `db:"letter" json:"grade"`
	Points          int         `db:"points" json:"grade_points"`
	Attendance      *float64    `db:"attendance" json:"attendance,omitempty"`
	Remarks         *string     `db:"remarks" json:"remarks,omitempty"`
	ExaminationDate time.Time   `db:"examination_date" json:"examination_date"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// StudentGradeDetail is a grade joined with its subject, for the per-student
// listing.
type StudentGradeDetail struct {
	Grade
	SubjectName string  `db:"subject_name" json:"subject"`
	SubjectCode *string `db:"subject_code" json:"subject_code,omitempty"`
}

// SubjectGradeDetail is a grade enriched with the student's name, for the
// per-subject listing. StudentName is null when the roll number no longer
// resolves to a student record.
type SubjectGradeDetail struct {
	Grade
	StudentName *string `db:"student_name" json:"student_name"`
}
