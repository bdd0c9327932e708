package models

import "time"

// StudentStatus enumerates the lifecycle states of a student record.
type StudentStatus string

const (
	StudentActive    StudentStatus = "active"
	StudentInactive  StudentStatus = "inactive"
	StudentGraduated StudentStatus = "graduated"
)

// Student represents a learner keyed by their human-assigned roll number.
type Student struct {
	ID        string        `db:"id" json:"id"`
	RollNo    int64         `db:"roll_no" json:"roll_no"`
	Name      string        `db:"name" json:"name"`
	Email     *string       `db:"email" json:"email,omitempty"`
	Phone     *string       `db:"phone" json:"phone,omitempty"`
	Status    StudentStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// StudentSubjectRow is one row of the outer-joined student view: every active
// student appears at least once, with the subject column null when the
// student has no grades yet.
type StudentSubjectRow struct {
	RollNo  int64   `db:"roll_no" json:"roll_no"`
	Name    string  `db:"name" json:"name"`
	Email   *string `db:"email" json:"email,omitempty"`
	Subject *string `db:"subject" json:"subject,omitempty"`
}

// StudentGradeRow is one row of the inner-joined student view: only graded
// (student, subject) pairs appear.
type StudentGradeRow struct {
	RollNo          int64     `db:"roll_no" json:"roll_no"`
	Name            string    `db:"name" json:"name"`
	Subject         string    `db:"subject" json:"subject"`
	SubjectID       string    `db:"subject_id" json:"subject_id"`
	Grade           string    `db:"grade" json:"grade"`
	GradePoints     int       `db:"grade_points" json:"grade_points"`
	Attendance      *float64  `db:"attendance" json:"attendance,omitempty"`
	ExaminationDate time.Time `db:"examination_date" json:"examination_date"`
}
