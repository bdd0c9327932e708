package models

// SubjectAverageRow is one detail row of the average-per-subject report.
// AvgScore is null for a subject with no grades; AvgPercent is 0 (not null)
// in that case so chart consumers always get a plottable number.
type SubjectAverageRow struct {
	Subject     string   `json:"subject"`
	SubjectID   string   `json:"subject_id"`
	AvgScore    *float64 `json:"avg_score"`
	AvgPercent  float64  `json:"avg_percent"`
	CountGrades int      `json:"count_grades"`
}

// SubjectAverageReport carries parallel label/data arrays for charting plus
// the per-subject detail rows. Its length always equals the subject count.
type SubjectAverageReport struct {
	Labels []string            `json:"labels"`
	Data   []float64           `json:"data"`
	Rows   []SubjectAverageRow `json:"rows"`
}

// SubjectTopRow is one entry of the top-N-per-subject report.
type SubjectTopRow struct {
	Name        string      `json:"name"`
	RollNo      int64       `json:"roll_no"`
	Grade       GradeLetter `json:"grade"`
	GradePoints int         `json:"grade_points"`
	Attendance  *float64    `json:"attendance,omitempty"`
}

// RankRow is one entry of the overall ranklist. AvgLetter is only populated
// on the ranklist report; the top-overall report omits it.
type RankRow struct {
	Name          string      `json:"name"`
	RollNo        int64       `json:"roll_no"`
	AvgScore      float64     `json:"avg_score"`
	AvgPercent    float64     `json:"avg_percent"`
	SubjectsCount int         `json:"subjects_count"`
	AvgLetter     GradeLetter `json:"avg_letter,omitempty"`
}

// SubjectPointsRow is a raw (subject, points) pair fed into the subject
// average aggregation.
type SubjectPointsRow struct {
	SubjectID string `db:"subject_id"`
	Points    int    `db:"points"`
}

// SubjectRef is the minimal subject projection used by reports.
type SubjectRef struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

// RankAggregate is the raw per-student aggregate used by the ranklist and
// top-overall reports: active students with at least one grade.
type RankAggregate struct {
	RollNo        int64   `db:"roll_no"`
	Name          string  `db:"name"`
	AvgPoints     float64 `db:"avg_points"`
	SubjectsCount int     `db:"subjects_count"`
}
