package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

// ReportRepository describes the read-only datasets the reports aggregate
// over. Keeping the aggregation in the service, over this interface, lets
// the report math run against in-memory fakes in tests.
type ReportRepository interface {
	AllSubjects(ctx context.Context) ([]models.SubjectRef, error)
	AllGradePoints(ctx context.Context) ([]models.SubjectPointsRow, error)
	GradesBySubject(ctx context.Context, subjectID string) ([]models.SubjectGradeDetail, error)
	RankAggregates(ctx context.Context) ([]models.RankAggregate, error)
}

// TopN is the fixed row cap of the top-student reports.
const TopN = 5

// ReportService computes the derived statistics over the grade set. All
// reports are read-only; nothing here mutates the store.
type ReportService struct {
	repo    ReportRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(repo ReportRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, cache: cache, metrics: metrics, logger: logger}
}

// AveragePerSubject reports the mean grade points for every subject,
// including subjects with zero grades. An ungraded subject carries a null
// avg_score but a zero (not null) avg_percent, so chart consumers always get
// a number per label.
func (s *ReportService) AveragePerSubject(ctx context.Context) (*models.SubjectAverageReport, error) {
	const cacheKey = "reports:avg"
	var cached models.SubjectAverageReport
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	start := time.Now()
	subjects, err := s.repo.AllSubjects(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to compute report")
	}
	points, err := s.repo.AllGradePoints(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to compute report")
	}
	s.metrics.ObserveDBQuery("report_subject_averages", time.Since(start))

	grouped := make(map[string][]int, len(subjects))
	for _, p := range points {
		grouped[p.SubjectID] = append(grouped[p.SubjectID], p.Points)
	}

	report := &models.SubjectAverageReport{
		Labels: make([]string, 0, len(subjects)),
		Data:   make([]float64, 0, len(subjects)),
		Rows:   make([]models.SubjectAverageRow, 0, len(subjects)),
	}
	for _, subject := range subjects {
		values := grouped[subject.ID]
		row := models.SubjectAverageRow{
			Subject:     subject.Name,
			SubjectID:   subject.ID,
			CountGrades: len(values),
		}
		if len(values) > 0 {
			sum := 0
			for _, v := range values {
				sum += v
			}
			avg := roundTo(float64(sum)/float64(len(values)), 2)
			row.AvgScore = &avg
			row.AvgPercent = roundTo(avg/4*100, 1)
		}
		report.Labels = append(report.Labels, subject.Name)
		report.Data = append(report.Data, row.AvgPercent)
		report.Rows = append(report.Rows, row)
	}

	s.cacheSet(ctx, cacheKey, report)
	return report, nil
}

// TopBySubject returns the best five grades for one subject. Ordering is
// grade points descending with roll number ascending as the tie-break.
func (s *ReportService) TopBySubject(ctx context.Context, subjectID string) ([]models.SubjectTopRow, error) {
	if _, err := uuid.Parse(subjectID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "Invalid subject_id format")
	}

	cacheKey := "reports:top:" + subjectID
	var cached []models.SubjectTopRow
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	start := time.Now()
	grades, err := s.repo.GradesBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch top students")
	}
	s.metrics.ObserveDBQuery("report_top_by_subject", time.Since(start))

	rows := make([]models.SubjectTopRow, 0, TopN)
	for _, grade := range grades {
		if len(rows) == TopN {
			break
		}
		name := "Unknown"
		if grade.StudentName != nil {
			name = *grade.StudentName
		}
		rows = append(rows, models.SubjectTopRow{
			Name:        name,
			RollNo:      grade.StudentID,
			Grade:       grade.Letter,
			GradePoints: grade.Points,
			Attendance:  grade.Attendance,
		})
	}

	s.cacheSet(ctx, cacheKey, rows)
	return rows, nil
}

// Ranklist orders active students by their average grade points across all
// recorded grades. Students with no grades are excluded entirely. The score
// reads to 3 decimals, the percentage to 1, and the derived letter follows
// the fixed thresholds.
func (s *ReportService) Ranklist(ctx context.Context) ([]models.RankRow, error) {
	const cacheKey = "reports:rank"
	var cached []models.RankRow
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	rows, err := s.rankRows(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to compute ranklist")
	}

	s.cacheSet(ctx, cacheKey, rows)
	return rows, nil
}

// TopOverall returns the first five ranklist entries without the derived
// letter field.
func (s *ReportService) TopOverall(ctx context.Context) ([]models.RankRow, error) {
	const cacheKey = "reports:topoverall"
	var cached []models.RankRow
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	rows, err := s.rankRows(ctx, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch top students overall")
	}
	if len(rows) > TopN {
		rows = rows[:TopN]
	}

	s.cacheSet(ctx, cacheKey, rows)
	return rows, nil
}

func (s *ReportService) rankRows(ctx context.Context, withLetter bool) ([]models.RankRow, error) {
	start := time.Now()
	aggregates, err := s.repo.RankAggregates(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveDBQuery("report_rank_aggregates", time.Since(start))

	rows := make([]models.RankRow, 0, len(aggregates))
	for _, agg := range aggregates {
		row := models.RankRow{
			Name:          agg.Name,
			RollNo:        agg.RollNo,
			AvgScore:      roundTo(agg.AvgPoints, 3),
			AvgPercent:    roundTo(agg.AvgPoints/4*100, 1),
			SubjectsCount: agg.SubjectsCount,
		}
		if withLetter {
			row.AvgLetter = models.LetterForScore(agg.AvgPoints)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *ReportService) cacheSet(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, 0); err != nil {
		s.logger.Warn("failed to cache report", zap.String("key", key), zap.Error(err))
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
