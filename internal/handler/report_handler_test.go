package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/service"
)

type fakeReportData struct {
	aggregates []models.RankAggregate
}

func (f *fakeReportData) AllSubjects(context.Context) ([]models.SubjectRef, error) {
	return nil, nil
}

func (f *fakeReportData) AllGradePoints(context.Context) ([]models.SubjectPointsRow, error) {
	return nil, nil
}

func (f *fakeReportData) GradesBySubject(context.Context, string) ([]models.SubjectGradeDetail, error) {
	return nil, nil
}

func (f *fakeReportData) RankAggregates(context.Context) ([]models.RankAggregate, error) {
	return f.aggregates, nil
}

func newReportHandler(repo service.ReportRepository) *ReportHandler {
	return NewReportHandler(service.NewReportService(repo, nil, nil, nil))
}

func TestExportRanklistCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newReportHandler(&fakeReportData{
		aggregates: []models.RankAggregate{
			{RollNo: 1, Name: "Asha", AvgPoints: 3.5, SubjectsCount: 2},
			{RollNo: 2, Name: "Ben", AvgPoints: 3.0, SubjectsCount: 2},
		},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/rank/export?format=csv", nil)

	handler.ExportRanklist(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ranklist-")
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Rank,Name,Roll No,Avg Score,Avg Percent,Subjects,Letter", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Asha")
	assert.Contains(t, lines[1], "3.500")
	assert.Contains(t, lines[1], "A")
	assert.Contains(t, lines[2], "Ben")
	assert.Contains(t, lines[2], "B")
}

func TestExportRanklistPDF(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newReportHandler(&fakeReportData{
		aggregates: []models.RankAggregate{{RollNo: 1, Name: "Asha", AvgPoints: 3.5, SubjectsCount: 2}},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/rank/export?format=pdf", nil)

	handler.ExportRanklist(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestExportRanklistRejectsUnknownFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newReportHandler(&fakeReportData{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/rank/export?format=xlsx", nil)

	handler.ExportRanklist(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
