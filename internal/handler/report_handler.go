package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/service"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
	"github.com/noah-isme/gradebook-api/pkg/export"
	"github.com/noah-isme/gradebook-api/pkg/response"
)

// ReportHandler exposes the aggregate report endpoints.
type ReportHandler struct {
	reports *service.ReportService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
	}
}

// AveragePerSubject godoc
// @Summary Average grade points per subject
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) AveragePerSubject(c *gin.Context) {
	report, err := h.reports.AveragePerSubject(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Fetched average grades per subject", report)
}

// TopBySubject godoc
// @Summary Top five grades for one subject
// @Tags Reports
// @Produce json
// @Param subject_id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /reports/top/{subject_id} [get]
func (h *ReportHandler) TopBySubject(c *gin.Context) {
	rows, err := h.reports.TopBySubject(c.Request.Context(), c.Param("subject_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Rows(c, http.StatusOK, "Fetched top 5 students for subject", rows)
}

// Ranklist godoc
// @Summary Students ranked by average grade points
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/rank [get]
func (h *ReportHandler) Ranklist(c *gin.Context) {
	rows, err := h.reports.Ranklist(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Rows(c, http.StatusOK, "Fetched student ranklist", rows)
}

// TopOverall godoc
// @Summary Top five students by overall average
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/top [get]
func (h *ReportHandler) TopOverall(c *gin.Context) {
	rows, err := h.reports.TopOverall(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Rows(c, http.StatusOK, "Fetched top 5 students overall", rows)
}

// ExportRanklist godoc
// @Summary Download the ranklist as CSV or PDF
// @Tags Reports
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /reports/rank/export [get]
func (h *ReportHandler) ExportRanklist(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "pdf" {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "format must be csv or pdf"))
		return
	}

	rows, err := h.reports.Ranklist(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	dataset := ranklistDataset(rows)

	filename := fmt.Sprintf("ranklist-%s.%s", time.Now().UTC().Format("2006-01-02"), format)
	var payload []byte
	var contentType string
	switch format {
	case "pdf":
		payload, err = h.pdf.Render(dataset, "Student Ranklist")
		contentType = "application/pdf"
	default:
		payload, err = h.csv.Render(dataset)
		contentType = "text/csv"
	}
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to render export"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, payload)
}

func ranklistDataset(rows []models.RankRow) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"Rank", "Name", "Roll No", "Avg Score", "Avg Percent", "Subjects", "Letter"},
		Rows:    make([]map[string]string, 0, len(rows)),
	}
	for i, row := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Rank":        strconv.Itoa(i + 1),
			"Name":        row.Name,
			"Roll No":     strconv.FormatInt(row.RollNo, 10),
			"Avg Score":   strconv.FormatFloat(row.AvgScore, 'f', 3, 64),
			"Avg Percent": strconv.FormatFloat(row.AvgPercent, 'f', 1, 64),
			"Subjects":    strconv.Itoa(row.SubjectsCount),
			"Letter":      string(row.AvgLetter),
		})
	}
	return dataset
}
