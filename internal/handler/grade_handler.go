package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gradebook-api/internal/service"
	"github.com/noah-isme/gradebook-api/internal/validation"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
	"github.com/noah-isme/gradebook-api/pkg/response"
)

// GradeHandler exposes grade endpoints.
type GradeHandler struct {
	grades *service.GradeService
}

// NewGradeHandler constructs GradeHandler.
func NewGradeHandler(grades *service.GradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// Create godoc
// @Summary Record a grade for a student-subject pair
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body service.GradeRequest true "Grade payload"
// @Success 201 {object} response.Envelope
// @Router /grades [post]
func (h *GradeHandler) Create(c *gin.Context) {
	var req service.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Invalid request body"))
		return
	}
	grade, err := h.grades.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Grade added successfully", grade)
}

// Update godoc
// @Summary Update the grade of a student-subject pair
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body service.GradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Router /grades/update [put]
func (h *GradeHandler) Update(c *gin.Context) {
	var req service.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Invalid request body"))
		return
	}
	grade, err := h.grades.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Grade updated successfully", grade)
}

// Delete godoc
// @Summary Delete the grade of a student-subject pair
// @Tags Grades
// @Produce json
// @Param student_id path int true "Roll number"
// @Param subject_id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /grades/{student_id}/{subject_id} [delete]
func (h *GradeHandler) Delete(c *gin.Context) {
	grade, err := h.grades.Delete(c.Request.Context(), validation.Number(c.Param("student_id")), c.Param("subject_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Grade deleted successfully", grade)
}

// ListByStudent godoc
// @Summary List every grade of one student
// @Tags Grades
// @Produce json
// @Param student_id path int true "Roll number"
// @Success 200 {object} response.Envelope
// @Router /grades/student/{student_id} [get]
func (h *GradeHandler) ListByStudent(c *gin.Context) {
	rows, err := h.grades.ListByStudent(c.Request.Context(), validation.Number(c.Param("student_id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RowsCount(c, http.StatusOK, "Fetched student grades", rows)
}

// ListBySubject godoc
// @Summary List every grade recorded for one subject
// @Tags Grades
// @Produce json
// @Param subject_id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /grades/subject/{subject_id} [get]
func (h *GradeHandler) ListBySubject(c *gin.Context) {
	rows, err := h.grades.ListBySubject(c.Request.Context(), c.Param("subject_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RowsCount(c, http.StatusOK, "Fetched subject grades", rows)
}
