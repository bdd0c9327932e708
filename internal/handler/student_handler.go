package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gradebook-api/internal/service"
	"github.com/noah-isme/gradebook-api/internal/validation"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
	"github.com/noah-isme/gradebook-api/pkg/response"
)

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// Create godoc
// @Summary Add a student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Invalid request body"))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Student added successfully", student)
}

// List godoc
// @Summary List active students
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Rows(c, http.StatusOK, "Fetched all active students", students)
}

// Details godoc
// @Summary List students with their graded subjects
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/details [get]
func (h *StudentHandler) Details(c *gin.Context) {
	rows, err := h.students.Details(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Rows(c, http.StatusOK, "Fetched students with subjects", rows)
}

// AllDetails godoc
// @Summary List every student grade joined with its subject
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/alldetails [get]
func (h *StudentHandler) AllDetails(c *gin.Context) {
	rows, err := h.students.AllDetails(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Rows(c, http.StatusOK, "Fetched all students with grades and subjects", rows)
}

// Delete godoc
// @Summary Delete a student by roll number
// @Tags Students
// @Produce json
// @Param student_id path int true "Roll number"
// @Success 200 {object} response.Envelope
// @Router /students/{student_id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.students.Delete(c.Request.Context(), validation.Number(c.Param("student_id"))); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Student deleted successfully", nil)
}
