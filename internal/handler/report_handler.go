package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-api/internal/service"
	"github.com/campushq/school-api/pkg/response"
)

// ReportHandler streams rendered admin reports.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Marks godoc
// @Summary Download a marks report
// @Tags Reports
// @Produce text/csv
// @Security BearerAuth
// @Param format query string false "csv or pdf" default(csv)
// @Param class_id query string false "Class id"
// @Param subject query string false "Subject"
// @Param semester query int false "Semester"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /admin/reports/marks [get]
func (h *ReportHandler) Marks(c *gin.Context) {
	filter := markFilterFromQuery(c)
	filter.StudentID = c.Query("student_id")
	filter.ClassID = c.Query("class_id")

	report, err := h.service.MarksReport(c.Request.Context(), filter, reportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeReport(c, report)
}

// Attendance godoc
// @Summary Download an attendance report
// @Tags Reports
// @Produce text/csv
// @Security BearerAuth
// @Param format query string false "csv or pdf" default(csv)
// @Param class_id query string false "Class id"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /admin/reports/attendance [get]
func (h *ReportHandler) Attendance(c *gin.Context) {
	filter := attendanceFilterFromQuery(c)
	filter.StudentID = c.Query("student_id")

	report, err := h.service.AttendanceReport(c.Request.Context(), filter, reportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeReport(c, report)
}

func reportFormat(c *gin.Context) service.ReportFormat {
	if c.DefaultQuery("format", "csv") == "pdf" {
		return service.ReportFormatPDF
	}
	return service.ReportFormatCSV
}

func writeReport(c *gin.Context, report *service.Report) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	c.Data(200, report.ContentType, report.Content)
}
