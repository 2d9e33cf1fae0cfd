package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/school-api/internal/models"
	appErrors "github.com/campushq/school-api/pkg/errors"
	"github.com/campushq/school-api/pkg/export"
)

func newReportFixture(marks map[string]models.Mark, attendance []models.Attendance) *ReportService {
	return NewReportService(
		&mockMarkRepo{marks: marks},
		&mockAttendanceRepo{records: attendance},
		export.NewCSVExporter(),
		export.NewPDFExporter(),
		zap.NewNop(),
	)
}

func TestReportServiceMarksCSV(t *testing.T) {
	svc := newReportFixture(map[string]models.Mark{
		"mk1": {ID: "mk1", StudentID: "u1", Subject: "Mathematics", Obtained: 42, Total: 50, ExamType: models.ExamMidterm, Semester: 1, Date: time.Now()},
	}, nil)

	report, err := svc.MarksReport(context.Background(), models.MarkFilter{}, ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "marks-report.csv", report.FileName)
	assert.Equal(t, "text/csv", report.ContentType)

	body := string(report.Content)
	assert.True(t, strings.HasPrefix(body, "Student,Subject,Exam,Semester,Obtained,Total,Date"))
	assert.Contains(t, body, "Mathematics")
	assert.Contains(t, body, "MIDTERM")
}

func TestReportServiceAttendancePDF(t *testing.T) {
	svc := newReportFixture(nil, []models.Attendance{
		{ID: "a1", StudentID: "u1", ClassID: "c1", Date: time.Now(), Status: models.AttendancePresent, MarkedBy: "t1"},
	})

	report, err := svc.AttendanceReport(context.Background(), models.AttendanceFilter{}, ReportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "attendance-report.pdf", report.FileName)
	assert.Equal(t, "application/pdf", report.ContentType)
	assert.NotEmpty(t, report.Content)
}

func TestReportServiceEmptyIsNotFound(t *testing.T) {
	svc := newReportFixture(nil, nil)

	_, err := svc.MarksReport(context.Background(), models.MarkFilter{}, ReportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
}

func TestReportServiceUnsupportedFormat(t *testing.T) {
	svc := newReportFixture(map[string]models.Mark{
		"mk1": {ID: "mk1", StudentID: "u1", Subject: "Mathematics", Obtained: 42, Total: 50, ExamType: models.ExamMidterm, Semester: 1, Date: time.Now()},
	}, nil)

	_, err := svc.MarksReport(context.Background(), models.MarkFilter{}, ReportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}
