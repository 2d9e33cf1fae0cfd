package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/campushq/school-api/internal/models"
	appErrors "github.com/campushq/school-api/pkg/errors"
	"github.com/campushq/school-api/pkg/export"
)

// ReportFormat selects the rendered output of a report.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// Report is a rendered report ready to stream as a download.
type Report struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ReportService renders admin exports over marks and attendance.
type ReportService struct {
	marks      markRepository
	attendance attendanceRepository
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	logger     *zap.Logger
}

// NewReportService constructs a ReportService instance.
func NewReportService(marks markRepository, attendance attendanceRepository, csv *export.CSVExporter, pdf *export.PDFExporter, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{marks: marks, attendance: attendance, csv: csv, pdf: pdf, logger: logger}
}

const reportPageSize = 100

// MarksReport renders all marks matching the filter.
func (s *ReportService) MarksReport(ctx context.Context, filter models.MarkFilter, format ReportFormat) (*Report, error) {
	filter.Page = 1
	filter.PageSize = reportPageSize

	data := export.Dataset{
		Headers: []string{"Student", "Subject", "Exam", "Semester", "Obtained", "Total", "Date"},
	}
	for {
		marks, total, err := s.marks.List(ctx, filter)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load marks for report")
		}
		for _, m := range marks {
			data.Rows = append(data.Rows, map[string]string{
				"Student":  m.StudentID,
				"Subject":  m.Subject,
				"Exam":     string(m.ExamType),
				"Semester": strconv.Itoa(m.Semester),
				"Obtained": strconv.FormatFloat(m.Obtained, 'f', -1, 64),
				"Total":    strconv.FormatFloat(m.Total, 'f', -1, 64),
				"Date":     m.Date.Format("2006-01-02"),
			})
		}
		if len(data.Rows) >= total || len(marks) == 0 {
			break
		}
		filter.Page++
	}

	if len(data.Rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no mark records found")
	}
	return s.render(data, "marks", "Marks Report", format)
}

// AttendanceReport renders all attendance rows matching the filter.
func (s *ReportService) AttendanceReport(ctx context.Context, filter models.AttendanceFilter, format ReportFormat) (*Report, error) {
	filter.Page = 1
	filter.PageSize = reportPageSize

	data := export.Dataset{
		Headers: []string{"Student", "Class", "Date", "Status", "Marked By"},
	}
	for {
		records, total, err := s.attendance.List(ctx, filter)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load attendance for report")
		}
		for _, rec := range records {
			data.Rows = append(data.Rows, map[string]string{
				"Student":   rec.StudentID,
				"Class":     rec.ClassID,
				"Date":      rec.Date.Format("2006-01-02"),
				"Status":    string(rec.Status),
				"Marked By": rec.MarkedBy,
			})
		}
		if len(data.Rows) >= total || len(records) == 0 {
			break
		}
		filter.Page++
	}

	if len(data.Rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no attendance records found")
	}
	return s.render(data, "attendance", "Attendance Report", format)
}

func (s *ReportService) render(data export.Dataset, name, title string, format ReportFormat) (*Report, error) {
	switch format {
	case ReportFormatCSV:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to render csv report")
		}
		return &Report{
			FileName:    fmt.Sprintf("%s-report.csv", name),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case ReportFormatPDF:
		content, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to render pdf report")
		}
		return &Report{
			FileName:    fmt.Sprintf("%s-report.pdf", name),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}
}
