package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/calloway-health/pbx-rota-api/internal/models"
	"github.com/calloway-health/pbx-rota-api/internal/scheduling"
	"github.com/calloway-health/pbx-rota-api/pkg/export"
	"github.com/calloway-health/pbx-rota-api/pkg/storage"
)

type exportAssignmentReader interface {
	ListBetween(ctx context.Context, start, end time.Time) ([]models.Assignment, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type xlsxRenderer interface {
	Render(sheets []export.Sheet) ([]byte, error)
}

// ExportConfig tunes export rendering behaviour.
type ExportConfig struct {
	APIPrefix     string
	ResultTTL     time.Duration
	AuditInterval time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService builds rota datasets and persists rendered files.
type ExportService struct {
	assignments exportAssignmentReader
	storage     fileStorage
	csv         csvRenderer
	pdf         pdfRenderer
	xlsx        xlsxRenderer
	signer      *storage.SignedURLSigner
	logger      *zap.Logger
	cfg         ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(assignments exportAssignmentReader, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, xlsx xlsxRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.AuditInterval <= 0 {
		cfg.AuditInterval = 30 * time.Minute
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewExcelExporter()
	}
	return &ExportService{
		assignments: assignments,
		storage:     files,
		csv:         csv,
		pdf:         pdf,
		xlsx:        xlsx,
		signer:      signer,
		logger:      logger,
		cfg:         cfg,
	}
}

// Generate renders the requested window and stores the file under a signed
// download token.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	start, err := time.ParseInLocation(dateLayout, job.Params.StartDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse export start date: %w", err)
	}
	end, err := time.ParseInLocation(dateLayout, job.Params.EndDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse export end date: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("export range inverted")
	}

	// Pull one day before the window so wrapping nights show up in the
	// coverage sheet.
	assignments, err := s.assignments.ListBetween(ctx, start.AddDate(0, 0, -1), end)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("PBX Rota %s to %s", job.Params.StartDate, job.Params.EndDate)
	windowed := filterWindow(assignments, start)
	var payload []byte
	switch job.Params.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(assignmentDataset(windowed))
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(assignmentDataset(windowed), title)
	case models.ExportFormatXLSX:
		days := int(end.Sub(start).Hours()/24) + 1
		var violations []models.CoverageViolation
		violations, err = scheduling.AuditCoverage(assignments, start, days, s.cfg.AuditInterval)
		if err == nil {
			payload, err = s.xlsx.Render([]export.Sheet{
				{Name: "Assignments", Data: assignmentDataset(windowed)},
				{Name: "Weekly Hours", Data: weeklyHoursDataset(windowed)},
				{Name: "Coverage Violations", Data: violationDataset(violations)},
			})
		}
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := buildExportFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/exports/download/%s", prefix, token),
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl, defaulting to the configured TTL.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func buildExportFilename(job *models.ExportJob) string {
	id := job.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("rota_%s_%s_%s.%s", job.Params.StartDate, job.Params.EndDate, id, job.Params.Format)
}

func filterWindow(assignments []models.Assignment, start time.Time) []models.Assignment {
	out := make([]models.Assignment, 0, len(assignments))
	for _, a := range assignments {
		if !a.Date.Before(start) {
			out = append(out, a)
		}
	}
	return out
}

func assignmentDataset(assignments []models.Assignment) export.Dataset {
	rows := make([]map[string]string, 0, len(assignments))
	for _, a := range assignments {
		overtime := ""
		if a.IsOvertime {
			overtime = "yes"
		}
		rows = append(rows, map[string]string{
			"Date":     a.Date.Format(dateLayout),
			"Employee": a.EmployeeName,
			"Role":     a.Role,
			"Period":   string(a.Period),
			"Start":    a.StartTime,
			"End":      a.EndTime,
			"Hours":    strconv.FormatFloat(a.Hours, 'f', -1, 64),
			"Overtime": overtime,
		})
	}
	return export.Dataset{
		Headers: []string{"Date", "Employee", "Role", "Period", "Start", "End", "Hours", "Overtime"},
		Rows:    rows,
	}
}

func weeklyHoursDataset(assignments []models.Assignment) export.Dataset {
	type bucket struct {
		employee string
		week     string
	}
	totals := make(map[bucket]float64)
	for _, a := range assignments {
		totals[bucket{employee: a.EmployeeName, week: scheduling.WeekKey(a.Date)}] += a.Hours
	}
	keys := make([]bucket, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].employee != keys[j].employee {
			return keys[i].employee < keys[j].employee
		}
		return keys[i].week < keys[j].week
	})

	rows := make([]map[string]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, map[string]string{
			"Employee": k.employee,
			"Week":     k.week,
			"Hours":    strconv.FormatFloat(totals[k], 'f', -1, 64),
		})
	}
	return export.Dataset{Headers: []string{"Employee", "Week", "Hours"}, Rows: rows}
}

func violationDataset(violations []models.CoverageViolation) export.Dataset {
	rows := make([]map[string]string, 0, len(violations))
	for _, v := range violations {
		rows = append(rows, map[string]string{
			"Date":     v.Date.Format(dateLayout),
			"Time":     v.Time,
			"Required": strconv.Itoa(v.Required),
			"Actual":   strconv.Itoa(v.Actual),
		})
	}
	return export.Dataset{Headers: []string{"Date", "Time", "Required", "Actual"}, Rows: rows}
}
