package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/calloway-health/pbx-rota-api/internal/dto"
	"github.com/calloway-health/pbx-rota-api/internal/models"
	"github.com/calloway-health/pbx-rota-api/internal/scheduling"
	appErrors "github.com/calloway-health/pbx-rota-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type rosterReader interface {
	ListActive(ctx context.Context) ([]models.Employee, error)
}

type assignmentStore interface {
	DeleteRange(ctx context.Context, exec sqlx.ExtContext, start, end time.Time) error
	BulkCreate(ctx context.Context, exec sqlx.ExtContext, assignments []models.Assignment) error
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]models.Assignment, error)
}

type absenceReader interface {
	ListApprovedOverlapping(ctx context.Context, start, end time.Time) ([]models.TimeOffRequest, error)
}

type txBeginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type rotaEngine interface {
	Generate(req scheduling.Request) (*scheduling.Result, error)
}

type coverageCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RotaServiceConfig bounds generation runs and report caching.
type RotaServiceConfig struct {
	MaxWeeks       int
	AuditInterval  time.Duration
	ReportCacheTTL time.Duration
}

// RotaService orchestrates rota generation: it assembles engine input from
// the stores, replaces the published window transactionally, and audits the
// result.
type RotaService struct {
	db          txBeginner
	roster      rosterReader
	assignments assignmentStore
	absences    absenceReader
	engine      rotaEngine
	cache       coverageCache
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         RotaServiceConfig
}

// NewRotaService builds a RotaService with sane defaults.
func NewRotaService(
	db txBeginner,
	roster rosterReader,
	assignments assignmentStore,
	absences absenceReader,
	engine rotaEngine,
	cache coverageCache,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg RotaServiceConfig,
) *RotaService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxWeeks <= 0 {
		cfg.MaxWeeks = 8
	}
	if cfg.AuditInterval <= 0 {
		cfg.AuditInterval = 30 * time.Minute
	}
	if cfg.ReportCacheTTL <= 0 {
		cfg.ReportCacheTTL = 15 * time.Minute
	}
	// A nil *redis.Client must disable caching, not panic on first use.
	if c, ok := cache.(*redis.Client); ok && c == nil {
		cache = nil
	}
	return &RotaService{
		db:          db,
		roster:      roster,
		assignments: assignments,
		absences:    absences,
		engine:      engine,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
	}
}

// Generate builds and publishes the rota for the requested window. The
// previously published assignments inside the window are replaced in the
// same transaction as the inserts.
func (s *RotaService) Generate(ctx context.Context, req dto.GenerateRotaRequest) (*dto.GenerateRotaResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation request")
	}
	start, err := time.ParseInLocation(dateLayout, req.StartDate, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must be YYYY-MM-DD")
	}
	if req.Weeks > s.cfg.MaxWeeks {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("horizon exceeds %d weeks", s.cfg.MaxWeeks))
	}
	end := start.AddDate(0, 0, req.Weeks*7-1)

	roster, err := s.roster.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load roster")
	}
	absences, err := s.absences.ListApprovedOverlapping(ctx, start, end)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load approved absences")
	}
	// Approved leave can outlive a deactivation; only absences belonging to
	// current roster members reach the engine.
	absences = rosterAbsences(roster, absences)

	// Assignments published earlier in the same ISO week keep counting
	// against weekly hours and rest windows.
	var published []models.Assignment
	if weekStart := isoWeekStart(start); weekStart.Before(start) {
		published, err = s.assignments.ListBetween(ctx, weekStart, start.AddDate(0, 0, -1))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load published assignments")
		}
	}

	result, err := s.engine.Generate(scheduling.Request{
		Roster:    roster,
		Absences:  absences,
		Start:     start,
		Weeks:     req.Weeks,
		Published: published,
	})
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "begin publish transaction")
	}
	if err := s.assignments.DeleteRange(ctx, tx, start, end); err != nil {
		_ = tx.Rollback()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "clear previous window")
	}
	if err := s.assignments.BulkCreate(ctx, tx, result.Assignments); err != nil {
		_ = tx.Rollback()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "publish assignments")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "commit publish transaction")
	}

	// Audit across the window's leading edge so night shifts published the
	// day before keep counting toward the first morning. This keeps the
	// cached report identical to what CoverageReport would compute.
	audited, err := s.assignments.ListBetween(ctx, start.AddDate(0, 0, -1), end)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load assignments for audit")
	}
	violations, err := scheduling.AuditCoverage(audited, start, req.Weeks*7, s.cfg.AuditInterval)
	if err != nil {
		return nil, err
	}

	resp := &dto.GenerateRotaResponse{
		StartDate:   req.StartDate,
		Weeks:       req.Weeks,
		Assignments: result.Assignments,
		Unfilled:    result.Unfilled,
		Violations:  violations,
	}
	s.cacheCoverage(ctx, req.StartDate, req.Weeks*7, violations)
	s.metrics.RecordGeneration(len(result.Assignments), len(result.Unfilled), len(violations))
	s.logger.Info("rota published",
		zap.String("start", req.StartDate),
		zap.Int("weeks", req.Weeks),
		zap.Int("assignments", len(result.Assignments)),
		zap.Int("unfilled", len(result.Unfilled)),
		zap.Int("coverage_violations", len(violations)))
	return resp, nil
}

// ListAssignments returns published assignments matching the query.
func (s *RotaService) ListAssignments(ctx context.Context, query dto.AssignmentQuery) ([]models.Assignment, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment query")
	}
	filter := models.AssignmentFilter{EmployeeID: query.EmployeeID}
	if query.StartDate != "" {
		start, err := time.ParseInLocation(dateLayout, query.StartDate, time.UTC)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must be YYYY-MM-DD")
		}
		filter.StartDate = &start
	}
	if query.EndDate != "" {
		end, err := time.ParseInLocation(dateLayout, query.EndDate, time.UTC)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be YYYY-MM-DD")
		}
		filter.EndDate = &end
	}
	list, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list assignments")
	}
	return list, nil
}

// CoverageReport audits the published window, serving a cached report when a
// fresh one exists.
func (s *RotaService) CoverageReport(ctx context.Context, query dto.CoverageReportQuery) (*dto.CoverageReportResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid coverage query")
	}
	start, err := time.ParseInLocation(dateLayout, query.StartDate, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must be YYYY-MM-DD")
	}
	days := query.Days
	if days <= 0 {
		days = 7
	}

	if cached := s.cachedCoverage(ctx, query.StartDate, days); cached != nil {
		return &dto.CoverageReportResponse{StartDate: query.StartDate, Days: days, Violations: cached}, nil
	}

	end := start.AddDate(0, 0, days-1)
	// Pull one extra day on each side so wrapping night shifts count.
	assignments, err := s.assignments.ListBetween(ctx, start.AddDate(0, 0, -1), end)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load assignments for audit")
	}
	violations, err := scheduling.AuditCoverage(assignments, start, days, s.cfg.AuditInterval)
	if err != nil {
		return nil, err
	}
	s.cacheCoverage(ctx, query.StartDate, days, violations)
	return &dto.CoverageReportResponse{StartDate: query.StartDate, Days: days, Violations: violations}, nil
}

func coverageCacheKey(startDate string, days int) string {
	return fmt.Sprintf("coverage:%s:%d", startDate, days)
}

func rosterAbsences(roster []models.Employee, records []models.TimeOffRequest) []models.TimeOffRequest {
	ids := make(map[string]struct{}, len(roster))
	for _, emp := range roster {
		ids[emp.ID] = struct{}{}
	}
	kept := make([]models.TimeOffRequest, 0, len(records))
	for _, rec := range records {
		if _, ok := ids[rec.EmployeeID]; ok {
			kept = append(kept, rec)
		}
	}
	return kept
}

func (s *RotaService) cacheCoverage(ctx context.Context, startDate string, days int, violations []models.CoverageViolation) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(violations)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, coverageCacheKey(startDate, days), payload, s.cfg.ReportCacheTTL).Err(); err != nil {
		s.logger.Warn("coverage cache write failed", zap.Error(err))
	}
}

func (s *RotaService) cachedCoverage(ctx context.Context, startDate string, days int) []models.CoverageViolation {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, coverageCacheKey(startDate, days)).Bytes()
	if err != nil {
		return nil
	}
	var violations []models.CoverageViolation
	if err := json.Unmarshal(raw, &violations); err != nil {
		return nil
	}
	if violations == nil {
		violations = []models.CoverageViolation{}
	}
	return violations
}

// isoWeekStart returns the Monday of the date's ISO week.
func isoWeekStart(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -offset)
}
