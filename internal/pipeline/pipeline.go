package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"revdiag/internal/config"
	"revdiag/internal/dataprocessing"
	"revdiag/internal/diagnostics"
	apperrors "revdiag/internal/errors"
	"revdiag/internal/exporter"
	"revdiag/internal/infrastructure"
	"revdiag/internal/model"
	"revdiag/internal/validation"
	"revdiag/pkg/contracts/domain"
)

// Report is everything one run produced.
type Report struct {
	Records   []domain.VisitRecord
	Weeks     []domain.WeeklySummary
	Model     *model.LinearModel
	Baselines map[domain.GroupKey]*domain.Baseline
	Table     *exporter.Table
}

// Pipeline runs load, aggregation, modeling, diagnostics and export for one
// export file.
type Pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	metrics   *infrastructure.RunMetrics
	tracer    trace.Tracer
	generator *diagnostics.Generator
	files     *validation.FileValidator
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger; the default is the global logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithMetrics records run gauges into m
func WithMetrics(m *infrastructure.RunMetrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithTracer sets the tracer used for stage spans
func WithTracer(t trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = t }
}

// New creates a pipeline for cfg
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:     cfg,
		logger:  infrastructure.GetLogger(),
		metrics: infrastructure.NewRunMetrics(),
		tracer:  otel.Tracer(infrastructure.TracerName),
	}
	for _, opt := range opts {
		opt(p)
	}

	payers := make([]diagnostics.PayerFilter, len(cfg.Diagnostics.PayerAnalyses))
	for i, pa := range cfg.Diagnostics.PayerAnalyses {
		payers[i] = diagnostics.PayerFilter{Title: pa.Title, Match: pa.Match}
	}
	p.files = validation.NewFileValidator(p.logger)
	p.generator = diagnostics.NewGenerator(diagnostics.Options{
		Metrics:   domain.DiagnosticMetrics,
		TopN:      cfg.Diagnostics.TopN,
		Separator: cfg.Diagnostics.Separator,
		Payers:    payers,
	}, p.logger)

	return p
}

// Metrics returns the gauges the pipeline records into
func (p *Pipeline) Metrics() *infrastructure.RunMetrics {
	return p.metrics
}

// Run reads the configured input, analyzes it and writes the outputs.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	start := time.Now()

	ctx, span := p.tracer.Start(ctx, "revdiag.run",
		trace.WithAttributes(attribute.String("input.path", p.cfg.Input.Path)))
	defer span.End()

	p.logger.InfoContext(ctx, "Starting weekly diagnostics run",
		slog.String("input", p.cfg.Input.Path),
		slog.String("output", p.cfg.Output.Path))

	var records []domain.VisitRecord
	err := p.stage(ctx, "load", func(ctx context.Context) error {
		if err := p.files.ValidateExcelFile(p.cfg.Input.Path); err != nil {
			return err
		}
		var err error
		records, err = dataprocessing.ParseFile(p.cfg.Input.Path, p.cfg.Input.Sheet)
		return err
	})
	if err != nil {
		return nil, p.fail(span, err)
	}

	report, err := p.Analyze(ctx, records)
	if err != nil {
		return nil, p.fail(span, err)
	}

	if err := p.stage(ctx, "export", func(ctx context.Context) error {
		return p.export(report.Table)
	}); err != nil {
		return nil, p.fail(span, err)
	}

	p.metrics.LastSuccess.SetToCurrentTime()
	if path := p.cfg.Telemetry.MetricsFile; path != "" {
		if err := p.metrics.WriteTextfile(path); err != nil {
			return nil, p.fail(span, apperrors.NewStorageError("failed to write run metrics", err).
				WithContext("path", path))
		}
	}

	p.logger.InfoContext(ctx, "Weekly diagnostics run complete",
		slog.Int("records", len(report.Records)),
		slog.Int("weeks", len(report.Weeks)),
		slog.Duration("duration", time.Since(start)))

	return report, nil
}

// Analyze runs every stage between loading and exporting on records, which
// are augmented in place.
func (p *Pipeline) Analyze(ctx context.Context, records []domain.VisitRecord) (*Report, error) {
	report := &Report{Records: records}
	p.metrics.RowsLoaded.Set(float64(len(records)))

	var groups []dataprocessing.WeekGroup
	err := p.stage(ctx, "aggregate", func(ctx context.Context) error {
		if len(records) == 0 {
			return apperrors.NewValidationError("export contains no visit records", nil)
		}
		dataprocessing.DeriveFeatures(records)
		groups = dataprocessing.GroupByWeek(records)
		report.Weeks = dataprocessing.AggregateWeekly(groups)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate weekly features: %w", err)
	}
	p.metrics.WeeksModeled.Set(float64(len(report.Weeks)))

	err = p.stage(ctx, "model", func(ctx context.Context) error {
		m, err := model.FitWeekly(ctx, report.Weeks, p.logger)
		if err != nil {
			return err
		}
		report.Model = m
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fit revenue model: %w", err)
	}
	p.metrics.ModelRSquared.Set(report.Model.RSquared)
	for _, w := range report.Weeks {
		p.metrics.WeeksByPerformance.WithLabelValues(string(w.Performance)).Inc()
	}

	err = p.stage(ctx, "diagnose", func(ctx context.Context) error {
		report.Baselines = diagnostics.Compare(records, domain.DiagnosticMetrics)
		byWeek := p.generator.Generate(groups)
		for i := range report.Weeks {
			w := &report.Weeks[i]
			diag, ok := byWeek[w.Key]
			if !ok {
				diag = p.generator.Empty()
			}
			w.Diagnostics = diag
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate diagnostics: %w", err)
	}

	titles := make([]string, 0, len(p.generator.Payers()))
	for _, pf := range p.generator.Payers() {
		titles = append(titles, pf.Title)
	}
	report.Table = exporter.BuildWeeklyTable(report.Weeks, titles)

	return report, nil
}

func (p *Pipeline) export(table *exporter.Table) error {
	if err := p.files.PrepareOutputFile(p.cfg.Output.Path, ".xlsx"); err != nil {
		return err
	}
	if err := exporter.NewWorkbookWriter(p.cfg.Output.Sheet).WriteTable(p.cfg.Output.Path, table); err != nil {
		return apperrors.NewStorageError("failed to write diagnostics workbook", err).
			WithContext("path", p.cfg.Output.Path)
	}
	if p.cfg.Output.CSVPath != "" {
		if err := p.files.PrepareOutputFile(p.cfg.Output.CSVPath, ".csv"); err != nil {
			return err
		}
		if err := exporter.NewCSVWriter().WriteTable(p.cfg.Output.CSVPath, table); err != nil {
			return apperrors.NewStorageError("failed to write diagnostics CSV", err).
				WithContext("path", p.cfg.Output.CSVPath)
		}
	}
	return nil
}

// stage runs fn inside a span and records its wall time.
func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, "revdiag."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	p.metrics.StageSeconds.WithLabelValues(name).Set(elapsed.Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.ErrorContext(ctx, "Stage failed",
			slog.String("stage", name),
			slog.String("error", err.Error()))
		return err
	}

	p.logger.DebugContext(ctx, "Stage finished",
		slog.String("stage", name),
		slog.Duration("duration", elapsed))
	return nil
}

func (p *Pipeline) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
