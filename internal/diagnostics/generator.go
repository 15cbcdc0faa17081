package diagnostics

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"revdiag/internal/dataprocessing"
	"revdiag/pkg/contracts/domain"
)

// Predicate selects deviations by direction. NaN never qualifies.
type Predicate func(deviation float64) bool

var (
	// Above keeps records that beat their baseline.
	Above Predicate = func(d float64) bool { return d > 0 }
	// Below keeps records that fall short of their baseline.
	Below Predicate = func(d float64) bool { return d < 0 }
	// Deviating keeps every record off its baseline.
	Deviating Predicate = func(d float64) bool { return d != 0 && !math.IsNaN(d) }
)

// PayerFilter names a payer-specific analysis: rows whose payer contains
// Match (case-sensitive) are reported under Title.
type PayerFilter struct {
	Title string
	Match string
}

// Options configures a Generator. Zero values fall back to the defaults.
type Options struct {
	Metrics   []domain.Metric
	TopN      int
	Separator string
	Payers    []PayerFilter
}

const (
	defaultTopN      = 2
	defaultSeparator = " | "
)

// Generator turns metric deviations into ranked explanations.
type Generator struct {
	metrics   []domain.Metric
	topN      int
	separator string
	payers    []PayerFilter
	logger    *slog.Logger
}

// NewGenerator creates a generator; a nil logger uses slog.Default.
func NewGenerator(opts Options, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{
		metrics:   opts.Metrics,
		topN:      opts.TopN,
		separator: opts.Separator,
		payers:    opts.Payers,
		logger:    logger,
	}
	if len(g.metrics) == 0 {
		g.metrics = domain.DiagnosticMetrics
	}
	if g.topN <= 0 {
		g.topN = defaultTopN
	}
	if g.separator == "" {
		g.separator = defaultSeparator
	}
	return g
}

// Payers returns the configured payer analyses in output order.
func (g *Generator) Payers() []PayerFilter {
	return g.payers
}

// Explain returns, metric by metric, one sentence for each of the topN
// records with the largest absolute deviation satisfying pred. Equal
// deviations keep their original row order.
func (g *Generator) Explain(records []*domain.VisitRecord, pred Predicate) []string {
	var sentences []string

	for _, metric := range g.metrics {
		var candidates []*domain.VisitRecord
		for _, r := range records {
			d := r.Comparison(metric).Deviation
			if !math.IsNaN(d) && pred(d) {
				candidates = append(candidates, r)
			}
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			return math.Abs(candidates[i].Comparison(metric).Deviation) >
				math.Abs(candidates[j].Comparison(metric).Deviation)
		})

		if len(candidates) > g.topN {
			candidates = candidates[:g.topN]
		}
		for _, r := range candidates {
			sentences = append(sentences, FormatSentence(r, metric))
		}
	}

	return sentences
}

// Render joins sentences with the separator, or returns "null" when empty.
func (g *Generator) Render(sentences []string) string {
	if len(sentences) == 0 {
		return domain.NullDiagnostic
	}
	return strings.Join(sentences, g.separator)
}

// ForWeek produces every diagnostic field for one week's records.
func (g *Generator) ForWeek(records []*domain.VisitRecord) domain.WeeklyDiagnostics {
	diag := domain.WeeklyDiagnostics{
		WentWell:   g.Render(g.Explain(records, Above)),
		CanImprove: g.Render(g.Explain(records, Below)),
		Payers:     make([]domain.PayerDiagnostic, 0, len(g.payers)),
	}
	for _, p := range g.payers {
		diag.Payers = append(diag.Payers, domain.PayerDiagnostic{
			Title: p.Title,
			Text:  g.Render(g.Explain(FilterPayer(records, p.Match), Deviating)),
		})
	}
	return diag
}

// Generate runs ForWeek over every week group.
func (g *Generator) Generate(groups []dataprocessing.WeekGroup) map[domain.WeekKey]domain.WeeklyDiagnostics {
	out := make(map[domain.WeekKey]domain.WeeklyDiagnostics, len(groups))
	for _, wg := range groups {
		out[wg.Key] = g.ForWeek(wg.Records)
		g.logger.Debug("Week diagnosed",
			slog.String("week", wg.Key.String()),
			slog.Int("records", len(wg.Records)))
	}
	return out
}

// Empty returns a diagnostics value with every field set to "null".
func (g *Generator) Empty() domain.WeeklyDiagnostics {
	diag := domain.WeeklyDiagnostics{
		WentWell:   domain.NullDiagnostic,
		CanImprove: domain.NullDiagnostic,
	}
	for _, p := range g.payers {
		diag.Payers = append(diag.Payers, domain.PayerDiagnostic{Title: p.Title, Text: domain.NullDiagnostic})
	}
	return diag
}

// FilterPayer keeps the records whose payer name contains match.
func FilterPayer(records []*domain.VisitRecord, match string) []*domain.VisitRecord {
	var out []*domain.VisitRecord
	for _, r := range records {
		if strings.Contains(r.Payer, match) {
			out = append(out, r)
		}
	}
	return out
}

// FormatSentence renders one record's metric against its baseline.
func FormatSentence(r *domain.VisitRecord, metric domain.Metric) string {
	c := r.Comparison(metric)
	return fmt.Sprintf("%s - %s %s is %.2f, while its overall average is %.2f.",
		r.Payer, r.CodeGroup, metric, c.Value, c.Baseline)
}
