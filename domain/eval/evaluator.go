package eval

import (
	"fmt"
	"strconv"
	"strings"

	"storereport/domain/report"
	"storereport/domain/target"
)

// IndicatorToken marks the secondary header label of a scored metric column.
// Numerator (分子) and denominator (分母) columns are informational only.
const IndicatorToken = "指标"

// AllPass is the sentinel shown when a record misses no target.
const AllPass = "👍 全部合格"

// Failure is one missed target, pre-formatted for display.
type Failure struct {
	Metric string
	Actual string
	Target string
}

// String renders the two-line display form used in the outcome column.
func (f Failure) String() string {
	return fmt.Sprintf("%s:\n%s / %s", f.Metric, f.Actual, f.Target)
}

// Evaluation holds the per-record outcome. Failures keep column iteration
// order.
type Evaluation struct {
	Failures []Failure
}

func (e Evaluation) Passed() bool {
	return len(e.Failures) == 0
}

// Summary renders the outcome cell text: the all-pass sentinel or the
// newline-joined failure entries.
func (e Evaluation) Summary() string {
	if e.Passed() {
		return AllPass
	}
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.String()
	}
	return strings.Join(parts, "\n")
}

// Evaluator scores records against the glossary held by its resolver.
type Evaluator struct {
	resolver *target.Resolver
}

func NewEvaluator(resolver *target.Resolver) *Evaluator {
	return &Evaluator{resolver: resolver}
}

// AlignScale brings a parsed value onto the target's scale. Fraction targets
// paired with values above 1.0 assume the value is a whole percentage and
// divide by 100. Values at or below 1.0 are taken as fractions already, even
// when the source meant something else; the data carries no way to tell.
func AlignScale(t target.Target, value float64) float64 {
	if t.FractionScale() && value > 1.0 {
		return value / 100.0
	}
	return value
}

// Evaluate scores one record against every indicator column. Columns with no
// resolvable target and cells with no parsable value are skipped, never
// failed: missing data is not evaluable, not wrong.
func (ev *Evaluator) Evaluate(rec report.Record, headers []report.HeaderEntry) Evaluation {
	var result Evaluation
	for _, h := range headers {
		if !strings.Contains(h.Secondary, IndicatorToken) {
			continue
		}
		t, ok := ev.resolver.Resolve(h.Primary)
		if !ok {
			continue
		}
		val, ok := target.ParseValue(rec[h.Key])
		if !ok {
			continue
		}
		aligned := AlignScale(t, val)
		if aligned >= t.Threshold {
			continue
		}
		result.Failures = append(result.Failures, formatFailure(t, val, aligned))
	}
	return result
}

// formatFailure renders both sides of a miss on the target's scale: fraction
// targets as percentages (target whole, actual to one decimal), raw targets
// as plain numbers with the actual left unaligned.
func formatFailure(t target.Target, raw, aligned float64) Failure {
	if t.FractionScale() {
		return Failure{
			Metric: t.Key,
			Actual: fmt.Sprintf("%.1f%%", aligned*100),
			Target: fmt.Sprintf("%.0f%%", t.Threshold*100),
		}
	}
	return Failure{
		Metric: t.Key,
		Actual: strconv.FormatFloat(raw, 'f', -1, 64),
		Target: strconv.FormatFloat(t.Threshold, 'f', -1, 64),
	}
}
