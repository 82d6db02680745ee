package target

import (
	"strings"
	"unicode/utf8"
)

// Target pairs a glossary key with its threshold. Thresholds at or below 1.0
// are fraction-scale (percentage requirements); above 1.0 they are raw scores
// such as a satisfaction rating on a 1-5 scale.
type Target struct {
	Key       string
	Threshold float64
}

// FractionScale reports whether the threshold represents a percentage.
func (t Target) FractionScale() bool {
	return t.Threshold <= 1.0
}

// DefaultGlossary returns the fixed assessment target table. Order matters:
// ties between equally long matching keys go to the earlier entry.
func DefaultGlossary() []Target {
	return []Target{
		{Key: "DCC首呼", Threshold: 0.95},
		{Key: "DCC二呼", Threshold: 0.90},
		{Key: "邀约开口率", Threshold: 80.0},
		{Key: "加微开口率", Threshold: 80.0},
		{Key: "试乘试驾满意度", Threshold: 4.80},
		{Key: "试驾排程率", Threshold: 0.90},
		{Key: "试驾后次日回访率", Threshold: 0.90},
		{Key: "试乘试驾满意度4.5分问卷占比", Threshold: 0.90},
		{Key: "交易协助满意度", Threshold: 4.80},
		{Key: "车辆交付满意度", Threshold: 4.80},
	}
}

// Resolver matches freeform metric labels against a fixed glossary. The
// glossary is injected at construction and never mutated.
type Resolver struct {
	glossary []Target
}

func NewResolver(glossary []Target) *Resolver {
	return &Resolver{glossary: append([]Target(nil), glossary...)}
}

// Resolve returns the glossary entry whose key is a substring of the label,
// preferring the longest matching key. Labels are freeform and may wrap a
// canonical metric name in qualifier text, so an exact-key map lookup would
// miss, and a short key must not shadow a longer, more specific one.
func (r *Resolver) Resolve(label string) (Target, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Target{}, false
	}
	var best Target
	bestLen := -1
	for _, t := range r.glossary {
		if !strings.Contains(label, t.Key) {
			continue
		}
		if n := utf8.RuneCountInString(t.Key); n > bestLen {
			best, bestLen = t, n
		}
	}
	return best, bestLen >= 0
}
