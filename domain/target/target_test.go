package target

import (
	"testing"
)

// TestResolveLongestMatch tests that the longest matching key wins over a
// shorter one that also matches.
func TestResolveLongestMatch(t *testing.T) {
	r := NewResolver([]Target{
		{Key: "A", Threshold: 0.5},
		{Key: "AB", Threshold: 0.9},
	})

	got, ok := r.Resolve("ABC")
	if !ok {
		t.Fatal("expected a match for label ABC")
	}
	if got.Key != "AB" {
		t.Errorf("expected key AB, got %s", got.Key)
	}
}

// TestResolveDefaultGlossary tests matching against the real target table.
func TestResolveDefaultGlossary(t *testing.T) {
	r := NewResolver(DefaultGlossary())

	tests := []struct {
		label     string
		wantKey   string
		wantFound bool
	}{
		{"DCC首呼", "DCC首呼", true},
		{"DCC首呼接通率", "DCC首呼", true},
		{"本月试乘试驾满意度4.5分问卷占比", "试乘试驾满意度4.5分问卷占比", true},
		{"试乘试驾满意度", "试乘试驾满意度", true},
		{"交车周期", "", false},
		{"", "", false},
		{"   ", "", false},
	}

	for _, test := range tests {
		got, ok := r.Resolve(test.label)
		if ok != test.wantFound {
			t.Errorf("Resolve(%q) found=%v, want %v", test.label, ok, test.wantFound)
			continue
		}
		if ok && got.Key != test.wantKey {
			t.Errorf("Resolve(%q) key=%s, want %s", test.label, got.Key, test.wantKey)
		}
	}
}

// TestResolveTieOrder tests that ties between equally long keys go to the
// earlier glossary entry.
func TestResolveTieOrder(t *testing.T) {
	r := NewResolver([]Target{
		{Key: "XY", Threshold: 1.5},
		{Key: "YZ", Threshold: 2.5},
	})

	got, ok := r.Resolve("XYZ")
	if !ok {
		t.Fatal("expected a match for label XYZ")
	}
	if got.Key != "XY" {
		t.Errorf("expected first-seen key XY to win the tie, got %s", got.Key)
	}
}

// TestFractionScale tests the threshold scale classification.
func TestFractionScale(t *testing.T) {
	if !(Target{Threshold: 0.95}).FractionScale() {
		t.Error("0.95 should be fraction scale")
	}
	if !(Target{Threshold: 1.0}).FractionScale() {
		t.Error("1.0 should be fraction scale")
	}
	if (Target{Threshold: 4.8}).FractionScale() {
		t.Error("4.8 should be raw scale")
	}
	if (Target{Threshold: 80.0}).FractionScale() {
		t.Error("80.0 should be raw scale")
	}
}
