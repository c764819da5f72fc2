package report

import (
	"strings"
	"testing"

	"github.com/GRousselet/post-nocrisis/app"
	"github.com/GRousselet/post-nocrisis/domain/core"
	"github.com/GRousselet/post-nocrisis/domain/simulation"
	"github.com/GRousselet/post-nocrisis/internal/testkit"
)

func fixtureRates(t *testing.T) *app.RunRates {
	t.Helper()
	params := testkit.SmallParams(4)
	params.RunID = core.NewRunID()
	params.EffectSize = 0.66
	result := simulation.NewResult(params)

	// Power 0.75 at (shape 0, trim 0), one false positive at (shape 2, trim 0).
	for trial := 0; trial < 3; trial++ {
		result.SetOutcome(simulation.Shifted, trial, 0, 0, true)
	}
	result.SetOutcome(simulation.Null, 0, 2, 0, true)

	rates, err := app.Aggregate(result)
	if err != nil {
		t.Fatalf("Failed to aggregate fixture: %v", err)
	}
	return rates
}

func TestMarkdownSections(t *testing.T) {
	md, err := Markdown(fixtureRates(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, want := range []string{
		"# Simulation report: testkit",
		"## Parameters",
		"## False-positive rate (null condition)",
		"## Power (shifted condition)",
		"## Two-study consistency (from empirical power)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Report missing section %q", want)
		}
	}
}

func TestMarkdownValues(t *testing.T) {
	md, err := Markdown(fixtureRates(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(md, "0.7500") {
		t.Error("Expected empirical power 0.7500 in the report")
	}
	// Both-reject at power 0.75 is 0.5625.
	if !strings.Contains(md, "0.5625") {
		t.Error("Expected consistency probability 0.5625 in the report")
	}
	if !strings.Contains(md, "trim 20%") {
		t.Error("Expected a trim-level column header")
	}
	if !strings.Contains(md, "0.660000") {
		t.Error("Expected the effect size in the parameter table")
	}
}

func TestMarkdownRowCounts(t *testing.T) {
	rates := fixtureRates(t)
	md, err := Markdown(rates)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// One wide row per shape in each rate table, one tidy row per
	// (shape, trim) cell in the consistency table.
	lines := strings.Split(md, "\n")
	count := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "| 0.5 |") {
			count++
		}
	}
	// g=0.5 appears once per rate table plus once per trim level in the
	// consistency table.
	want := 2 + len(rates.Params.Trims)
	if count != want {
		t.Errorf("Expected %d rows for g=0.5, got %d", want, count)
	}
}
