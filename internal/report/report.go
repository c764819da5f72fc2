// Package report renders a simulation run as a Markdown document:
// parameters, empirical false-positive and power tables, and the
// two-study consistency probabilities implied by the empirical power.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/GRousselet/post-nocrisis/app"
	"github.com/GRousselet/post-nocrisis/domain/simulation"
)

// Write renders the aggregated run to w in Markdown.
func Write(w io.Writer, rates *app.RunRates) error {
	md := markdown.NewMarkdown(w)

	md.H1("Simulation report: " + rates.Params.Label)
	md.PlainText("")
	writeParams(md, rates.Params)
	writeRates(md, "False-positive rate (null condition)", rates.Params, rates.FalsePositive)
	writeRates(md, "Power (shifted condition)", rates.Params, rates.Power)
	writeConsistency(md, rates)

	return md.Build()
}

// Markdown renders the aggregated run to a string.
func Markdown(rates *app.RunRates) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, rates); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeParams(md *markdown.Markdown, p simulation.Params) {
	md.H2("Parameters")
	md.Table(markdown.TableSet{
		Header: []string{"Parameter", "Value"},
		Rows: [][]string{
			{"Run ID", p.RunID.String()},
			{"Trials", strconv.Itoa(p.Trials)},
			{"Sample size", strconv.Itoa(p.SampleSize)},
			{"Alpha", fmt.Sprintf("%g", p.Alpha)},
			{"Effect size", fmt.Sprintf("%.6f", p.EffectSize)},
			{"Seed", strconv.FormatInt(p.Seed, 10)},
			{"Shapes", strconv.Itoa(len(p.Shapes))},
			{"Trim levels", trimLabels(p.Trims)},
		},
	})
	md.PlainText("")
}

func trimLabels(trims []simulation.TrimLevel) string {
	out := ""
	for i, t := range trims {
		if i > 0 {
			out += ", "
		}
		out += t.Label()
	}
	return out
}

// writeRates lays the tidy points back out as one row per shape with a
// column per trim level, which is how the curves are read.
func writeRates(md *markdown.Markdown, title string, p simulation.Params, points []simulation.RatePoint) {
	md.H2(title)

	header := []string{"g", "h"}
	for _, trim := range p.Trims {
		header = append(header, "trim "+trim.Label())
	}

	byShape := make(map[simulation.Shape][]string, len(p.Shapes))
	for _, point := range points {
		key := simulation.Shape{G: point.G, H: point.H}
		byShape[key] = append(byShape[key], fmt.Sprintf("%.4f", point.Probability))
	}

	rows := make([][]string, 0, len(p.Shapes))
	for _, shape := range p.Shapes {
		row := []string{fmt.Sprintf("%g", shape.G), fmt.Sprintf("%g", shape.H)}
		rows = append(rows, append(row, byShape[shape]...))
	}

	md.Table(markdown.TableSet{Header: header, Rows: rows})
	md.PlainText("")
}

func writeConsistency(md *markdown.Markdown, rates *app.RunRates) {
	md.H2("Two-study consistency (from empirical power)")
	md.PlainText("Probability that two independent replications both reject, disagree, or both fail to reject.")
	md.PlainText("")

	rows := make([][]string, 0, len(rates.Consistency))
	for _, row := range rates.Consistency {
		rows = append(rows, []string{
			fmt.Sprintf("%g", row.G),
			row.TrimLabel,
			fmt.Sprintf("%.4f", row.Outcome.Power),
			fmt.Sprintf("%.4f", row.Outcome.ConsistentPositive),
			fmt.Sprintf("%.4f", row.Outcome.Inconsistent),
			fmt.Sprintf("%.4f", row.Outcome.ConsistentNegative),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"g", "trim", "power", "both reject", "disagree", "neither rejects"},
		Rows:   rows,
	})
}
