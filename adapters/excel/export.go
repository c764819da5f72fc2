// Package excel exports empirical rate tables to .xlsx workbooks for
// the plotting collaborator.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/GRousselet/post-nocrisis/domain/simulation"
)

// Exporter writes simulation rate tables to an Excel workbook: one
// wide sheet per condition (rows = shapes, one column per trim level)
// plus a tidy sheet matching the RateTable layout.
type Exporter struct{}

// NewExporter creates an Excel exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes the workbook to path, overwriting any existing file.
func (e *Exporter) Export(result *simulation.Result, path string) error {
	if err := result.Validate(); err != nil {
		return fmt.Errorf("refusing to export invalid result: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for _, cond := range []simulation.Condition{simulation.Null, simulation.Shifted} {
		if err := e.writeWideSheet(f, result, cond); err != nil {
			return err
		}
	}
	if err := e.writeTidySheet(f, result); err != nil {
		return err
	}

	// Drop the default sheet so the workbook opens on the rates.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func sheetName(cond simulation.Condition) string {
	if cond == simulation.Null {
		return "false_positive_rate"
	}
	return "power"
}

func (e *Exporter) writeWideSheet(f *excelize.File, result *simulation.Result, cond simulation.Condition) error {
	sheet := sheetName(cond)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	headers := []interface{}{"g", "h"}
	for _, trim := range result.Params.Trims {
		headers = append(headers, "trim "+trim.Label())
	}
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}

	for shapeIdx, shape := range result.Params.Shapes {
		row := []interface{}{shape.G, shape.H}
		for trimIdx := range result.Params.Trims {
			row = append(row, result.Rate(cond, shapeIdx, trimIdx))
		}
		if err := setRow(f, sheet, shapeIdx+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeTidySheet(f *excelize.File, result *simulation.Result) error {
	const sheet = "tidy"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	if err := setRow(f, sheet, 1, []interface{}{"condition", "g", "h", "trim", "probability"}); err != nil {
		return err
	}

	row := 2
	for _, cond := range []simulation.Condition{simulation.Null, simulation.Shifted} {
		for _, point := range result.RateTable(cond) {
			values := []interface{}{cond.String(), point.G, point.H, point.TrimLabel, point.Probability}
			if err := setRow(f, sheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to address cell (%d,%d): %w", col+1, row, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
