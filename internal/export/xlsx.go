package export

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/insurelens/policy-extract/internal/reconcile"
	"github.com/insurelens/policy-extract/internal/schema"
)

const sheetName = "Policies"

// Writer produces the consolidated XLSX table.
type Writer struct {
	log *slog.Logger
}

func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{log: logger}
}

// WriteTable projects every record onto the schema's ordered column list
// (absent columns backfilled with the sentinel) and writes the result to
// path. With appendRows set and an existing workbook at path, the new rows
// are concatenated after the existing ones — the existing header must equal
// the current schema column-for-column; a mismatch is an explicit error, not
// a silent reindex. Returns the total data-row count in the file.
func (w *Writer) WriteTable(records []reconcile.Record, s *schema.FieldSchema, path string, appendRows bool) (int, error) {
	start := time.Now()
	columns := s.Columns()

	f, sheet, firstRow, existing, err := w.openTarget(path, columns, appendRows)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			w.log.Warn("export.xlsx.close_error", "path", path, "error", err)
		}
	}()

	row := firstRow
	for _, rec := range records {
		for i, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(sheet, cell, cellValue(rec[col])); err != nil {
				return 0, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		row++
	}

	// widen the identifier and name columns; the rest stay default
	_ = f.SetColWidth(sheet, "B", "B", 26) // policy number
	_ = f.SetColWidth(sheet, "C", "C", 28) // customer name
	_ = f.SetColWidth(sheet, "D", "D", 28) // broker name
	_ = f.SetColWidth(sheet, "X", "X", 32) // source file

	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("xlsx save: %w", err)
	}

	total := existing + len(records)
	w.log.Info("export.xlsx.ok",
		"path", path,
		"rows_appended", len(records),
		"rows_total", total,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return total, nil
}

// openTarget returns the workbook to write into, the sheet name, the first
// free data row, and how many data rows already exist.
func (w *Writer) openTarget(path string, columns []string, appendRows bool) (*excelize.File, string, int, int, error) {
	if appendRows {
		if _, err := os.Stat(path); err == nil {
			f, err := excelize.OpenFile(path)
			if err != nil {
				return nil, "", 0, 0, fmt.Errorf("open existing table: %w", err)
			}
			sheet := f.GetSheetName(0)
			rows, err := f.GetRows(sheet)
			if err != nil {
				_ = f.Close()
				return nil, "", 0, 0, fmt.Errorf("read existing table: %w", err)
			}
			if len(rows) == 0 {
				_ = f.Close()
				return nil, "", 0, 0, fmt.Errorf("existing table %s has no header row", path)
			}
			if err := headerMatches(rows[0], columns); err != nil {
				_ = f.Close()
				return nil, "", 0, 0, fmt.Errorf("existing table %s: %w", path, err)
			}
			return f, sheet, len(rows) + 1, len(rows) - 1, nil
		}
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if sheet != sheetName {
		if err := f.SetSheetName(sheet, sheetName); err != nil {
			_ = f.Close()
			return nil, "", 0, 0, fmt.Errorf("rename sheet: %w", err)
		}
		sheet = sheetName
	}
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			_ = f.Close()
			return nil, "", 0, 0, fmt.Errorf("write header: %w", err)
		}
	}
	return f, sheet, 2, 0, nil
}

func headerMatches(header, columns []string) error {
	if len(header) != len(columns) {
		return fmt.Errorf("header has %d columns, schema has %d", len(header), len(columns))
	}
	for i, col := range columns {
		if header[i] != col {
			return fmt.Errorf("header column %d is %q, schema expects %q", i+1, header[i], col)
		}
	}
	return nil
}

// cellValue renders a record value for its cell: numbers stay numeric,
// strings stay verbatim, anything absent becomes the sentinel.
func cellValue(v any) any {
	switch t := v.(type) {
	case nil:
		return schema.Sentinel
	case float64:
		return t
	case string:
		if strings.TrimSpace(t) == "" {
			return schema.Sentinel
		}
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
