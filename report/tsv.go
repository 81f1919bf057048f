package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andareed/markwrite/clipboard"
	"github.com/andareed/markwrite/logging"
)

// WriteTSV writes a header line and rows as tab separated values.
func WriteTSV(w io.Writer, cols []string, rows [][]string, progress Progress) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if len(row) != len(cols) {
			return fmt.Errorf("row %d has %d fields, want %d", i, len(row), len(cols))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
		progress.report(i+1, len(rows))
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush tsv: %w", err)
	}
	return nil
}

// ExportTSV writes a TSV report to path.
func ExportTSV(path string, cols []string, rows [][]string, progress Progress) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	if err := WriteTSV(f, cols, rows, progress); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	logging.Infof("report: wrote %d rows to %s", len(rows), path)
	return nil
}

// Copy puts a TSV report on the clipboard.
func Copy(cols []string, rows [][]string) error {
	var b strings.Builder
	if err := WriteTSV(&b, cols, rows, nil); err != nil {
		return err
	}
	return clipboard.Copy(b.String())
}
