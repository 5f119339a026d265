package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ConvertXLSXToCSV converts the first sheet of an XLSX export to a CSV file
// so the CSV readers can consume spreadsheet uploads directly.
func ConvertXLSXToCSV(xlsxPath, csvPath string) error {
	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("failed to open xlsx file %s: %w", xlsxPath, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("xlsx file %s has no sheets", xlsxPath)
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	out, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create csv file %s: %w", csvPath, err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()

	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("failed to read row from %s: %w", xlsxPath, err)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row to %s: %w", csvPath, err)
		}
	}

	if err := rows.Error(); err != nil {
		return fmt.Errorf("error iterating rows in %s: %w", xlsxPath, err)
	}

	return nil
}

// NormalizePath converts an uploaded spreadsheet to CSV when needed and
// returns the path of the file to parse.
func NormalizePath(path, workDir string) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return path, nil
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	csvPath := filepath.Join(workDir, base+".csv")
	if err := ConvertXLSXToCSV(path, csvPath); err != nil {
		return "", err
	}
	return csvPath, nil
}
