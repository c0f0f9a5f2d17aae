package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/table"
)

// XLSX exports a snapshot as a single-sheet spreadsheet workbook.
type XLSX struct{}

func (XLSX) Export(snap *table.Snapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range snap.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("cell coordinates: %w", err)
		}
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("set row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (XLSX) Extension() string { return ".xlsx" }

func (XLSX) MimeType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
