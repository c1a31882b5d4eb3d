// Package export writes equipment manifests as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/erazemk/gripcheck/internal/model"
)

// ContentType is the MIME type of the XLSX output.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names.
const (
	InventorySheet = "Inventory"
	HistorySheet   = "History"
)

const stampFmt = "2006-01-02 15:04"

var inventoryHeaders = []any{
	"Name", "Serial", "Category", "Status", "Holder", "Position", "Project", "Last Checked", "Location", "Notes",
}

var historyHeaders = []any{
	"Serial", "Equipment", "Type", "Timestamp", "User", "Position", "Project", "Notes",
}

// WriteXLSX writes a two-sheet workbook: one row per item on the
// inventory sheet and one row per transaction on the history sheet.
func WriteXLSX(w io.Writer, items []model.Equipment) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", InventorySheet); err != nil {
		return fmt.Errorf("naming inventory sheet: %w", err)
	}
	if _, err := f.NewSheet(HistorySheet); err != nil {
		return fmt.Errorf("creating history sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := writeRows(f, InventorySheet, inventoryHeaders, bold, inventoryRows(items)); err != nil {
		return err
	}
	if err := writeRows(f, HistorySheet, historyHeaders, bold, historyRows(items)); err != nil {
		return err
	}

	f.SetColWidth(InventorySheet, "A", "A", 40)
	f.SetColWidth(InventorySheet, "B", "H", 18)
	f.SetColWidth(InventorySheet, "J", "J", 50)
	f.SetColWidth(HistorySheet, "B", "B", 40)
	f.SetColWidth(HistorySheet, "D", "G", 18)
	f.SetColWidth(HistorySheet, "H", "H", 50)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, headers []any, headerStyle int, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", last, headerStyle)

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func inventoryRows(items []model.Equipment) [][]any {
	rows := make([][]any, 0, len(items))
	for _, it := range items {
		rows = append(rows, []any{
			it.Name,
			it.SerialNumber,
			string(it.Category),
			string(it.Status),
			it.CurrentHolder,
			it.CurrentHolderPosition,
			it.CurrentProject,
			formatStamp(it.LastChecked),
			it.Location,
			it.Notes,
		})
	}
	return rows
}

func historyRows(items []model.Equipment) [][]any {
	var rows [][]any
	for _, it := range items {
		for _, tx := range it.History {
			rows = append(rows, []any{
				it.SerialNumber,
				it.Name,
				string(tx.Type),
				tx.Timestamp.UTC().Format(stampFmt),
				tx.User,
				tx.UserPosition,
				tx.Project,
				tx.Notes,
			})
		}
	}
	return rows
}

func formatStamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(stampFmt)
}
