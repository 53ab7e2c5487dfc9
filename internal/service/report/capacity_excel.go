package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"bakery-backend/internal/service/capacity"
)

type CalendarStorage interface {
	Calendar(ctx context.Context) ([]capacity.DayCapacity, error)
}

type CapacityReportService struct {
	calendar CalendarStorage
}

func NewCapacityReportService(calendar CalendarStorage) *CapacityReportService {
	return &CapacityReportService{calendar: calendar}
}

// GenerateExcel renders the admin capacity calendar as an xlsx workbook,
// one row per horizon day.
func (g *CapacityReportService) GenerateExcel(ctx context.Context) ([]byte, error) {
	days, err := g.calendar.Calendar(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Capacity"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	blockedStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F4CCCC"}, Pattern: 1},
	})

	headers := []string{"Date", "Blocked", "Budget (min)", "Booked (min)", "Available (min)", "Time slots"}
	for i, name := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, name)
	}

	lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", lastCol, headerStyle)

	for rowIdx, day := range days {
		rowNum := rowIdx + 2

		blocked := ""
		if day.IsBlocked {
			blocked = "yes"
		}

		f.SetCellValue(sheet, cellName(1, rowNum), day.Date)
		f.SetCellValue(sheet, cellName(2, rowNum), blocked)
		f.SetCellValue(sheet, cellName(3, rowNum), day.BudgetMinutes)
		f.SetCellValue(sheet, cellName(4, rowNum), day.BookedMinutes)
		f.SetCellValue(sheet, cellName(5, rowNum), day.AvailableMinutes)
		f.SetCellValue(sheet, cellName(6, rowNum), strings.Join(day.AvailableHours, ", "))

		if day.IsBlocked {
			last, _ := excelize.CoordinatesToCellName(len(headers), rowNum)
			f.SetCellStyle(sheet, cellName(1, rowNum), last, blockedStyle)
		}
	}

	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "F", "F", 30)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}
