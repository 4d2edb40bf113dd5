// Package export renders bookings into an XLSX workbook for admins.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/waste-pickup/internal/model"
)

const sheet = "Bookings"

var headers = []string{"ID", "User ID", "Name", "Email", "Address", "Date", "Time", "Photo", "Status", "Created At"}

// BookingsXLSX writes one row per booking below a styled header row.
func BookingsXLSX(bookings []model.Booking) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	style, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return nil, err
	}

	for r, b := range bookings {
		var userID any = ""
		if b.UserID != nil {
			userID = *b.UserID
		}
		row := []any{
			b.ID, userID, b.Name, b.Email, b.Address,
			b.PickupDate.Format(model.PickupDateLayout), b.PickupTime, b.Photo,
			string(b.Status), b.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
