package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/hackgods/doctor-booking/internal/booking"
)

const (
	bookingsSheet = "Bookings"
	summarySheet  = "Summary"
)

var bookingColumns = []string{
	"ID", "Date", "Time", "Status", "Doctor", "Specialization",
	"Patient", "Phone", "Email", "Gender", "Age", "Health issue", "Notes", "Created at",
}

// WriteBookings renders bookings as an XLSX workbook: one row per booking on
// the Bookings sheet, counts per status on the Summary sheet.
func WriteBookings(w io.Writer, bookings []booking.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", bookingsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeRow(f, bookingsSheet, 1, toCells(bookingColumns)); err != nil {
		return err
	}
	if err := styleHeader(f, bookingsSheet, len(bookingColumns), bold); err != nil {
		return err
	}

	counts := make(map[booking.Status]int)
	for i, b := range bookings {
		counts[b.Status]++
		row := []any{
			b.ID.String(),
			b.Date.String(),
			b.Time.String(),
			string(b.Status),
			b.DoctorName,
			b.Specialization,
			b.PatientName,
			b.PatientPhone,
			b.PatientEmail,
			b.PatientGender,
			b.PatientAge,
			b.HealthIssue,
			b.Notes,
			b.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := writeRow(f, bookingsSheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", summarySheet, err)
	}
	if err := writeRow(f, summarySheet, 1, []any{"Status", "Count"}); err != nil {
		return err
	}
	if err := styleHeader(f, summarySheet, 2, bold); err != nil {
		return err
	}
	row := 2
	for _, s := range booking.AllStatuses() {
		if err := writeRow(f, summarySheet, row, []any{string(s), counts[s]}); err != nil {
			return err
		}
		row++
	}
	if err := writeRow(f, summarySheet, row, []any{"Total", len(bookings)}); err != nil {
		return err
	}

	return f.Write(w)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, cols, style int) error {
	end, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", end, style)
}

func toCells(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
