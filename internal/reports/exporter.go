package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ReportExporter renders a report into a downloadable document. It returns
// the bytes, a filename, and the content type.
type ReportExporter interface {
	Export(reportType, format string, data ReportData) ([]byte, string, string, error)
}

type reportExporter struct{}

func NewReportExporter() ReportExporter {
	return &reportExporter{}
}

func (e *reportExporter) Export(reportType, format string, data ReportData) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch reportType {
	case ReportTypeAttendance:
		return e.exportAttendanceByFormat(format, timestamp, data)
	case ReportTypeLeaderboard:
		return e.exportLeaderboardByFormat(format, timestamp, data.Leaderboard)
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}
}

//// ============================
/// ATTENDANCE EXPORTS
//// ============================

func (e *reportExporter) exportAttendanceByFormat(format, timestamp string, data ReportData) ([]byte, string, string, error) {
	switch format {
	case FormatExcel:
		out, err := e.exportAttendanceExcel(data)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("attendance_report_%s.xlsx", timestamp)
		return out, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatCSV:
		out, err := e.exportAttendanceCSV(data.Attendance)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("attendance_report_%s.csv", timestamp)
		return out, filename, "text/csv", nil

	case FormatPDF:
		out, err := e.exportAttendancePDF(data)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("attendance_report_%s.pdf", timestamp)
		return out, filename, "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for attendance: %s", format)
	}
}

func (e *reportExporter) exportAttendanceCSV(rows []AttendanceReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"User ID", "Full Name", "USN", "Email", "Attended", "Checked In At", "XP Awarded", "Registered At"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		checkedIn := ""
		if r.CheckedInAt != nil {
			checkedIn = r.CheckedInAt.Format("2006-01-02 15:04:05")
		}

		record := []string{
			strconv.FormatUint(uint64(r.UserID), 10),
			r.FullName,
			r.USN,
			r.Email,
			strconv.FormatBool(r.Attended),
			checkedIn,
			strconv.Itoa(r.XPAwarded),
			r.RegisteredAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportAttendanceExcel(data ReportData) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Attendance"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"User ID", "Full Name", "USN", "Email", "Attended", "Checked In At", "XP Awarded", "Registered At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, r := range data.Attendance {
		row := i + 2
		checkedIn := ""
		if r.CheckedInAt != nil {
			checkedIn = r.CheckedInAt.Format("2006-01-02 15:04:05")
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.UserID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.FullName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.USN)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Email)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.Attended)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), checkedIn)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.XPAwarded)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), r.RegisteredAt.Format("2006-01-02 15:04:05"))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportAttendancePDF(data ReportData) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Attendance Report - "+data.EventTitle)
	pdf.Ln(20)

	pdf.SetFont("Arial", "B", 10)
	widths := []float64{18, 50, 30, 65, 20, 35, 25, 35}
	headers := []string{"User ID", "Full Name", "USN", "Email", "Attended", "Checked In At", "XP", "Registered At"}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, r := range data.Attendance {
		checkedIn := ""
		if r.CheckedInAt != nil {
			checkedIn = r.CheckedInAt.Format("2006-01-02 15:04")
		}
		attended := "no"
		if r.Attended {
			attended = "yes"
		}

		pdf.CellFormat(widths[0], 6, strconv.FormatUint(uint64(r.UserID), 10), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.FullName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.USN, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.Email, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 6, attended, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 6, checkedIn, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[6], 6, strconv.Itoa(r.XPAwarded), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[7], 6, r.RegisteredAt.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//// ============================
/// LEADERBOARD EXPORTS
//// ============================

func (e *reportExporter) exportLeaderboardByFormat(format, timestamp string, rows []LeaderboardReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatExcel:
		out, err := e.exportLeaderboardExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("leaderboard_report_%s.xlsx", timestamp)
		return out, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatCSV:
		out, err := e.exportLeaderboardCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("leaderboard_report_%s.csv", timestamp)
		return out, filename, "text/csv", nil

	case FormatPDF:
		out, err := e.exportLeaderboardPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("leaderboard_report_%s.pdf", timestamp)
		return out, filename, "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for leaderboard: %s", format)
	}
}

func (e *reportExporter) exportLeaderboardCSV(rows []LeaderboardReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rank", "User ID", "Full Name", "USN", "Events Attended", "Total XP"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Rank),
			strconv.FormatUint(uint64(r.UserID), 10),
			r.FullName,
			r.USN,
			strconv.Itoa(r.Events),
			strconv.Itoa(r.TotalXP),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportLeaderboardExcel(rows []LeaderboardReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Leaderboard"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"Rank", "User ID", "Full Name", "USN", "Events Attended", "Total XP"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.Rank)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.UserID)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.FullName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.USN)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.Events)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.TotalXP)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportLeaderboardPDF(rows []LeaderboardReportRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "XP Leaderboard")
	pdf.Ln(20)

	pdf.SetFont("Arial", "B", 10)
	widths := []float64{15, 20, 60, 35, 30, 25}
	headers := []string{"Rank", "User ID", "Full Name", "USN", "Events", "Total XP"}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, strconv.Itoa(r.Rank), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, strconv.FormatUint(uint64(r.UserID), 10), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.FullName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.USN, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, strconv.Itoa(r.Events), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 6, strconv.Itoa(r.TotalXP), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
