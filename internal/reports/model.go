package reports

import "time"

// Report kinds and output formats accepted by the export endpoint.
const (
	ReportTypeAttendance  = "attendance"
	ReportTypeLeaderboard = "leaderboard"
)

const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// AttendanceReportRow is one attendee on an event's export.
type AttendanceReportRow struct {
	UserID       uint       `json:"user_id"`
	FullName     string     `json:"full_name"`
	USN          string     `json:"usn"`
	Email        string     `json:"email"`
	Attended     bool       `json:"attended"`
	CheckedInAt  *time.Time `json:"checked_in_at"`
	XPAwarded    int        `json:"xp_awarded"`
	RegisteredAt time.Time  `json:"registered_at"`
}

// LeaderboardReportRow is one member on the XP leaderboard export.
type LeaderboardReportRow struct {
	Rank     int    `json:"rank"`
	UserID   uint   `json:"user_id"`
	FullName string `json:"full_name"`
	USN      string `json:"usn"`
	Events   int    `json:"events"`
	TotalXP  int    `json:"total_xp"`
}

// ReportData carries whichever row set the requested report needs.
type ReportData struct {
	EventTitle  string
	Attendance  []AttendanceReportRow
	Leaderboard []LeaderboardReportRow
}
