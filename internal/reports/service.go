package reports

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Service interface {
	// AttendanceReport exports one event's roster with check-in state and XP.
	AttendanceReport(ctx context.Context, eventID uint, format string) ([]byte, string, string, error)
	// LeaderboardReport exports the club-wide XP standings.
	LeaderboardReport(ctx context.Context, format string, limit int) ([]byte, string, string, error)
}

type service struct {
	db       *gorm.DB
	exporter ReportExporter
}

func NewService(db *gorm.DB, exporter ReportExporter) Service {
	return &service{db: db, exporter: exporter}
}

func (s *service) AttendanceReport(ctx context.Context, eventID uint, format string) ([]byte, string, string, error) {
	var eventTitle string
	err := s.db.WithContext(ctx).
		Table("events").
		Select("title").
		Where("id = ?", eventID).
		Scan(&eventTitle).Error
	if err != nil {
		return nil, "", "", err
	}
	if eventTitle == "" {
		return nil, "", "", fmt.Errorf("event %d not found", eventID)
	}

	var rows []AttendanceReportRow
	err = s.db.WithContext(ctx).
		Table("registrations reg").
		Select(`
			reg.user_id, u.full_name, u.usn, u.email,
			reg.attended, reg.checked_in_at, reg.created_at as registered_at,
			COALESCE(xp.amount, 0) as xp_awarded
		`).
		Joins("JOIN users u ON u.id = reg.user_id").
		Joins("LEFT JOIN xp_ledger xp ON xp.user_id = reg.user_id AND xp.event_id = reg.event_id").
		Where("reg.event_id = ?", eventID).
		Order("u.full_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, "", "", err
	}

	return s.exporter.Export(ReportTypeAttendance, format, ReportData{
		EventTitle: eventTitle,
		Attendance: rows,
	})
}

func (s *service) LeaderboardReport(ctx context.Context, format string, limit int) ([]byte, string, string, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var rows []LeaderboardReportRow
	err := s.db.WithContext(ctx).
		Table("xp_ledger xp").
		Select(`
			xp.user_id, u.full_name, u.usn,
			COUNT(*) as events, SUM(xp.amount) as total_xp
		`).
		Joins("JOIN users u ON u.id = xp.user_id").
		Group("xp.user_id, u.full_name, u.usn").
		Order("total_xp DESC, u.full_name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, "", "", err
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}

	return s.exporter.Export(ReportTypeLeaderboard, format, ReportData{Leaderboard: rows})
}
