package repository

import (
	"context"
	"time"

	"github.com/staffing-office/shift-board/backend/internal/domain"
)

func (r *Repository) GetAllStaffMembers() ([]domain.StaffMember, error) {
	query := `
		SELECT id, name, phonetic_name, nearest_station, weekday_rate, holiday_rate, phone, role, company
		FROM staff_members
		ORDER BY display_position, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roster := make([]domain.StaffMember, 0)
	for rows.Next() {
		var s domain.StaffMember
		dst := []any{&s.ID, &s.Name, &s.PhoneticName, &s.NearestStation, &s.WeekdayRate, &s.HolidayRate, &s.Phone, &s.Role, &s.Company}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		roster = append(roster, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return roster, nil
}

// UpsertStaffMember 导入名单时使用，已存在的员工会被整体覆盖
func (r *Repository) UpsertStaffMember(s *domain.StaffMember, position int) error {
	query := `
		INSERT INTO staff_members (id, name, phonetic_name, nearest_station, weekday_rate, holiday_rate, phone, role, company, display_position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			phonetic_name = EXCLUDED.phonetic_name,
			nearest_station = EXCLUDED.nearest_station,
			weekday_rate = EXCLUDED.weekday_rate,
			holiday_rate = EXCLUDED.holiday_rate,
			phone = EXCLUDED.phone,
			role = EXCLUDED.role,
			company = EXCLUDED.company,
			display_position = EXCLUDED.display_position
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{s.ID, s.Name, s.PhoneticName, s.NearestStation, s.WeekdayRate, s.HolidayRate, s.Phone, s.Role, s.Company, position}
	if _, err := r.dbpool.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return nil
}
