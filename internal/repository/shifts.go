package repository

import (
	"context"
	"database/sql"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/staffing-office/shift-board/backend/internal/domain"
)

func (r *Repository) GetShiftsByMonth(year int, month time.Month) ([]domain.Shift, error) {
	query := `
		SELECT staff_id, work_date, status, location, rate_override
		FROM shifts
		WHERE work_date >= $1::date AND work_date < $2::date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	from, to := monthRange(year, month)
	rows, err := r.dbpool.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]domain.Shift, 0)
	for rows.Next() {
		var row struct {
			staffID      string
			workDate     time.Time
			status       string
			location     sql.NullString
			rateOverride decimal.NullDecimal
		}

		if err := rows.Scan(&row.staffID, &row.workDate, &row.status, &row.location, &row.rateOverride); err != nil {
			return nil, err
		}

		shift := domain.Shift{
			StaffID:  row.staffID,
			Date:     civil.DateOf(row.workDate),
			Status:   domain.Status(row.status),
			Location: row.location.String,
		}
		if row.rateOverride.Valid {
			shift.RateOverride = &row.rateOverride.Decimal
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) GetStatusHistoryByMonth(year int, month time.Month) (map[domain.CellKey][]domain.StatusChangeEvent, error) {
	query := `
		SELECT staff_id, work_date, previous_status, new_status, actor, changed_at
		FROM shift_status_history
		WHERE work_date >= $1::date AND work_date < $2::date
		ORDER BY changed_at, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	from, to := monthRange(year, month)
	rows, err := r.dbpool.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make(map[domain.CellKey][]domain.StatusChangeEvent)
	for rows.Next() {
		var (
			staffID  string
			workDate time.Time
			ev       domain.StatusChangeEvent
		)
		if err := rows.Scan(&staffID, &workDate, &ev.PreviousStatus, &ev.NewStatus, &ev.Actor, &ev.Timestamp); err != nil {
			return nil, err
		}

		key := domain.CellKey{StaffID: staffID, Date: civil.DateOf(workDate)}
		history[key] = append(history[key], ev)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}

// SaveStatusChange 在同一个事务中写入新状态和一条历史记录
// 新状态不是出勤时地点一并清空
func (r *Repository) SaveStatusChange(staffID string, date civil.Date, ev domain.StatusChangeEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO shifts (staff_id, work_date, status)
		VALUES ($1, $2::date, $3)
		ON CONFLICT (staff_id, work_date) DO UPDATE SET
			status = EXCLUDED.status,
			location = CASE WHEN EXCLUDED.status = 'available' THEN shifts.location ELSE NULL END,
			updated_at = NOW()
	`
	if _, err := tx.ExecContext(ctx, query, staffID, date.String(), ev.NewStatus); err != nil {
		return err
	}

	query = `
		INSERT INTO shift_status_history (staff_id, work_date, previous_status, new_status, actor, changed_at)
		VALUES ($1, $2::date, $3, $4, $5, $6)
	`
	if _, err := tx.ExecContext(ctx, query, staffID, date.String(), ev.PreviousStatus, ev.NewStatus, ev.Actor, ev.Timestamp); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateShiftLocation location 为空时写入 NULL
func (r *Repository) UpdateShiftLocation(staffID string, date civil.Date, location string) error {
	query := `
		UPDATE shifts
		SET location = NULLIF($3, ''), updated_at = NOW()
		WHERE staff_id = $1 AND work_date = $2::date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, staffID, date.String(), location)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// UpdateShiftRateOverride rate 为 nil 表示取消覆盖
func (r *Repository) UpdateShiftRateOverride(staffID string, date civil.Date, rate *decimal.Decimal) error {
	query := `
		INSERT INTO shifts (staff_id, work_date, status, rate_override)
		VALUES ($1, $2::date, 'undecided', $3)
		ON CONFLICT (staff_id, work_date) DO UPDATE SET
			rate_override = EXCLUDED.rate_override,
			updated_at = NOW()
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	arg := decimal.NullDecimal{}
	if rate != nil {
		arg = decimal.NewNullDecimal(*rate)
	}

	if _, err := r.dbpool.ExecContext(ctx, query, staffID, date.String(), arg); err != nil {
		return err
	}

	return nil
}

// InsertShifts 批量写入班次，用于生成演示数据
func (r *Repository) InsertShifts(shifts []domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO shifts (staff_id, work_date, status, location)
		VALUES ($1, $2::date, $3, NULLIF($4, ''))
		ON CONFLICT (staff_id, work_date) DO NOTHING
	`
	for _, shift := range shifts {
		if _, err := tx.ExecContext(ctx, query, shift.StaffID, shift.Date.String(), shift.Status, shift.Location); err != nil {
			return err
		}
	}

	return tx.Commit()
}
