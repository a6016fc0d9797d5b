package repository

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/staffing-office/shift-board/backend/internal/domain"
)

func (r *Repository) GetCommentsByMonth(year int, month time.Month) ([]domain.Comment, error) {
	query := `
		SELECT staff_id, work_date, text
		FROM shift_comments
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

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		var (
			c        domain.Comment
			workDate time.Time
		)
		if err := rows.Scan(&c.StaffID, &workDate, &c.Text); err != nil {
			return nil, err
		}
		c.Date = civil.DateOf(workDate)
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

// SaveComment 空字符串表示删除备注
func (r *Repository) SaveComment(staffID string, date civil.Date, text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if text == "" {
		query := `DELETE FROM shift_comments WHERE staff_id = $1 AND work_date = $2::date`
		_, err := r.dbpool.ExecContext(ctx, query, staffID, date.String())
		return err
	}

	query := `
		INSERT INTO shift_comments (staff_id, work_date, text)
		VALUES ($1, $2::date, $3)
		ON CONFLICT (staff_id, work_date) DO UPDATE SET
			text = EXCLUDED.text,
			updated_at = NOW()
	`
	_, err := r.dbpool.ExecContext(ctx, query, staffID, date.String(), text)
	return err
}
