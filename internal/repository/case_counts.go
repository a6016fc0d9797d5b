package repository

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
)

// CaseCounts 是按日期索引的案件数，实现了 board.CaseCountProvider
type CaseCounts map[civil.Date]int

func (c CaseCounts) CaseCount(date civil.Date) int {
	return c[date]
}

func (r *Repository) GetCaseCountsByMonth(year int, month time.Month) (CaseCounts, error) {
	query := `
		SELECT work_date, case_count
		FROM case_counts
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

	counts := make(CaseCounts)
	for rows.Next() {
		var (
			workDate time.Time
			count    int
		)
		if err := rows.Scan(&workDate, &count); err != nil {
			return nil, err
		}
		counts[civil.DateOf(workDate)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *Repository) UpsertCaseCount(date civil.Date, count int) error {
	query := `
		INSERT INTO case_counts (work_date, case_count)
		VALUES ($1::date, $2)
		ON CONFLICT (work_date) DO UPDATE SET case_count = EXCLUDED.case_count
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, date.String(), count)
	return err
}
