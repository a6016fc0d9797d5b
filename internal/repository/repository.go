package repository

import (
	"database/sql"
	"time"

	"cloud.google.com/go/civil"
	"github.com/staffing-office/shift-board/backend/internal/config"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// monthRange 返回 [当月第一天, 下月第一天)
func monthRange(year int, month time.Month) (string, string) {
	first := civil.Date{Year: year, Month: month, Day: 1}
	next := civil.DateOf(first.In(time.UTC).AddDate(0, 1, 0))
	return first.String(), next.String()
}
