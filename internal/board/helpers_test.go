package board

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/staffing-office/shift-board/backend/internal/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, time.January, 5, 9, 0, 0, 0, time.UTC)

func jan(day int) civil.Date {
	return civil.Date{Year: 2025, Month: time.January, Day: day}
}

func staff(id, role string, weekday, holiday int64) domain.StaffMember {
	return domain.StaffMember{
		ID:          id,
		Name:        "staff-" + id,
		Role:        role,
		WeekdayRate: decimal.NewFromInt(weekday),
		HolidayRate: decimal.NewFromInt(holiday),
	}
}

func testRoster() []domain.StaffMember {
	return []domain.StaffMember{
		staff("A", domain.RoleCloser, 18000, 25000),
		staff("B", domain.RoleCloser, 15000, 20000),
		staff("C", domain.RoleCloser, 16000, 21000),
		staff("D", domain.RoleCloser, 17000, 22000),
		staff("G", domain.RoleGirl, 12000, 14000),
	}
}

func newTestBoard(t *testing.T, opts Options) *Board {
	t.Helper()

	if opts.Year == 0 {
		opts.Year = 2025
		opts.Month = time.January
	}
	if opts.Roster == nil {
		opts.Roster = testRoster()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	opts.Logger = zap.NewNop()

	b, err := New(opts)
	require.NoError(t, err)
	return b
}

type fixedCases map[civil.Date]int

func (f fixedCases) CaseCount(date civil.Date) int {
	return f[date]
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}
