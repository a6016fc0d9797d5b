package board

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/staffing-office/shift-board/backend/internal/calendar"
	"github.com/staffing-office/shift-board/backend/internal/domain"
	"github.com/staffing-office/shift-board/backend/internal/rate"
)

type CellView struct {
	StaffID       string           `json:"staffID"`
	Date          civil.Date       `json:"date"`
	Status        domain.Status    `json:"status"`
	Location      string           `json:"location,omitempty"`
	RateOverride  *decimal.Decimal `json:"rateOverride,omitempty"`
	EffectiveRate decimal.Decimal  `json:"effectiveRate"`
	Comment       string           `json:"comment,omitempty"`
	Dirty         bool             `json:"dirty"`
}

// Snapshot 是整张月度排班表的只读视图
type Snapshot struct {
	Year        int                    `json:"year"`
	Month       time.Month             `json:"month"`
	Dates       []calendar.DateInfo    `json:"dates"`
	StaffOrder  []string               `json:"staffOrder"`
	ColumnOrder []string               `json:"columnOrder"`
	Staff       []domain.StaffMember   `json:"staff"`
	Cells       []CellView             `json:"cells"`
	DateCounts  map[string][]DateCount `json:"dateCounts"` // role -> 每天的人数
	StaffTotals map[string]Totals      `json:"staffTotals"`
	RoleTotals  map[string]Totals      `json:"roleTotals"`
	GrandTotals Totals                 `json:"grandTotals"`
	CaseTotal   int                    `json:"caseTotal"`
}

func (b *Board) Snapshot() *Snapshot {
	s := &Snapshot{
		Year:        b.year,
		Month:       b.month,
		Dates:       b.Dates(),
		StaffOrder:  b.order.Order(domain.OrderKindStaff),
		ColumnOrder: b.order.Order(domain.OrderKindColumn),
		Staff:       b.Roster(),
		DateCounts:  make(map[string][]DateCount),
		StaffTotals: make(map[string]Totals, len(b.roster)),
		RoleTotals:  make(map[string]Totals),
		GrandTotals: b.GrandTotals(),
		CaseTotal:   b.MonthlyCaseTotal(),
	}

	for _, role := range b.Roles() {
		s.DateCounts[role] = b.DateCounts(role)
		s.RoleTotals[role] = b.RoleMonthlyTotals(role)
	}
	for id, staff := range b.roster {
		s.StaffTotals[id] = b.staffTotals(staff)
	}

	// 有记录或者有备注的格子才输出，其余格子都是默认的 Undecided
	keys := make(map[domain.CellKey]bool)
	for _, shift := range b.shifts.Shifts() {
		keys[domain.CellKey{StaffID: shift.StaffID, Date: shift.Date}] = true
	}
	for _, c := range b.comments.All() {
		keys[domain.CellKey{StaffID: c.StaffID, Date: c.Date}] = true
	}

	s.Cells = make([]CellView, 0, len(keys))
	for key := range keys {
		shift := b.shifts.Get(key.StaffID, key.Date)
		effective := rate.Resolve(b.roster[key.StaffID], key.Date, b.inDays[key.Date].IsWeekend, shift.RateOverride)
		s.Cells = append(s.Cells, CellView{
			StaffID:       key.StaffID,
			Date:          key.Date,
			Status:        shift.Status,
			Location:      shift.Location,
			RateOverride:  shift.RateOverride,
			EffectiveRate: effective,
			Comment:       b.comments.Get(key.StaffID, key.Date),
			Dirty:         b.shifts.IsDirtySinceLoad(key.StaffID, key.Date),
		})
	}

	position := make(map[string]int, len(s.StaffOrder))
	for i, id := range s.StaffOrder {
		position[id] = i
	}
	sort.Slice(s.Cells, func(i, j int) bool {
		a, c := s.Cells[i], s.Cells[j]
		if a.StaffID != c.StaffID {
			return position[a.StaffID] < position[c.StaffID]
		}
		return a.Date.Before(c.Date)
	})

	return s
}
