package board

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/staffing-office/shift-board/backend/internal/domain"
	"github.com/staffing-office/shift-board/backend/internal/rate"
)

// 所有统计都是按需从当前数据重新计算的，不做增量缓存

type Totals struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type DateCount struct {
	Date       civil.Date `json:"date"`
	Available  int        `json:"available"`
	Unassigned int        `json:"unassigned"`
}

// AvailableCount 某天某角色下出勤的人数
func (b *Board) AvailableCount(date civil.Date, role string) int {
	cnt := 0
	for _, id := range b.order.staff {
		if b.roster[id].Role != role {
			continue
		}
		if b.shifts.Status(id, date) == domain.StatusAvailable {
			cnt++
		}
	}
	return cnt
}

// UnassignedShifts 按当前员工显示顺序返回某天某角色下已出勤但没有地点的班次
func (b *Board) UnassignedShifts(date civil.Date, role string) []domain.Shift {
	shifts := make([]domain.Shift, 0)
	for _, id := range b.order.staff {
		if b.roster[id].Role != role {
			continue
		}
		shift := b.shifts.Get(id, date)
		if shift.IsUnassigned() {
			shifts = append(shifts, shift)
		}
	}
	return shifts
}

// DateCounts 返回某角色在当月每一天的出勤人数和未分配人数
func (b *Board) DateCounts(role string) []DateCount {
	counts := make([]DateCount, 0, len(b.dates))
	for _, d := range b.dates {
		counts = append(counts, DateCount{
			Date:       d.Date,
			Available:  b.AvailableCount(d.Date, role),
			Unassigned: len(b.UnassignedShifts(d.Date, role)),
		})
	}
	return counts
}

// EffectiveRate 返回某个格子的实际单价，与统计使用同一套规则
func (b *Board) EffectiveRate(staffID string, date civil.Date) (decimal.Decimal, error) {
	if err := b.CheckCell(staffID, date); err != nil {
		return decimal.Zero, err
	}
	shift := b.shifts.Get(staffID, date)
	return rate.Resolve(b.roster[staffID], date, b.inDays[date].IsWeekend, shift.RateOverride), nil
}

// StaffMonthlyTotals 统计某员工当月出勤的班次数和金额
func (b *Board) StaffMonthlyTotals(staffID string) (Totals, error) {
	staff, exists := b.roster[staffID]
	if !exists {
		return Totals{}, fmt.Errorf("%w: 员工 %s 不存在", domain.ErrInvalidArgument, staffID)
	}
	return b.staffTotals(staff), nil
}

// RoleMonthlyTotals 汇总某角色下所有员工的当月班次数和金额
func (b *Board) RoleMonthlyTotals(role string) Totals {
	totals := Totals{Amount: decimal.Zero}
	for _, id := range b.order.staff {
		staff := b.roster[id]
		if staff.Role != role {
			continue
		}
		t := b.staffTotals(staff)
		totals.Count += t.Count
		totals.Amount = totals.Amount.Add(t.Amount)
	}
	return totals
}

func (b *Board) GrandTotals() Totals {
	totals := Totals{Amount: decimal.Zero}
	for _, id := range b.order.staff {
		t := b.staffTotals(b.roster[id])
		totals.Count += t.Count
		totals.Amount = totals.Amount.Add(t.Amount)
	}
	return totals
}

// Roles 返回名单中出现过的所有角色，按员工显示顺序首次出现的先后排列
func (b *Board) Roles() []string {
	roles := make([]string, 0)
	seen := make(map[string]bool)
	for _, id := range b.order.staff {
		role := b.roster[id].Role
		if !seen[role] {
			seen[role] = true
			roles = append(roles, role)
		}
	}
	return roles
}

// MonthlyCaseTotal 对宿主提供的每日案件数求和，没有提供者时为 0
func (b *Board) MonthlyCaseTotal() int {
	if b.cases == nil {
		return 0
	}
	total := 0
	for _, d := range b.dates {
		total += b.cases.CaseCount(d.Date)
	}
	return total
}

func (b *Board) staffTotals(staff *domain.StaffMember) Totals {
	totals := Totals{Amount: decimal.Zero}
	for _, d := range b.dates {
		shift := b.shifts.Get(staff.ID, d.Date)
		if shift.Status != domain.StatusAvailable {
			continue
		}
		totals.Count++
		totals.Amount = totals.Amount.Add(rate.Resolve(staff, d.Date, d.IsWeekend, shift.RateOverride))
	}
	return totals
}
