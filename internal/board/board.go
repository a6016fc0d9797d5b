// Package board 是月度排班表背后的状态引擎：
// 每个员工每天的出勤状态、地点分配、单价覆盖、状态变更历史、备注，
// 以及在此之上的统计、未分配班次导航和显示顺序。
//
// Board 不加锁，也不做任何 I/O，同一时间只能由一个会话使用。
// 修改成功后会同步调用宿主提供的回调，持久化由宿主负责。
package board

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/staffing-office/shift-board/backend/internal/calendar"
	"github.com/staffing-office/shift-board/backend/internal/domain"
	"go.uber.org/zap"
)

// Hooks 在内存中的修改成功后被同步调用，宿主的失败对核心不可见
type Hooks struct {
	OnStatusChange   func(staffID string, date civil.Date, newStatus domain.Status)
	OnRateChange     func(staffID string, date civil.Date, newRate *decimal.Decimal)
	OnLocationChange func(staffID string, date civil.Date, location string)
	OnCommentChange  func(staffID string, date civil.Date, text string)
	OnReorder        func(kind domain.OrderKind, order []string)
	OnFocus          func(focus Focus)
}

// CaseCountProvider 由宿主提供每天的案件数
type CaseCountProvider interface {
	CaseCount(date civil.Date) int
}

type Options struct {
	Year     int
	Month    time.Month
	Roster   []domain.StaffMember
	Shifts   []domain.Shift
	History  map[domain.CellKey][]domain.StatusChangeEvent
	Comments []domain.Comment
	// Columns 为空时使用 domain.DefaultColumnOrder()
	Columns    []string
	CaseCounts CaseCountProvider
	Hooks      Hooks
	Logger     *zap.Logger
	Now        func() time.Time
}

type Board struct {
	year   int
	month  time.Month
	dates  []calendar.DateInfo
	inDays map[civil.Date]calendar.DateInfo

	roster map[string]*domain.StaffMember

	shifts   *ShiftStore
	comments *CommentStore
	order    *Ordering
	nav      *Navigator

	cases  CaseCountProvider
	hooks  Hooks
	logger *zap.Logger
}

func New(opts Options) (*Board, error) {
	dates, err := calendar.Month(opts.Year, opts.Month)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &Board{
		year:     opts.Year,
		month:    opts.Month,
		dates:    dates,
		inDays:   make(map[civil.Date]calendar.DateInfo, len(dates)),
		roster:   make(map[string]*domain.StaffMember, len(opts.Roster)),
		shifts:   NewShiftStore(opts.Now),
		comments: NewCommentStore(),
		cases:    opts.CaseCounts,
		hooks:    opts.Hooks,
		logger:   logger.With(zap.String("board", fmt.Sprintf("%04d-%02d", opts.Year, opts.Month))),
	}
	for _, d := range dates {
		b.inDays[d.Date] = d
	}

	staffIDs := make([]string, 0, len(opts.Roster))
	for i := range opts.Roster {
		staff := opts.Roster[i]
		if staff.ID == "" {
			return nil, fmt.Errorf("%w: 第 %d 名员工没有 ID", domain.ErrInvalidArgument, i+1)
		}
		if _, exists := b.roster[staff.ID]; exists {
			return nil, fmt.Errorf("%w: 员工 ID %s 重复", domain.ErrInvalidArgument, staff.ID)
		}
		if staff.WeekdayRate.IsNegative() || staff.HolidayRate.IsNegative() {
			return nil, fmt.Errorf("%w: 员工 %s 的单价为负数", domain.ErrInvalidArgument, staff.ID)
		}
		b.roster[staff.ID] = &staff
		staffIDs = append(staffIDs, staff.ID)
	}

	for _, shift := range opts.Shifts {
		if err := b.CheckCell(shift.StaffID, shift.Date); err != nil {
			return nil, err
		}
	}
	if err := b.shifts.Load(opts.Shifts, opts.History); err != nil {
		return nil, err
	}

	for _, c := range opts.Comments {
		if err := b.CheckCell(c.StaffID, c.Date); err != nil {
			return nil, err
		}
		b.comments.Set(c.StaffID, c.Date, c.Text)
	}

	columns := opts.Columns
	if len(columns) == 0 {
		columns = domain.DefaultColumnOrder()
	}
	b.order = NewOrdering(staffIDs, columns)
	b.nav = NewNavigator(b)

	return b, nil
}

func (b *Board) Year() int {
	return b.year
}

func (b *Board) Month() time.Month {
	return b.month
}

func (b *Board) Dates() []calendar.DateInfo {
	return append([]calendar.DateInfo{}, b.dates...)
}

// Roster 按当前员工显示顺序返回名单
func (b *Board) Roster() []domain.StaffMember {
	order := b.order.Order(domain.OrderKindStaff)
	roster := make([]domain.StaffMember, 0, len(order))
	for _, id := range order {
		roster = append(roster, *b.roster[id])
	}
	return roster
}

func (b *Board) Staff(staffID string) (domain.StaffMember, bool) {
	staff, exists := b.roster[staffID]
	if !exists {
		return domain.StaffMember{}, false
	}
	return *staff, true
}

func (b *Board) Status(staffID string, date civil.Date) domain.Status {
	return b.shifts.Status(staffID, date)
}

func (b *Board) Shift(staffID string, date civil.Date) domain.Shift {
	return b.shifts.Get(staffID, date)
}

func (b *Board) StatusHistory(staffID string, date civil.Date) []domain.StatusChangeEvent {
	return b.shifts.History(staffID, date)
}

func (b *Board) IsDirtySinceLoad(staffID string, date civil.Date) bool {
	return b.shifts.IsDirtySinceLoad(staffID, date)
}

func (b *Board) Comment(staffID string, date civil.Date) string {
	return b.comments.Get(staffID, date)
}

func (b *Board) UpdateStatus(staffID string, date civil.Date, newStatus domain.Status, actor string) error {
	if err := b.CheckCell(staffID, date); err != nil {
		b.reject("修改状态", staffID, date, err)
		return err
	}

	changed, cleared, err := b.shifts.UpdateStatus(staffID, date, newStatus, actor)
	if err != nil {
		b.reject("修改状态", staffID, date, err)
		return err
	}
	if !changed {
		return nil
	}

	b.logger.Debug("状态已修改",
		zap.String("staffID", staffID),
		zap.Stringer("date", date),
		zap.String("status", string(newStatus)),
		zap.String("actor", actor),
	)

	if b.hooks.OnStatusChange != nil {
		b.hooks.OnStatusChange(staffID, date, newStatus)
	}
	if cleared && b.hooks.OnLocationChange != nil {
		b.hooks.OnLocationChange(staffID, date, "")
	}
	return nil
}

func (b *Board) UpdateLocation(staffID string, date civil.Date, location string) error {
	if err := b.CheckCell(staffID, date); err != nil {
		b.reject("设置地点", staffID, date, err)
		return err
	}

	changed, err := b.shifts.UpdateLocation(staffID, date, location)
	if err != nil {
		b.reject("设置地点", staffID, date, err)
		return err
	}
	if changed && b.hooks.OnLocationChange != nil {
		b.hooks.OnLocationChange(staffID, date, location)
	}
	return nil
}

func (b *Board) UpdateRateOverride(staffID string, date civil.Date, rate *decimal.Decimal) error {
	if err := b.CheckCell(staffID, date); err != nil {
		b.reject("设置单价", staffID, date, err)
		return err
	}

	changed, err := b.shifts.UpdateRateOverride(staffID, date, rate)
	if err != nil {
		b.reject("设置单价", staffID, date, err)
		return err
	}
	if changed && b.hooks.OnRateChange != nil {
		b.hooks.OnRateChange(staffID, date, copyRate(rate))
	}
	return nil
}

func (b *Board) UpdateComment(staffID string, date civil.Date, text string) error {
	if err := b.CheckCell(staffID, date); err != nil {
		b.reject("修改备注", staffID, date, err)
		return err
	}

	if b.comments.Set(staffID, date, text) && b.hooks.OnCommentChange != nil {
		b.hooks.OnCommentChange(staffID, date, text)
	}
	return nil
}

func (b *Board) Order(kind domain.OrderKind) []string {
	return b.order.Order(kind)
}

func (b *Board) Reorder(kind domain.OrderKind, movedID, targetID string) error {
	if err := b.order.Reorder(kind, movedID, targetID); err != nil {
		b.logger.Debug("拒绝调整顺序", zap.String("kind", string(kind)), zap.Error(err))
		return err
	}
	if movedID == targetID {
		return nil
	}

	if b.hooks.OnReorder != nil {
		b.hooks.OnReorder(kind, b.order.Order(kind))
	}
	return nil
}

// RestoreOrder 应用宿主保存的顺序，不会触发 OnReorder
func (b *Board) RestoreOrder(kind domain.OrderKind, saved []string) ([]string, error) {
	return b.order.Restore(kind, saved)
}

// OnUnassignedBadgeClick 处理一次未分配徽标的点击
// 列表为空时返回 ok = false，不改变导航状态
func (b *Board) OnUnassignedBadgeClick(date civil.Date, role string) (Focus, bool, error) {
	if err := b.CheckDate(date); err != nil {
		return Focus{}, false, err
	}

	focus, ok := b.nav.Click(date, role)
	if ok && b.hooks.OnFocus != nil {
		b.hooks.OnFocus(focus)
	}
	return focus, ok, nil
}

// CheckDate 日期不属于本月时返回 ErrInvalidArgument，供只读查询使用
func (b *Board) CheckDate(date civil.Date) error {
	if !calendar.InMonth(date, b.year, b.month) {
		return fmt.Errorf("%w: 日期 %s 不在 %04d-%02d 内", domain.ErrInvalidArgument, date, b.year, b.month)
	}
	return nil
}

// CheckCell 在 CheckDate 的基础上还要求员工存在
func (b *Board) CheckCell(staffID string, date civil.Date) error {
	if _, exists := b.roster[staffID]; !exists {
		return fmt.Errorf("%w: 员工 %s 不存在", domain.ErrInvalidArgument, staffID)
	}
	return b.CheckDate(date)
}

func (b *Board) reject(op string, staffID string, date civil.Date, err error) {
	b.logger.Debug("拒绝"+op, zap.String("staffID", staffID), zap.Stringer("date", date), zap.Error(err))
}
