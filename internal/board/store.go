package board

import (
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/staffing-office/shift-board/backend/internal/domain"
)

type cell struct {
	status   domain.Status
	location string
	override *decimal.Decimal
}

// ShiftStore 保存 (staffID, date) -> 状态/地点/覆盖单价 的稀疏矩阵，以及每个格子只追加的状态变更历史
// ShiftStore 不校验员工和日期是否属于当前排班表，这部分由 Board 负责
type ShiftStore struct {
	cells   map[domain.CellKey]*cell
	history map[domain.CellKey][]domain.StatusChangeEvent // 按时间先后追加
	dirty   map[domain.CellKey]bool
	now     func() time.Time
}

func NewShiftStore(now func() time.Time) *ShiftStore {
	if now == nil {
		now = time.Now
	}
	return &ShiftStore{
		cells:   make(map[domain.CellKey]*cell),
		history: make(map[domain.CellKey][]domain.StatusChangeEvent),
		dirty:   make(map[domain.CellKey]bool),
		now:     now,
	}
}

// Load 用宿主提供的初始数据替换全部内容，并清空本次会话的变更标记
// 数据有误时整体拒绝，不修改任何状态
func (s *ShiftStore) Load(shifts []domain.Shift, history map[domain.CellKey][]domain.StatusChangeEvent) error {
	cells := make(map[domain.CellKey]*cell, len(shifts))
	for _, shift := range shifts {
		key := domain.CellKey{StaffID: shift.StaffID, Date: shift.Date}
		if _, exists := cells[key]; exists {
			return fmt.Errorf("%w: 员工 %s 在 %s 存在重复的班次", domain.ErrInvalidArgument, shift.StaffID, shift.Date)
		}
		if !shift.Status.IsValid() {
			return fmt.Errorf("%w: 无效的状态 %q", domain.ErrInvalidArgument, shift.Status)
		}
		if shift.RateOverride != nil && shift.RateOverride.IsNegative() {
			return fmt.Errorf("%w: 员工 %s 在 %s 的覆盖单价为负数", domain.ErrInvalidArgument, shift.StaffID, shift.Date)
		}

		c := &cell{status: shift.Status, override: copyRate(shift.RateOverride)}
		// 非出勤状态下的地点没有意义
		if shift.Status == domain.StatusAvailable {
			c.location = shift.Location
		}
		cells[key] = c
	}

	hist := make(map[domain.CellKey][]domain.StatusChangeEvent, len(history))
	for key, events := range history {
		copied := append([]domain.StatusChangeEvent{}, events...)
		sort.SliceStable(copied, func(i, j int) bool {
			return copied[i].Timestamp.Before(copied[j].Timestamp)
		})
		hist[key] = copied
	}

	s.cells = cells
	s.history = hist
	s.dirty = make(map[domain.CellKey]bool)

	return nil
}

func (s *ShiftStore) Get(staffID string, date civil.Date) domain.Shift {
	shift := domain.Shift{StaffID: staffID, Date: date, Status: domain.StatusUndecided}

	c, exists := s.cells[domain.CellKey{StaffID: staffID, Date: date}]
	if !exists {
		return shift
	}

	shift.Status = c.status
	shift.Location = c.location
	shift.RateOverride = copyRate(c.override)
	return shift
}

func (s *ShiftStore) Status(staffID string, date civil.Date) domain.Status {
	if c, exists := s.cells[domain.CellKey{StaffID: staffID, Date: date}]; exists {
		return c.status
	}
	return domain.StatusUndecided
}

// UpdateStatus 写入新状态；状态没有变化时不做任何修改，返回 changed = false
// 新状态不是出勤时，地点会被一并清空，cleared 表示确实清掉了一个地点
func (s *ShiftStore) UpdateStatus(staffID string, date civil.Date, newStatus domain.Status, actor string) (changed bool, cleared bool, err error) {
	if !newStatus.IsValid() {
		return false, false, fmt.Errorf("%w: 无效的状态 %q", domain.ErrInvalidArgument, newStatus)
	}

	key := domain.CellKey{StaffID: staffID, Date: date}
	previous := s.Status(staffID, date)
	if previous == newStatus {
		return false, false, nil
	}

	c := s.cellFor(key)
	c.status = newStatus
	if newStatus != domain.StatusAvailable && c.location != "" {
		c.location = ""
		cleared = true
	}

	s.history[key] = append(s.history[key], domain.StatusChangeEvent{
		Timestamp:      s.now(),
		PreviousStatus: previous,
		NewStatus:      newStatus,
		Actor:          actor,
	})
	s.dirty[key] = true

	return true, cleared, nil
}

// UpdateLocation 只允许在出勤状态下设置地点，location 为空表示取消分配
func (s *ShiftStore) UpdateLocation(staffID string, date civil.Date, location string) (changed bool, err error) {
	key := domain.CellKey{StaffID: staffID, Date: date}

	c, exists := s.cells[key]
	if !exists || c.status != domain.StatusAvailable {
		return false, fmt.Errorf("%w: 员工 %s 在 %s 不是出勤状态，不能设置地点", domain.ErrInvalidTransition, staffID, date)
	}

	if c.location == location {
		return false, nil
	}
	c.location = location
	return true, nil
}

// UpdateRateOverride 设置覆盖单价，rate 为 nil 表示取消覆盖
func (s *ShiftStore) UpdateRateOverride(staffID string, date civil.Date, rate *decimal.Decimal) (changed bool, err error) {
	if rate != nil && rate.IsNegative() {
		return false, fmt.Errorf("%w: 单价不能为负数", domain.ErrInvalidArgument)
	}

	key := domain.CellKey{StaffID: staffID, Date: date}
	c, exists := s.cells[key]
	if !exists {
		if rate == nil {
			return false, nil
		}
		c = s.cellFor(key)
	}

	if sameRate(c.override, rate) {
		return false, nil
	}
	c.override = copyRate(rate)
	return true, nil
}

// History 返回完整的状态变更历史，最新的在前
func (s *ShiftStore) History(staffID string, date civil.Date) []domain.StatusChangeEvent {
	events := s.history[domain.CellKey{StaffID: staffID, Date: date}]

	result := make([]domain.StatusChangeEvent, len(events))
	for i, ev := range events {
		result[len(events)-1-i] = ev
	}
	return result
}

func (s *ShiftStore) IsDirtySinceLoad(staffID string, date civil.Date) bool {
	return s.dirty[domain.CellKey{StaffID: staffID, Date: date}]
}

// Shifts 返回所有存在记录的格子，顺序不固定
func (s *ShiftStore) Shifts() []domain.Shift {
	shifts := make([]domain.Shift, 0, len(s.cells))
	for key := range s.cells {
		shifts = append(shifts, s.Get(key.StaffID, key.Date))
	}
	return shifts
}

func (s *ShiftStore) cellFor(key domain.CellKey) *cell {
	c, exists := s.cells[key]
	if !exists {
		c = &cell{status: domain.StatusUndecided}
		s.cells[key] = c
	}
	return c
}

func copyRate(rate *decimal.Decimal) *decimal.Decimal {
	if rate == nil {
		return nil
	}
	r := *rate
	return &r
}

func sameRate(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
