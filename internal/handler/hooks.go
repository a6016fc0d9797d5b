package handler

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/staffing-office/shift-board/backend/internal/board"
	"github.com/staffing-office/shift-board/backend/internal/domain"
	"go.uber.org/zap"
)

// loadBoard 从数据库和 redis 读取一个月的数据并构建排班表
func (h *Handler) loadBoard(key sessionKey) (*board.Board, error) {
	roster, err := h.store.GetAllStaffMembers()
	if err != nil {
		return nil, err
	}
	shifts, err := h.store.GetShiftsByMonth(key.year, key.month)
	if err != nil {
		return nil, err
	}
	history, err := h.store.GetStatusHistoryByMonth(key.year, key.month)
	if err != nil {
		return nil, err
	}
	comments, err := h.store.GetCommentsByMonth(key.year, key.month)
	if err != nil {
		return nil, err
	}
	cases, err := h.store.GetCaseCountsByMonth(key.year, key.month)
	if err != nil {
		return nil, err
	}

	listener := &boardListener{
		h:      h,
		key:    key,
		logger: h.logger.With(zap.String("username", key.username)),
	}

	b, err := board.New(board.Options{
		Year:       key.year,
		Month:      key.month,
		Roster:     roster,
		Shifts:     shifts,
		History:    history,
		Comments:   comments,
		CaseCounts: cases,
		Hooks:      listener.hooks(),
		Logger:     h.logger,
	})
	if err != nil {
		return nil, err
	}
	listener.board = b

	// 顺序读取失败只影响显示，使用默认顺序继续
	orders, err := h.orders.LoadAll(key.username, key.year, key.month)
	if err != nil {
		listener.logger.Warn("读取显示顺序失败", zap.Error(err))
		return b, nil
	}
	if len(orders.StaffOrder) > 0 {
		if _, err := b.RestoreOrder(domain.OrderKindStaff, orders.StaffOrder); err != nil {
			return nil, err
		}
	}
	if len(orders.ColumnOrder) > 0 {
		if _, err := b.RestoreOrder(domain.OrderKindColumn, orders.ColumnOrder); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// boardListener 把排班表的回调转成持久化和通知，失败只记录日志，不影响内存中的状态
type boardListener struct {
	h      *Handler
	key    sessionKey
	board  *board.Board
	logger *zap.Logger
}

func (l *boardListener) hooks() board.Hooks {
	return board.Hooks{
		OnStatusChange:   l.onStatusChange,
		OnRateChange:     l.onRateChange,
		OnLocationChange: l.onLocationChange,
		OnCommentChange:  l.onCommentChange,
		OnReorder:        l.onReorder,
		OnFocus:          l.onFocus,
	}
}

func (l *boardListener) staffName(staffID string) string {
	staff, _ := l.board.Staff(staffID)
	return staff.Name
}

func (l *boardListener) onStatusChange(staffID string, date civil.Date, newStatus domain.Status) {
	history := l.board.StatusHistory(staffID, date)
	if len(history) == 0 {
		return
	}

	if err := l.h.store.SaveStatusChange(staffID, date, history[0]); err != nil {
		l.logger.Error("保存状态变更失败", zap.String("staffID", staffID), zap.Stringer("date", date), zap.Error(err))
	}

	err := l.h.notifier.StatusChanged(domain.StatusChangeMailData{
		StaffName: l.staffName(staffID),
		Date:      date.String(),
		Status:    newStatus,
		Actor:     l.key.username,
	})
	if err != nil {
		l.logger.Error("发送状态变更通知失败", zap.String("staffID", staffID), zap.Stringer("date", date), zap.Error(err))
	}
}

func (l *boardListener) onLocationChange(staffID string, date civil.Date, location string) {
	if err := l.h.store.UpdateShiftLocation(staffID, date, location); err != nil {
		l.logger.Error("保存地点失败", zap.String("staffID", staffID), zap.Stringer("date", date), zap.Error(err))
	}

	// 地点被清空只会发生在状态变更时，那时已经发过通知
	if location == "" {
		return
	}

	err := l.h.notifier.LocationChanged(domain.LocationChangeMailData{
		StaffName: l.staffName(staffID),
		Date:      date.String(),
		Location:  location,
		Actor:     l.key.username,
	})
	if err != nil {
		l.logger.Error("发送地点通知失败", zap.String("staffID", staffID), zap.Stringer("date", date), zap.Error(err))
	}
}

func (l *boardListener) onRateChange(staffID string, date civil.Date, newRate *decimal.Decimal) {
	if err := l.h.store.UpdateShiftRateOverride(staffID, date, newRate); err != nil {
		l.logger.Error("保存单价失败", zap.String("staffID", staffID), zap.Stringer("date", date), zap.Error(err))
	}

	rate := ""
	if newRate != nil {
		rate = newRate.String()
	}
	err := l.h.notifier.RateChanged(domain.RateChangeMailData{
		StaffName: l.staffName(staffID),
		Date:      date.String(),
		Rate:      rate,
		Actor:     l.key.username,
	})
	if err != nil {
		l.logger.Error("发送单价通知失败", zap.String("staffID", staffID), zap.Stringer("date", date), zap.Error(err))
	}
}

func (l *boardListener) onCommentChange(staffID string, date civil.Date, text string) {
	if err := l.h.store.SaveComment(staffID, date, text); err != nil {
		l.logger.Error("保存备注失败", zap.String("staffID", staffID), zap.Stringer("date", date), zap.Error(err))
	}
}

func (l *boardListener) onReorder(kind domain.OrderKind, order []string) {
	if err := l.h.orders.Save(l.key.username, l.key.year, l.key.month, kind, order); err != nil {
		l.logger.Error("保存显示顺序失败", zap.String("kind", string(kind)), zap.Error(err))
	}
}

func (l *boardListener) onFocus(focus board.Focus) {
	l.logger.Debug("定位未分配班次", zap.String("staffID", focus.StaffID), zap.Stringer("date", focus.Date))
}
