package handler

import (
	"fmt"
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/staffing-office/shift-board/backend/internal/board"
	"github.com/staffing-office/shift-board/backend/internal/domain"
	"github.com/staffing-office/shift-board/backend/internal/export"
)

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board.Board)
	h.successResponse(w, r, "获取排班表成功", b.Snapshot())
}

// ReloadBoard 丢弃当前会话中的排班表，从数据库重新加载
func (h *Handler) ReloadBoard(w http.ResponseWriter, r *http.Request) {
	key, err := h.boardKey(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.sessions.drop(key)

	session, err := h.sessions.acquire(key, h.loadBoard)
	if err != nil {
		h.boardError(w, r, err)
		return
	}
	defer session.release()

	h.successResponse(w, r, "重新加载排班表成功", session.board.Snapshot())
}

// GetDateCounts 指定 role 时只返回该角色，否则返回所有角色
func (h *Handler) GetDateCounts(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board.Board)

	query := r.URL.Query()
	if query.Has("role") {
		h.successResponse(w, r, "获取每日人数成功", b.DateCounts(query.Get("role")))
		return
	}

	counts := make(map[string][]board.DateCount)
	for _, role := range b.Roles() {
		counts[role] = b.DateCounts(role)
	}
	h.successResponse(w, r, "获取每日人数成功", counts)
}

func (h *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board.Board)

	query := r.URL.Query()
	if query.Has("role") {
		h.successResponse(w, r, "获取月度汇总成功", b.RoleMonthlyTotals(query.Get("role")))
		return
	}

	var resp struct {
		Grand     board.Totals            `json:"grand"`
		Roles     map[string]board.Totals `json:"roles"`
		Staff     map[string]board.Totals `json:"staff"`
		CaseTotal int                     `json:"caseTotal"`
	}
	resp.Grand = b.GrandTotals()
	resp.Roles = make(map[string]board.Totals)
	for _, role := range b.Roles() {
		resp.Roles[role] = b.RoleMonthlyTotals(role)
	}
	resp.Staff = make(map[string]board.Totals)
	for _, staff := range b.Roster() {
		totals, err := b.StaffMonthlyTotals(staff.ID)
		if err != nil {
			h.boardError(w, r, err)
			return
		}
		resp.Staff[staff.ID] = totals
	}
	resp.CaseTotal = b.MonthlyCaseTotal()

	h.successResponse(w, r, "获取月度汇总成功", resp)
}

func (h *Handler) GetUnassignedShifts(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board.Board)

	query := r.URL.Query()
	date, err := civil.ParseDate(query.Get("date"))
	if err != nil {
		h.errorResponse(w, r, "日期无效")
		return
	}
	if err := b.CheckDate(date); err != nil {
		h.boardError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取未分配班次成功", b.UnassignedShifts(date, query.Get("role")))
}

// NextUnassignedShift 对应一次未分配徽标的点击，返回需要定位的格子
func (h *Handler) NextUnassignedShift(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board.Board)

	var req struct {
		Date civil.Date `json:"date" validate:"required"`
		Role string     `json:"role"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	focus, ok, err := b.OnUnassignedBadgeClick(req.Date, req.Role)
	if err != nil {
		h.boardError(w, r, err)
		return
	}
	if !ok {
		h.successResponse(w, r, "没有未分配的班次", nil)
		return
	}

	h.successResponse(w, r, "定位未分配班次成功", focus)
}

func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board.Board)

	kind := domain.OrderKind(chi.URLParam(r, "kind"))
	if !kind.IsValid() {
		h.errorResponse(w, r, "无效的顺序类型")
		return
	}

	var req struct {
		MovedID  string `json:"movedId" validate:"required"`
		TargetID string `json:"targetId" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := b.Reorder(kind, req.MovedID, req.TargetID); err != nil {
		h.boardError(w, r, err)
		return
	}

	h.successResponse(w, r, "调整顺序成功", b.Order(kind))
}

func (h *Handler) ExportBoard(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board.Board)

	data, err := export.MonthlyGrid(b)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=shift-board-%s.xlsx", export.SheetName(b)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logInternalServerError(r, err)
	}
}
