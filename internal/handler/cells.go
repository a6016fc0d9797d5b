package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/staffing-office/shift-board/backend/internal/board"
	"github.com/staffing-office/shift-board/backend/internal/domain"
)

type cellResponse struct {
	Shift         domain.Shift    `json:"shift"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`
	Comment       string          `json:"comment"`
	Dirty         bool            `json:"dirty"`
}

// respondCell 修改成功后返回格子的最新状态
func (h *Handler) respondCell(w http.ResponseWriter, r *http.Request, msg string) {
	b := r.Context().Value(BoardCtx).(*board.Board)
	ref := r.Context().Value(CellCtx).(cellRef)

	effective, err := b.EffectiveRate(ref.staffID, ref.date)
	if err != nil {
		h.boardError(w, r, err)
		return
	}

	h.successResponse(w, r, msg, cellResponse{
		Shift:         b.Shift(ref.staffID, ref.date),
		EffectiveRate: effective,
		Comment:       b.Comment(ref.staffID, ref.date),
		Dirty:         b.IsDirtySinceLoad(ref.staffID, ref.date),
	})
}

func (h *Handler) UpdateCellStatus(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board.Board)
	ref := r.Context().Value(CellCtx).(cellRef)
	actor := r.Context().Value(UsernameCtxKey).(string)

	var req struct {
		Status string `json:"status" validate:"required,oneof=available unavailable undecided"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := b.UpdateStatus(ref.staffID, ref.date, domain.Status(req.Status), actor); err != nil {
		h.boardError(w, r, err)
		return
	}

	h.respondCell(w, r, "修改状态成功")
}

func (h *Handler) UpdateCellLocation(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board.Board)
	ref := r.Context().Value(CellCtx).(cellRef)

	var req struct {
		Location string `json:"location" validate:"max=128"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := b.UpdateLocation(ref.staffID, ref.date, req.Location); err != nil {
		h.boardError(w, r, err)
		return
	}

	h.respondCell(w, r, "设置地点成功")
}

// UpdateCellRate rate 为 null 时取消覆盖单价
func (h *Handler) UpdateCellRate(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board.Board)
	ref := r.Context().Value(CellCtx).(cellRef)

	var req struct {
		Rate *decimal.Decimal `json:"rate"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := b.UpdateRateOverride(ref.staffID, ref.date, req.Rate); err != nil {
		h.boardError(w, r, err)
		return
	}

	h.respondCell(w, r, "设置单价成功")
}

func (h *Handler) UpdateCellComment(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board.Board)
	ref := r.Context().Value(CellCtx).(cellRef)

	var req struct {
		Text string `json:"text" validate:"max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := b.UpdateComment(ref.staffID, ref.date, req.Text); err != nil {
		h.boardError(w, r, err)
		return
	}

	h.respondCell(w, r, "修改备注成功")
}

// GetCellHistory 按时间倒序返回状态变更记录，limit 默认取配置，0 表示全部
func (h *Handler) GetCellHistory(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board.Board)
	ref := r.Context().Value(CellCtx).(cellRef)

	limit := h.config.Board.HistoryPreview
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			h.errorResponse(w, r, "limit 无效")
			return
		}
		limit = n
	}

	if err := b.CheckCell(ref.staffID, ref.date); err != nil {
		h.boardError(w, r, err)
		return
	}

	history := b.StatusHistory(ref.staffID, ref.date)
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}

	h.successResponse(w, r, "获取状态变更记录成功", history)
}
