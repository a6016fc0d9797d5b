package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/staffing-office/shift-board/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetAllUserInfo(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取账号列表成功", users)
}

// CreateUser 由管理员为办公室成员开设账号，初始密码由管理员线下告知
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required,max=32,alphanum"`
		Password string `json:"password" validate:"required,min=8"`
		FullName string `json:"fullName" validate:"required,max=64"`
		Email    string `json:"email" validate:"required,email"`
		Role     string `json:"role" validate:"required,oneof=排班员 管理员"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         domain.Role(req.Role),
	}

	err = h.store.CreateUser(user)
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		h.successResponse(w, r, "账号创建成功", user)
	case errors.As(err, &pgErr) && pgErr.ConstraintName == "users_username_key":
		h.errorResponse(w, r, "用户名已存在")
	case errors.As(err, &pgErr) && pgErr.ConstraintName == "users_email_key":
		h.errorResponse(w, r, "邮箱已存在")
	default:
		h.internalServerError(w, r, err)
	}
}

// SetUserActive 停用或恢复账号，停用后无法登录，已有的状态历史保持不变
func (h *Handler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "账号 ID 无效")
		return
	}
	if strconv.FormatInt(id, 10) == r.Context().Value(SubCtxKey).(string) {
		h.errorResponse(w, r, "不能修改自己的账号状态")
		return
	}

	var req struct {
		IsActive *bool `json:"isActive" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user, err := h.store.GetUserByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "账号不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	user.IsActive = *req.IsActive
	if err := h.store.SetUserActive(user); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "账号已被修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "修改账号状态成功", user)
}
