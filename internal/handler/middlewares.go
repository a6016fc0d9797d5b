package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/staffing-office/shift-board/backend/internal/calendar"
	"github.com/staffing-office/shift-board/backend/internal/domain"
	"go.uber.org/zap"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		h.logger.Info("已处理请求",
			zap.Int("status", rw.StatusCode),
			zap.String("ip", r.RemoteAddr),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				h.logger.Error("panic 堆栈", zap.ByteString("stack", debug.Stack()))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 从 cookie 中获取 token
		cookie, err := r.Cookie(tokenCookieName)
		if err != nil {
			switch {
			case errors.Is(err, http.ErrNoCookie):
				h.errorResponse(w, r, "用户未登录")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		claims := &AuthClaims{}
		_, err = jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.JWT.Secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			h.errorResponse(w, r, "无效的令牌")
			return
		}

		// username 同时作为修改排班时记录的操作人
		ctx := r.Context()
		ctx = context.WithValue(ctx, RoleCtxKey, claims.Role)
		ctx = context.WithValue(ctx, SubCtxKey, claims.Subject)
		ctx = context.WithValue(ctx, UsernameCtxKey, claims.Username)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) myInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subString := r.Context().Value(SubCtxKey).(string)

		sub, err := strconv.ParseInt(subString, 10, 64)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		myInfo, err := h.store.GetUserByID(sub)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "个人信息不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), MyInfoCtx, myInfo)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) RequiredRole(roles []domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleCtx := r.Context().Value(RoleCtxKey).(string)
			role := domain.Role(roleCtx)
			if !slices.Contains(roles, role) {
				h.errorResponse(w, r, "权限不足")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// boardKey 解析 URL 中的年月，结合当前用户得到会话的键
func (h *Handler) boardKey(r *http.Request) (sessionKey, error) {
	year, month, err := calendar.ParseYearMonth(chi.URLParam(r, "yearMonth"))
	if err != nil {
		return sessionKey{}, err
	}
	username := r.Context().Value(UsernameCtxKey).(string)
	return sessionKey{username: username, year: year, month: month}, nil
}

// boardSession 在请求期间独占当前用户这个月的排班表
func (h *Handler) boardSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, err := h.boardKey(r)
		if err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}

		session, err := h.sessions.acquire(key, h.loadBoard)
		if err != nil {
			h.boardError(w, r, err)
			return
		}
		defer session.release()

		ctx := context.WithValue(r.Context(), BoardCtx, session.board)
		ctx = context.WithValue(ctx, BoardKeyCtx, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type cellRef struct {
	staffID string
	date    civil.Date
}

func (h *Handler) cell(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		date, err := civil.ParseDate(chi.URLParam(r, "date"))
		if err != nil {
			h.errorResponse(w, r, "日期无效")
			return
		}

		ref := cellRef{staffID: chi.URLParam(r, "staffID"), date: date}
		ctx := context.WithValue(r.Context(), CellCtx, ref)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
