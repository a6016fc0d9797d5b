package handler

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/ja"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja"
	"github.com/shopspring/decimal"
	"github.com/staffing-office/shift-board/backend/internal/config"
	"github.com/staffing-office/shift-board/backend/internal/domain"
	"github.com/staffing-office/shift-board/backend/internal/repository"
	"go.uber.org/zap"
)

// Store 是 handler 用到的持久化操作，由 *repository.Repository 实现
type Store interface {
	GetUserByID(id int64) (*domain.User, error)
	GetUserByUsername(username string) (*domain.User, error)
	GetAllUsers() ([]*domain.User, error)
	CreateUser(user *domain.User) error
	UpdateUserPassword(user *domain.User) error
	SetUserActive(user *domain.User) error

	GetAllStaffMembers() ([]domain.StaffMember, error)
	GetShiftsByMonth(year int, month time.Month) ([]domain.Shift, error)
	GetStatusHistoryByMonth(year int, month time.Month) (map[domain.CellKey][]domain.StatusChangeEvent, error)
	GetCommentsByMonth(year int, month time.Month) ([]domain.Comment, error)
	GetCaseCountsByMonth(year int, month time.Month) (repository.CaseCounts, error)

	SaveStatusChange(staffID string, date civil.Date, ev domain.StatusChangeEvent) error
	UpdateShiftLocation(staffID string, date civil.Date, location string) error
	UpdateShiftRateOverride(staffID string, date civil.Date, rate *decimal.Decimal) error
	SaveComment(staffID string, date civil.Date, text string) error
}

// OrderStore 保存每个用户每个月的显示顺序，由 *cache.OrderStore 实现
type OrderStore interface {
	Save(username string, year int, month time.Month, kind domain.OrderKind, order []string) error
	LoadAll(username string, year int, month time.Month) (domain.DisplayOrder, error)
}

// Notifier 把排班变更发送到邮件队列，由 *notify.Publisher 实现
type Notifier interface {
	StatusChanged(data domain.StatusChangeMailData) error
	LocationChanged(data domain.LocationChangeMailData) error
	RateChanged(data domain.RateChangeMailData) error
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	store      Store
	orders     OrderStore
	notifier   Notifier
	translator ut.Translator
	logger     *zap.Logger
	sessions   *sessionRegistry

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, store Store, orders OrderStore, notifier Notifier, logger *zap.Logger) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	ja := ja.New()
	uni := ut.New(ja, ja)
	trans, _ := uni.GetTranslator("ja")
	if err := ja_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		store:      store,
		orders:     orders,
		notifier:   notifier,
		translator: trans,
		logger:     logger,
		sessions:   newSessionRegistry(time.Duration(cfg.Board.SessionTTL) * time.Second),

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.requestLogger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Get("/", h.GetAllUserInfo)
			r.Post("/", h.CreateUser)
			r.Patch("/{id}/active", h.SetUserActive)
		})

		r.Route("/boards/{yearMonth}", func(r chi.Router) {
			// reload 需要自己替换会话，不能持有会话锁
			r.Post("/reload", h.ReloadBoard)

			r.Group(func(r chi.Router) {
				r.Use(h.boardSession)
				r.Get("/", h.GetBoard)
				r.Get("/counts", h.GetDateCounts)
				r.Get("/totals", h.GetTotals)
				r.Get("/unassigned", h.GetUnassignedShifts)
				r.Post("/unassigned/next", h.NextUnassignedShift)
				r.Post("/order/{kind}", h.Reorder)
				r.Get("/export", h.ExportBoard)

				r.Route("/cells/{staffID}/{date}", func(r chi.Router) {
					r.Use(h.cell)
					r.Patch("/status", h.UpdateCellStatus)
					r.Patch("/location", h.UpdateCellLocation)
					r.Patch("/rate", h.UpdateCellRate)
					r.Patch("/comment", h.UpdateCellComment)
					r.Get("/history", h.GetCellHistory)
				})
			})
		})
	})
}
