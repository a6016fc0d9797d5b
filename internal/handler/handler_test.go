package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/staffing-office/shift-board/backend/internal/config"
	"github.com/staffing-office/shift-board/backend/internal/domain"
	"github.com/staffing-office/shift-board/backend/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func jan(day int) civil.Date {
	return civil.Date{Year: 2025, Month: time.January, Day: day}
}

func staff(id, name, role string, weekday, holiday int64) domain.StaffMember {
	return domain.StaffMember{
		ID:          id,
		Name:        name,
		Role:        role,
		WeekdayRate: decimal.NewFromInt(weekday),
		HolidayRate: decimal.NewFromInt(holiday),
	}
}

type locationWrite struct {
	staffID  string
	date     civil.Date
	location string
}

type rateWrite struct {
	staffID string
	date    civil.Date
	rate    *decimal.Decimal
}

// fakeStore 在内存中保存数据并记录所有写操作
type fakeStore struct {
	mu sync.Mutex

	users    map[string]*domain.User
	roster   []domain.StaffMember
	shifts   []domain.Shift
	comments []domain.Comment
	cases    repository.CaseCounts

	loads          int
	statusChanges  []domain.StatusChangeEvent
	locationWrites []locationWrite
	rateWrites     []rateWrite
	commentWrites  []domain.Comment
	failWrites     error
}

func newFakeStore(t *testing.T) *fakeStore {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	return &fakeStore{
		users: map[string]*domain.User{
			"alice": {ID: 1, Username: "alice", PasswordHash: string(hash), FullName: "Alice", Role: domain.RoleOperator, IsActive: true},
			"root":  {ID: 2, Username: "root", PasswordHash: string(hash), FullName: "Root", Role: domain.RoleAdmin, IsActive: true},
			"gone":  {ID: 3, Username: "gone", PasswordHash: string(hash), FullName: "Gone", Role: domain.RoleOperator, IsActive: false},
		},
		roster: []domain.StaffMember{
			staff("A", "山田", domain.RoleCloser, 18000, 25000),
			staff("B", "佐藤", domain.RoleCloser, 15000, 20000),
			staff("C", "鈴木", domain.RoleCloser, 16000, 21000),
			staff("D", "高橋", domain.RoleCloser, 17000, 22000),
			staff("G", "田中", domain.RoleGirl, 12000, 14000),
		},
		cases: repository.CaseCounts{jan(1): 3},
	}
}

func (s *fakeStore) GetUserByID(id int64) (*domain.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeStore) GetUserByUsername(username string) (*domain.User, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (s *fakeStore) GetAllUsers() ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	return users, nil
}

func (s *fakeStore) CreateUser(user *domain.User) error {
	user.ID = int64(len(s.users) + 1)
	user.IsActive = true
	s.users[user.Username] = user
	return nil
}

func (s *fakeStore) UpdateUserPassword(user *domain.User) error {
	s.users[user.Username].PasswordHash = user.PasswordHash
	return nil
}

func (s *fakeStore) SetUserActive(user *domain.User) error {
	s.users[user.Username].IsActive = user.IsActive
	return nil
}

func (s *fakeStore) GetAllStaffMembers() ([]domain.StaffMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	return s.roster, nil
}

func (s *fakeStore) GetShiftsByMonth(year int, month time.Month) ([]domain.Shift, error) {
	return s.shifts, nil
}

func (s *fakeStore) GetStatusHistoryByMonth(year int, month time.Month) (map[domain.CellKey][]domain.StatusChangeEvent, error) {
	return nil, nil
}

func (s *fakeStore) GetCommentsByMonth(year int, month time.Month) ([]domain.Comment, error) {
	return s.comments, nil
}

func (s *fakeStore) GetCaseCountsByMonth(year int, month time.Month) (repository.CaseCounts, error) {
	return s.cases, nil
}

func (s *fakeStore) SaveStatusChange(staffID string, date civil.Date, ev domain.StatusChangeEvent) error {
	s.statusChanges = append(s.statusChanges, ev)
	return s.failWrites
}

func (s *fakeStore) UpdateShiftLocation(staffID string, date civil.Date, location string) error {
	s.locationWrites = append(s.locationWrites, locationWrite{staffID, date, location})
	return s.failWrites
}

func (s *fakeStore) UpdateShiftRateOverride(staffID string, date civil.Date, rate *decimal.Decimal) error {
	s.rateWrites = append(s.rateWrites, rateWrite{staffID, date, rate})
	return s.failWrites
}

func (s *fakeStore) SaveComment(staffID string, date civil.Date, text string) error {
	s.commentWrites = append(s.commentWrites, domain.Comment{StaffID: staffID, Date: date, Text: text})
	return s.failWrites
}

type fakeOrders struct {
	saved map[string]map[domain.OrderKind][]string
}

func (o *fakeOrders) Save(username string, year int, month time.Month, kind domain.OrderKind, order []string) error {
	if o.saved[username] == nil {
		o.saved[username] = make(map[domain.OrderKind][]string)
	}
	o.saved[username][kind] = order
	return nil
}

func (o *fakeOrders) LoadAll(username string, year int, month time.Month) (domain.DisplayOrder, error) {
	saved := o.saved[username]
	return domain.DisplayOrder{StaffOrder: saved[domain.OrderKindStaff], ColumnOrder: saved[domain.OrderKindColumn]}, nil
}

type fakeNotifier struct {
	status   []domain.StatusChangeMailData
	location []domain.LocationChangeMailData
	rate     []domain.RateChangeMailData
}

func (n *fakeNotifier) StatusChanged(data domain.StatusChangeMailData) error {
	n.status = append(n.status, data)
	return nil
}

func (n *fakeNotifier) LocationChanged(data domain.LocationChangeMailData) error {
	n.location = append(n.location, data)
	return nil
}

func (n *fakeNotifier) RateChanged(data domain.RateChangeMailData) error {
	n.rate = append(n.rate, data)
	return nil
}

type testEnv struct {
	h        *Handler
	store    *fakeStore
	orders   *fakeOrders
	notifier *fakeNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 1
	cfg.Board.HistoryPreview = 3
	cfg.Board.SessionTTL = 3600

	env := &testEnv{
		store:    newFakeStore(t),
		orders:   &fakeOrders{saved: make(map[string]map[domain.OrderKind][]string)},
		notifier: &fakeNotifier{},
	}

	h, err := NewHandler(cfg, env.store, env.orders, env.notifier, zap.NewNop())
	require.NoError(t, err)
	h.RegisterRoutes()
	env.h = h

	return env
}

// do 以 username 的身份发送请求，username 为空时不带 cookie
func (env *testEnv) do(t *testing.T, username, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if username != "" {
		user, err := env.store.GetUserByUsername(username)
		require.NoError(t, err)
		token, _, err := env.h.signToken(user, time.Now())
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: token})
	}

	rec := httptest.NewRecorder()
	env.h.Mux.ServeHTTP(rec, req)
	return rec
}

type testResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) testResponse {
	t.Helper()

	var resp testResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	if data != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}

var errWriteFailed = errors.New("写入失败")
