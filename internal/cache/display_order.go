package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/staffing-office/shift-board/backend/internal/config"
	"github.com/staffing-office/shift-board/backend/internal/domain"
)

// OrderStore 按用户和月份保存员工顺序和汇总列顺序，两者互相独立
type OrderStore struct {
	cfg         *config.Config
	redisClient *redis.Client
}

func NewOrderStore(cfg *config.Config, rdb *redis.Client) *OrderStore {
	return &OrderStore{
		cfg:         cfg,
		redisClient: rdb,
	}
}

func orderKey(username string, year int, month time.Month, kind domain.OrderKind) string {
	return fmt.Sprintf("display_order_%s_%04d-%02d_%s", username, year, month, kind)
}

func (s *OrderStore) Save(username string, year int, month time.Month, kind domain.OrderKind, order []string) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Redis.OperationTimeout)*time.Second)
	defer cancel()

	expiration := time.Duration(s.cfg.Redis.OrderExpiration) * time.Second
	return s.redisClient.Set(ctx, orderKey(username, year, month, kind), data, expiration).Err()
}

// Load 没有保存过时返回 nil
func (s *OrderStore) Load(username string, year int, month time.Month, kind domain.OrderKind) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Redis.OperationTimeout)*time.Second)
	defer cancel()

	data, err := s.redisClient.Get(ctx, orderKey(username, year, month, kind)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var order []string
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, err
	}
	return order, nil
}

// LoadAll 读取一个月的两套顺序
func (s *OrderStore) LoadAll(username string, year int, month time.Month) (domain.DisplayOrder, error) {
	staff, err := s.Load(username, year, month, domain.OrderKindStaff)
	if err != nil {
		return domain.DisplayOrder{}, err
	}
	columns, err := s.Load(username, year, month, domain.OrderKindColumn)
	if err != nil {
		return domain.DisplayOrder{}, err
	}
	return domain.DisplayOrder{StaffOrder: staff, ColumnOrder: columns}, nil
}
