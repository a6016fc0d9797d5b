package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/staffing-office/shift-board/backend/internal/calendar"
	"github.com/staffing-office/shift-board/backend/internal/config"
	"github.com/staffing-office/shift-board/backend/internal/logger"
	"github.com/staffing-office/shift-board/backend/internal/repository"
	"github.com/staffing-office/shift-board/backend/internal/seed"
	"github.com/staffing-office/shift-board/backend/internal/utils"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var yearMonth string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机人员, 2: 导入名册 CSV, 3: 插入随机班次, 4: 插入随机案件数)")
	flag.IntVar(&n, "n", 5, "要插入的人员数量")
	flag.StringVar(&yearMonth, "month", time.Now().Format("2006-01"), "生成班次或案件数的月份 (YYYY-MM)")
	flag.Parse()

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		fallback, _ := logger.New("info")
		fallback.Fatal("无法读取配置文件", zap.Error(err))
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法创建 logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		log.Error("无法创建数据库连接池", zap.Error(err))
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		log.Error("无法连接到数据库", zap.Error(err))
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		log.Error("未指定操作")
	case 1:
		if n <= 0 {
			log.Error("请输入合法的人员数量")
			return
		}

		// 新人员排在现有名册之后
		existing, err := repo.GetAllStaffMembers()
		if err != nil {
			log.Error("无法读取名册", zap.Error(err))
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			s := utils.GenerateRandomStaffMember()
			if err := repo.UpsertStaffMember(s, len(existing)+i); err != nil {
				log.Error("无法插入随机人员", zap.String("id", s.ID), zap.Error(err))
				continue
			}
			cnt++
		}
		log.Info("插入随机人员成功", zap.Int("count", cnt))
	case 2:
		validate := validator.New(validator.WithRequiredStructEnabled())
		cnt, err := seed.ImportRosterFile(repo, validate, cfg.Seed.RosterCSV, log)
		if err != nil {
			log.Error("无法导入名册", zap.String("path", cfg.Seed.RosterCSV), zap.Error(err))
			return
		}
		log.Info("导入名册成功", zap.Int("count", cnt))
	case 3:
		year, month, err := calendar.ParseYearMonth(yearMonth)
		if err != nil {
			log.Error("月份格式错误", zap.String("month", yearMonth), zap.Error(err))
			return
		}

		roster, err := repo.GetAllStaffMembers()
		if err != nil {
			log.Error("无法读取名册", zap.Error(err))
			return
		}
		if len(roster) == 0 {
			log.Error("名册为空，请先插入人员")
			return
		}

		shifts, err := utils.GenerateRandomMonthShifts(roster, year, month)
		if err != nil {
			log.Error("无法生成随机班次", zap.Error(err))
			return
		}
		if err := repo.InsertShifts(shifts); err != nil {
			log.Error("无法插入随机班次", zap.Error(err))
			return
		}
		log.Info("插入随机班次成功", zap.String("month", yearMonth), zap.Int("count", len(shifts)))
	case 4:
		year, month, err := calendar.ParseYearMonth(yearMonth)
		if err != nil {
			log.Error("月份格式错误", zap.String("month", yearMonth), zap.Error(err))
			return
		}

		counts, err := utils.GenerateRandomCaseCounts(year, month)
		if err != nil {
			log.Error("无法生成随机案件数", zap.Error(err))
			return
		}

		cnt := 0
		for date, count := range counts {
			if err := repo.UpsertCaseCount(date, count); err != nil {
				log.Error("无法插入案件数", zap.String("date", date.String()), zap.Error(err))
				continue
			}
			cnt++
		}
		log.Info("插入随机案件数成功", zap.String("month", yearMonth), zap.Int("count", cnt))
	default:
		log.Error("未知操作", zap.Int("op", op))
	}
}
