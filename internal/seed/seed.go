package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/staffing-office/shift-board/backend/internal/domain"
	"github.com/staffing-office/shift-board/backend/internal/utils"
	"go.uber.org/zap"
)

// 名单 CSV 的表头，顺序可以任意
const (
	HeaderID             = "ID"
	HeaderName           = "氏名"
	HeaderPhoneticName   = "フリガナ"
	HeaderNearestStation = "最寄駅"
	HeaderWeekdayRate    = "平日単価"
	HeaderHolidayRate    = "休日単価"
	HeaderPhone          = "電話番号"
	HeaderRole           = "役割"
	HeaderCompany        = "所属"
)

var requiredHeaders = []string{HeaderID, HeaderName, HeaderWeekdayRate, HeaderHolidayRate}

// RosterWriter 由 *repository.Repository 实现
type RosterWriter interface {
	UpsertStaffMember(s *domain.StaffMember, position int) error
}

// ParseRoster 读取名单 CSV，文件中的行顺序就是默认的员工显示顺序
func ParseRoster(r io.Reader) ([]domain.StaffMember, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimPrefix(strings.TrimSpace(headers[i]), "\uFEFF")
	}
	for _, required := range requiredHeaders {
		found := false
		for _, header := range headers {
			if header == required {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("没有找到列 %s", required)
		}
	}

	roster := make([]domain.StaffMember, 0)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("读取第 %d 行失败: %w", line, err)
		}

		record := make(map[string]string, len(headers))
		for i, value := range row {
			record[headers[i]] = strings.TrimSpace(value)
		}

		weekday, err := decimal.NewFromString(record[HeaderWeekdayRate])
		if err != nil {
			return nil, fmt.Errorf("第 %d 行的平日单价无效: %w", line, err)
		}
		holiday, err := decimal.NewFromString(record[HeaderHolidayRate])
		if err != nil {
			return nil, fmt.Errorf("第 %d 行的休日单价无效: %w", line, err)
		}

		roster = append(roster, domain.StaffMember{
			ID:             record[HeaderID],
			Name:           record[HeaderName],
			PhoneticName:   record[HeaderPhoneticName],
			NearestStation: record[HeaderNearestStation],
			WeekdayRate:    weekday,
			HolidayRate:    holiday,
			Phone:          record[HeaderPhone],
			Role:           record[HeaderRole],
			Company:        record[HeaderCompany],
		})
	}

	return roster, nil
}

// ImportRoster 校验整个名单后再逐个写入，校验失败时不写入任何数据
func ImportRoster(w RosterWriter, validate *validator.Validate, r io.Reader, logger *zap.Logger) (int, error) {
	roster, err := ParseRoster(r)
	if err != nil {
		return 0, err
	}
	if err := utils.ValidateRoster(validate, roster); err != nil {
		return 0, err
	}

	cnt := 0
	for i := range roster {
		if err := w.UpsertStaffMember(&roster[i], i); err != nil {
			logger.Error("写入员工失败", zap.String("id", roster[i].ID), zap.Error(err))
			continue
		}
		cnt++
	}

	return cnt, nil
}

func ImportRosterFile(w RosterWriter, validate *validator.Validate, path string, logger *zap.Logger) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return ImportRoster(w, validate, file, logger)
}
