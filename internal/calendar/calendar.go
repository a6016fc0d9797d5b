// Package calendar 计算某年某月的日期列表，日期不携带时区信息
package calendar

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

type DateInfo struct {
	Date      civil.Date   `json:"date"`
	DayOfWeek time.Weekday `json:"dayOfWeek"`
	IsWeekend bool         `json:"isWeekend"`
}

// Month 返回 year 年 month 月的全部日期，按日期升序排列
func Month(year int, month time.Month) ([]DateInfo, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("月份 %d 超出范围", month)
	}

	first := civil.Date{Year: year, Month: month, Day: 1}
	days := DaysIn(year, month)

	dates := make([]DateInfo, 0, days)
	for i := 0; i < days; i++ {
		d := first.AddDays(i)
		dates = append(dates, Info(d))
	}

	return dates, nil
}

// DaysIn 返回某月的天数
func DaysIn(year int, month time.Month) int {
	// 下个月第 0 天即本月最后一天
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func Info(d civil.Date) DateInfo {
	return DateInfo{
		Date:      d,
		DayOfWeek: Weekday(d),
		IsWeekend: IsWeekend(d),
	}
}

func Weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

func IsWeekend(d civil.Date) bool {
	wd := Weekday(d)
	return wd == time.Saturday || wd == time.Sunday
}

// InMonth 判断日期是否属于给定的年月
func InMonth(d civil.Date, year int, month time.Month) bool {
	return d.IsValid() && d.Year == year && d.Month == month
}

// ParseYearMonth 解析 "2025-01" 形式的年月
func ParseYearMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("无效的年月 %q", s)
	}
	return t.Year(), t.Month(), nil
}
