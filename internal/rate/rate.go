package rate

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/staffing-office/shift-board/backend/internal/domain"
)

// Resolve 计算某个格子的实际单价
// 优先级：覆盖单价 > 周末使用 HolidayRate > 平日使用 WeekdayRate
func Resolve(staff *domain.StaffMember, date civil.Date, isWeekend bool, override *decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	if isWeekend {
		return staff.HolidayRate
	}
	return staff.WeekdayRate
}
