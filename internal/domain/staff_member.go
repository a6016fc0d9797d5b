package domain

import "github.com/shopspring/decimal"

// 常用的角色标签，核心逻辑并不把角色当作封闭的枚举
const (
	RoleCloser = "Closer"
	RoleGirl   = "Girl"
)

type StaffMember struct {
	ID             string          `json:"id" validate:"required,max=64"`
	Name           string          `json:"name" validate:"required"`
	PhoneticName   string          `json:"phoneticName"`
	NearestStation string          `json:"nearestStation"`
	WeekdayRate    decimal.Decimal `json:"weekdayRate"`
	HolidayRate    decimal.Decimal `json:"holidayRate"`
	Phone          string          `json:"phone" validate:"omitempty,max=32"`
	Role           string          `json:"role"` // 为空表示未设置
	Company        string          `json:"company"`
}
