package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
	StatusUndecided   Status = "undecided"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusUnavailable, StatusUndecided:
		return true
	}
	return false
}

// Shift 以 (StaffID, Date) 为键，不存在记录时等价于 Undecided、无地点、无覆盖单价
type Shift struct {
	StaffID      string           `json:"staffID"`
	Date         civil.Date       `json:"date"`
	Status       Status           `json:"status"`
	Location     string           `json:"location,omitempty"` // 为空表示尚未分配地点
	RateOverride *decimal.Decimal `json:"rateOverride,omitempty"`
}

// IsUnassigned 表示已确认出勤但还没有分配地点
func (s Shift) IsUnassigned() bool {
	return s.Status == StatusAvailable && s.Location == ""
}

type CellKey struct {
	StaffID string
	Date    civil.Date
}
