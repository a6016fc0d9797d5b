package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/staffing-office/shift-board/backend/internal/domain"
)

// ValidateStaffMember 检查字段格式，并要求单价不能为负数
func ValidateStaffMember(validate *validator.Validate, s *domain.StaffMember) error {
	if err := validate.Struct(s); err != nil {
		return err
	}

	if s.WeekdayRate.IsNegative() {
		return fmt.Errorf("员工 %s 的平日单价不能为负数", s.ID)
	}
	if s.HolidayRate.IsNegative() {
		return fmt.Errorf("员工 %s 的休日单价不能为负数", s.ID)
	}

	return nil
}

// ValidateRoster 逐个检查员工，并且要求 ID 不能重复
func ValidateRoster(validate *validator.Validate, roster []domain.StaffMember) error {
	seen := make(map[string]int, len(roster))
	for i := range roster {
		if err := ValidateStaffMember(validate, &roster[i]); err != nil {
			return fmt.Errorf("第 %d 名员工: %w", i+1, err)
		}
		if prev, exists := seen[roster[i].ID]; exists {
			return fmt.Errorf("第 %d 名员工的 ID %s 与第 %d 名重复", i+1, roster[i].ID, prev+1)
		}
		seen[roster[i].ID] = i
	}
	return nil
}
