package domain

type OrderKind string

const (
	OrderKindStaff  OrderKind = "staff"
	OrderKindColumn OrderKind = "column"
)

func (k OrderKind) IsValid() bool {
	return k == OrderKindStaff || k == OrderKindColumn
}

// ColumnID 标识排班表左侧可选的汇总列
type ColumnID string

const (
	ColumnPhoneticName   ColumnID = "phoneticName"
	ColumnNearestStation ColumnID = "nearestStation"
	ColumnPhone          ColumnID = "phone"
	ColumnCompany        ColumnID = "company"
	ColumnWeekdayRate    ColumnID = "weekdayRate"
	ColumnHolidayRate    ColumnID = "holidayRate"
	ColumnShiftCount     ColumnID = "shiftCount"
	ColumnTotalAmount    ColumnID = "totalAmount"
)

func DefaultColumnOrder() []string {
	return []string{
		string(ColumnPhoneticName),
		string(ColumnNearestStation),
		string(ColumnPhone),
		string(ColumnCompany),
		string(ColumnWeekdayRate),
		string(ColumnHolidayRate),
		string(ColumnShiftCount),
		string(ColumnTotalAmount),
	}
}

type DisplayOrder struct {
	StaffOrder  []string `json:"staffOrder"`
	ColumnOrder []string `json:"columnOrder"`
}
