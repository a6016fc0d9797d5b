package export

import (
	"fmt"

	"github.com/staffing-office/shift-board/backend/internal/board"
	"github.com/staffing-office/shift-board/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

var columnHeaders = map[string]string{
	string(domain.ColumnPhoneticName):   "フリガナ",
	string(domain.ColumnNearestStation): "最寄駅",
	string(domain.ColumnPhone):          "電話番号",
	string(domain.ColumnCompany):        "所属",
	string(domain.ColumnWeekdayRate):    "平日単価",
	string(domain.ColumnHolidayRate):    "休日単価",
	string(domain.ColumnShiftCount):     "出勤数",
	string(domain.ColumnTotalAmount):    "合計金額",
}

var weekdayLabels = [...]string{"日", "月", "火", "水", "木", "金", "土"}

const (
	markAvailable   = "○"
	markUnavailable = "×"
)

// SheetName 返回导出文件中工作表的名字，例如 2025-01
func SheetName(b *board.Board) string {
	return fmt.Sprintf("%04d-%02d", b.Year(), b.Month())
}

// MonthlyGrid 按当前的员工顺序和汇总列顺序导出整张月度排班表
// 出勤的格子写地点，没有地点时写 ○，不出勤写 ×，未定留空
func MonthlyGrid(b *board.Board) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := SheetName(b)
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("创建工作表失败: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("删除默认工作表失败: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("创建表头样式失败: %w", err)
	}
	weekendStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#C00000"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FDE9E7"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("创建周末样式失败: %w", err)
	}

	columns := b.Order(domain.OrderKindColumn)
	dates := b.Dates()
	firstDateCol := len(columns) + 2

	// 表头
	header := make([]any, 0, 1+len(columns)+len(dates))
	header = append(header, "氏名")
	for _, col := range columns {
		header = append(header, columnHeaders[col])
	}
	for _, d := range dates {
		header = append(header, fmt.Sprintf("%d(%s)", d.Date.Day, weekdayLabels[d.DayOfWeek]))
	}
	if err := setRow(f, sheetName, 1, header); err != nil {
		return nil, err
	}

	lastHeader, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("设置表头样式失败: %w", err)
	}
	for i, d := range dates {
		if !d.IsWeekend {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(firstDateCol+i, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, weekendStyle); err != nil {
			return nil, fmt.Errorf("设置周末样式失败: %w", err)
		}
	}

	// 每个员工一行
	row := 2
	for _, staff := range b.Roster() {
		totals, err := b.StaffMonthlyTotals(staff.ID)
		if err != nil {
			return nil, err
		}

		values := make([]any, 0, len(header))
		values = append(values, staff.Name)
		for _, col := range columns {
			values = append(values, columnValue(staff, totals, col))
		}
		for _, d := range dates {
			values = append(values, cellMark(b.Shift(staff.ID, d.Date)))
		}
		if err := setRow(f, sheetName, row, values); err != nil {
			return nil, err
		}
		row++
	}

	// 每个角色两行：出勤人数和未分配人数
	for _, role := range b.Roles() {
		label := role
		if label == "" {
			label = "未設定"
		}

		available := make([]any, firstDateCol-1, len(header))
		unassigned := make([]any, firstDateCol-1, len(header))
		available[0] = label + " 出勤"
		unassigned[0] = label + " 未配置"
		for _, c := range b.DateCounts(role) {
			available = append(available, c.Available)
			unassigned = append(unassigned, c.Unassigned)
		}

		if err := setRow(f, sheetName, row, available); err != nil {
			return nil, err
		}
		if err := setRow(f, sheetName, row+1, unassigned); err != nil {
			return nil, err
		}
		row += 2
	}

	grand := b.GrandTotals()
	summary := []any{"合計", grand.Count, grand.Amount.InexactFloat64(), "案件数", b.MonthlyCaseTotal()}
	if err := setRow(f, sheetName, row, summary); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(sheetName, "A", "A", 16); err != nil {
		return nil, fmt.Errorf("设置列宽失败: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("生成 Excel 文件失败: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheetName string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("写入第 %d 行失败: %w", row, err)
	}
	return nil
}

func columnValue(staff domain.StaffMember, totals board.Totals, col string) any {
	switch domain.ColumnID(col) {
	case domain.ColumnPhoneticName:
		return staff.PhoneticName
	case domain.ColumnNearestStation:
		return staff.NearestStation
	case domain.ColumnPhone:
		return staff.Phone
	case domain.ColumnCompany:
		return staff.Company
	case domain.ColumnWeekdayRate:
		return staff.WeekdayRate.InexactFloat64()
	case domain.ColumnHolidayRate:
		return staff.HolidayRate.InexactFloat64()
	case domain.ColumnShiftCount:
		return totals.Count
	case domain.ColumnTotalAmount:
		return totals.Amount.InexactFloat64()
	}
	return nil
}

func cellMark(shift domain.Shift) string {
	switch shift.Status {
	case domain.StatusAvailable:
		if shift.Location != "" {
			return shift.Location
		}
		return markAvailable
	case domain.StatusUnavailable:
		return markUnavailable
	}
	return ""
}
