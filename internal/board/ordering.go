package board

import (
	"fmt"
	"slices"

	"github.com/staffing-office/shift-board/backend/internal/domain"
)

// Ordering 维护员工和汇总列两套互不影响的显示顺序，只影响显示，不影响任何汇总结果
type Ordering struct {
	staff   []string
	columns []string
}

func NewOrdering(staffIDs []string, columnIDs []string) *Ordering {
	return &Ordering{
		staff:   slices.Clone(staffIDs),
		columns: slices.Clone(columnIDs),
	}
}

func (o *Ordering) Order(kind domain.OrderKind) []string {
	switch kind {
	case domain.OrderKindStaff:
		return slices.Clone(o.staff)
	case domain.OrderKindColumn:
		return slices.Clone(o.columns)
	}
	return nil
}

// Reorder 把 movedID 从原位置取出，插入到 targetID 原来所在的位置
// 两个 ID 都必须已经在列表中，结果始终是原列表的一个排列
func (o *Ordering) Reorder(kind domain.OrderKind, movedID, targetID string) error {
	list, err := o.list(kind)
	if err != nil {
		return err
	}

	reordered, err := reorder(*list, movedID, targetID)
	if err != nil {
		return err
	}
	*list = reordered
	return nil
}

// Restore 应用之前保存的顺序：丢弃已经不存在的 ID，新出现的 ID 按原有顺序追加到末尾
func (o *Ordering) Restore(kind domain.OrderKind, saved []string) ([]string, error) {
	list, err := o.list(kind)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(*list))
	for _, id := range *list {
		known[id] = true
	}

	restored := make([]string, 0, len(*list))
	seen := make(map[string]bool, len(*list))
	for _, id := range saved {
		if known[id] && !seen[id] {
			restored = append(restored, id)
			seen[id] = true
		}
	}
	for _, id := range *list {
		if !seen[id] {
			restored = append(restored, id)
		}
	}

	*list = restored
	return slices.Clone(restored), nil
}

func (o *Ordering) list(kind domain.OrderKind) (*[]string, error) {
	switch kind {
	case domain.OrderKindStaff:
		return &o.staff, nil
	case domain.OrderKindColumn:
		return &o.columns, nil
	}
	return nil, fmt.Errorf("%w: 未知的排序类型 %q", domain.ErrInvalidArgument, kind)
}

func reorder(list []string, movedID, targetID string) ([]string, error) {
	from := slices.Index(list, movedID)
	if from < 0 {
		return nil, fmt.Errorf("%w: %q 不在排序列表中", domain.ErrInvalidArgument, movedID)
	}
	to := slices.Index(list, targetID)
	if to < 0 {
		return nil, fmt.Errorf("%w: %q 不在排序列表中", domain.ErrInvalidArgument, targetID)
	}

	result := slices.Clone(list)
	if from == to {
		return result, nil
	}

	result = slices.Delete(result, from, from+1)
	result = slices.Insert(result, to, movedID)
	return result, nil
}
