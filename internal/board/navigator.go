package board

import (
	"cloud.google.com/go/civil"
	"github.com/staffing-office/shift-board/backend/internal/domain"
)

// Focus 通知展示层滚动到某个格子并短暂高亮
type Focus struct {
	StaffID string     `json:"staffID"`
	Date    civil.Date `json:"date"`
}

// UnassignedSource 按当前员工显示顺序给出某天某角色下未分配地点的班次
type UnassignedSource interface {
	UnassignedShifts(date civil.Date, role string) []domain.Shift
}

type navKey struct {
	date civil.Date
	role string
}

// Navigator 在同一个 (date, role) 徽标上重复点击时，依次轮流定位每一个未分配的班次
type Navigator struct {
	source       UnassignedSource
	lastKey      *navKey
	currentIndex int
}

func NewNavigator(source UnassignedSource) *Navigator {
	return &Navigator{source: source}
}

// Click 处理一次徽标点击；列表为空时不改变状态，ok 返回 false
func (n *Navigator) Click(date civil.Date, role string) (focus Focus, ok bool) {
	list := n.source.UnassignedShifts(date, role)
	if len(list) == 0 {
		return Focus{}, false
	}

	key := navKey{date: date, role: role}
	if n.lastKey != nil && *n.lastKey == key {
		n.currentIndex = (n.currentIndex + 1) % len(list)
	} else {
		n.currentIndex = 0
		n.lastKey = &key
	}

	target := list[n.currentIndex]
	return Focus{StaffID: target.StaffID, Date: date}, true
}
