package domain

import "errors"

var (
	// ErrInvalidArgument 未知的员工、超出当月范围的日期、负数单价、未知的排序 ID
	ErrInvalidArgument = errors.New("参数无效")
	// ErrInvalidTransition 在非出勤状态下设置地点
	ErrInvalidTransition = errors.New("当前状态不允许该操作")
)
