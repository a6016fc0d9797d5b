package domain

import "cloud.google.com/go/civil"

type Comment struct {
	StaffID string     `json:"staffID"`
	Date    civil.Date `json:"date"`
	Text    string     `json:"text"`
}

// CaseCount 是宿主提供的某一天的案件数
type CaseCount struct {
	Date  civil.Date `json:"date"`
	Count int        `json:"count"`
}
