package domain

import (
	"time"
)

type Role string

const (
	RoleOperator Role = "排班员"
	RoleAdmin    Role = "管理员"
)

// User 是登录后台的办公人员，修改排班时作为 actor 记录
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
