package board

import (
	"cloud.google.com/go/civil"
	"github.com/staffing-office/shift-board/backend/internal/domain"
)

// CommentStore 保存每个格子的备注，后写覆盖先写，不保留历史
type CommentStore struct {
	comments map[domain.CellKey]string
}

func NewCommentStore() *CommentStore {
	return &CommentStore{comments: make(map[domain.CellKey]string)}
}

func (s *CommentStore) Get(staffID string, date civil.Date) string {
	return s.comments[domain.CellKey{StaffID: staffID, Date: date}]
}

// Set 写入备注，空字符串表示删除；返回值表示内容是否发生了变化
func (s *CommentStore) Set(staffID string, date civil.Date, text string) bool {
	key := domain.CellKey{StaffID: staffID, Date: date}
	if s.comments[key] == text {
		return false
	}

	if text == "" {
		delete(s.comments, key)
	} else {
		s.comments[key] = text
	}
	return true
}

func (s *CommentStore) All() []domain.Comment {
	comments := make([]domain.Comment, 0, len(s.comments))
	for key, text := range s.comments {
		comments = append(comments, domain.Comment{StaffID: key.StaffID, Date: key.Date, Text: text})
	}
	return comments
}
