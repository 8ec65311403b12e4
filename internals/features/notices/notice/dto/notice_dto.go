package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"poolbooking_backend/internals/features/notices/notice/model"
)

type PublishNoticeRequest struct {
	Title     string   `json:"title" validate:"required,min=3,max=200"`
	Content   string   `json:"content" validate:"required,max=10000"`
	Languages []string `json:"languages" validate:"required,min=1,max=10,dive,required,min=2,max=10"`
	Type      string   `json:"type" validate:"required,oneof=Rules Emergency Competition General Coach"`
}

// Normalize trims text, lowercases language tags and drops duplicates.
func (r *PublishNoticeRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	r.Type = strings.TrimSpace(r.Type)

	seen := make(map[string]struct{}, len(r.Languages))
	langs := make([]string, 0, len(r.Languages))
	for _, l := range r.Languages {
		l = strings.ToLower(strings.TrimSpace(l))
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		langs = append(langs, l)
	}
	r.Languages = langs
}

type NoticeResponse struct {
	ID         uuid.UUID         `json:"id"`
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Languages  []string          `json:"languages"`
	Type       model.NoticeType  `json:"type"`
	State      model.NoticeState `json:"state"`
	AuthorID   uuid.UUID         `json:"author_id"`
	AuthorName string            `json:"author_name"`
	AuthorRole string            `json:"author_role"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func FromModel(m *model.NoticeModel) *NoticeResponse {
	if m == nil {
		return nil
	}
	langs := []string(m.NoticeLanguages)
	if langs == nil {
		langs = []string{}
	}
	return &NoticeResponse{
		ID:         m.NoticeID,
		Title:      m.NoticeTitle,
		Content:    m.NoticeContent,
		Languages:  langs,
		Type:       m.NoticeType,
		State:      m.NoticeState,
		AuthorID:   m.NoticeAuthorID,
		AuthorName: m.NoticeAuthorName,
		AuthorRole: m.NoticeAuthorRole,
		CreatedAt:  m.NoticeCreatedAt,
		UpdatedAt:  m.NoticeUpdatedAt,
	}
}

func FromModelList(list []model.NoticeModel) []NoticeResponse {
	out := make([]NoticeResponse, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
