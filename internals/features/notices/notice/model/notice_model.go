package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NoticeType string

const (
	NoticeTypeRules       NoticeType = "Rules"
	NoticeTypeEmergency   NoticeType = "Emergency"
	NoticeTypeCompetition NoticeType = "Competition"
	NoticeTypeGeneral     NoticeType = "General"
	NoticeTypeCoach       NoticeType = "Coach"
)

// NoticeState is a lifecycle tag rather than a flag so more states can be
// added without a migration of meaning.
type NoticeState string

const (
	NoticeStateActive   NoticeState = "active"
	NoticeStateInactive NoticeState = "inactive"
)

// NoticeModel keeps a copy of the author's name and role taken at publish
// time, so it still renders after the account is edited or deleted.
type NoticeModel struct {
	NoticeID        uuid.UUID                   `gorm:"column:notice_id;type:uuid;primaryKey" json:"notice_id"`
	NoticeTitle     string                      `gorm:"column:notice_title;type:varchar(200);not null" json:"notice_title"`
	NoticeContent   string                      `gorm:"column:notice_content;type:text;not null" json:"notice_content"`
	NoticeLanguages datatypes.JSONSlice[string] `gorm:"column:notice_languages" json:"notice_languages"`
	NoticeType      NoticeType                  `gorm:"column:notice_type;type:varchar(20);not null;index" json:"notice_type"`
	NoticeState     NoticeState                 `gorm:"column:notice_state;type:varchar(10);not null;default:'active';index" json:"notice_state"`

	NoticeAuthorID   uuid.UUID `gorm:"column:notice_author_id;type:uuid;not null;index" json:"notice_author_id"`
	NoticeAuthorName string    `gorm:"column:notice_author_name;type:varchar(100);not null" json:"notice_author_name"`
	NoticeAuthorRole string    `gorm:"column:notice_author_role;type:varchar(20);not null" json:"notice_author_role"`

	NoticeCreatedAt time.Time `gorm:"column:notice_created_at;autoCreateTime;index" json:"notice_created_at"`
	NoticeUpdatedAt time.Time `gorm:"column:notice_updated_at;autoUpdateTime" json:"notice_updated_at"`
}

func (NoticeModel) TableName() string { return "notices" }

func (n NoticeModel) OwnerID() uuid.UUID { return n.NoticeAuthorID }

func (n *NoticeModel) BeforeCreate(_ *gorm.DB) error {
	if n.NoticeID == uuid.Nil {
		n.NoticeID = uuid.New()
	}
	if n.NoticeState == "" {
		n.NoticeState = NoticeStateActive
	}
	return nil
}

// HasLanguage reports whether tag is one of the notice's languages.
func (n NoticeModel) HasLanguage(tag string) bool {
	for _, l := range n.NoticeLanguages {
		if l == tag {
			return true
		}
	}
	return false
}
