package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"poolbooking_backend/internals/apperrors"
	"poolbooking_backend/internals/features/notices/notice/dto"
	"poolbooking_backend/internals/features/notices/notice/model"
	userService "poolbooking_backend/internals/features/users/user/service"
	helper "poolbooking_backend/internals/helpers"
	"poolbooking_backend/internals/policy"
)

type Board struct {
	db        *gorm.DB
	log       *zap.Logger
	gate      *policy.Gate
	directory *userService.Directory
}

func NewBoard(db *gorm.DB, log *zap.Logger, gate *policy.Gate, directory *userService.Directory) *Board {
	return &Board{db: db, log: log.Named("notice"), gate: gate, directory: directory}
}

// Publish creates an active notice signed with the author's current name
// and role.
func (b *Board) Publish(ctx context.Context, actor policy.Actor, req dto.PublishNoticeRequest) (*model.NoticeModel, error) {
	if err := b.gate.Authorize(ctx, actor, policy.ActionCreate, policy.Notice, nil); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return nil, err
	}
	author, err := b.directory.ResolveAccount(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	n := &model.NoticeModel{
		NoticeTitle:      req.Title,
		NoticeContent:    req.Content,
		NoticeLanguages:  datatypes.JSONSlice[string](req.Languages),
		NoticeType:       model.NoticeType(req.Type),
		NoticeState:      model.NoticeStateActive,
		NoticeAuthorID:   author.ID,
		NoticeAuthorName: author.FullName,
		NoticeAuthorRole: author.Role,
	}
	if err := b.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, apperrors.Internal("failed to publish notice", err)
	}
	b.log.Info("notice published",
		zap.String("notice_id", n.NoticeID.String()),
		zap.String("type", req.Type),
		zap.String("author_id", author.ID.String()),
	)
	return n, nil
}

// ListActive returns active notices newest first. A non-empty language keeps
// only notices tagged with it.
func (b *Board) ListActive(ctx context.Context, language string) ([]model.NoticeModel, error) {
	var rows []model.NoticeModel
	if err := b.db.WithContext(ctx).
		Where("notice_state = ?", model.NoticeStateActive).
		Order("notice_created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Internal("failed to list notices", err)
	}

	language = strings.ToLower(strings.TrimSpace(language))
	out := make([]model.NoticeModel, 0, len(rows))
	for _, n := range rows {
		if language == "" || n.HasLanguage(language) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (b *Board) Deactivate(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.NoticeModel, error) {
	return b.setState(ctx, actor, id, policy.ActionDeactivate, model.NoticeStateInactive)
}

func (b *Board) Reactivate(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.NoticeModel, error) {
	return b.setState(ctx, actor, id, policy.ActionReactivate, model.NoticeStateActive)
}

// setState is allowed for the author and for admins. Setting the state a
// notice already has is a no-op.
func (b *Board) setState(ctx context.Context, actor policy.Actor, id uuid.UUID, action policy.Action, state model.NoticeState) (*model.NoticeModel, error) {
	var n model.NoticeModel
	err := b.db.WithContext(ctx).Where("notice_id = ?", id).Take(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("notice %s not found", id)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load notice", err)
	}
	if err := b.gate.Authorize(ctx, actor, action, policy.Notice, n); err != nil {
		return nil, err
	}
	if n.NoticeState == state {
		return &n, nil
	}

	if err := b.db.WithContext(ctx).Model(&n).Update("notice_state", state).Error; err != nil {
		return nil, apperrors.Internal("failed to update notice", err)
	}
	n.NoticeState = state
	b.log.Info("notice state changed",
		zap.String("notice_id", id.String()),
		zap.String("state", string(state)),
		zap.String("by", actor.ID.String()),
	)
	return &n, nil
}
