package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookdash/internal/domain/book"
)

// UpdateBookUseCase 编辑图书用例(整体替换)
type UpdateBookUseCase struct {
	repo book.Repository
	mutator
}

// NewUpdateBookUseCase 创建编辑图书用例
func NewUpdateBookUseCase(repo book.Repository, snapshot *Snapshot, publisher book.EventPublisher, log *zap.Logger) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		repo:    repo,
		mutator: mutator{snapshot: snapshot, publisher: publisher, log: log},
	}
}

// Execute 执行编辑
func (uc *UpdateBookUseCase) Execute(ctx context.Context, id string, draft book.Draft) (*MutationResponse, error) {
	if id == "" {
		return nil, book.ErrMissingID
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Update(ctx, id, draft)
	if err != nil {
		uc.afterFailure("update", err)
		return &MutationResponse{Notice: failure(MsgUpdateFailed)}, err
	}

	uc.afterSuccess(ctx, "update", book.Event{Type: book.EventUpdated, BookID: id, Title: updated.Title})
	return &MutationResponse{Book: updated, Notice: success(MsgUpdated)}, nil
}
