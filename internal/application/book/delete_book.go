package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookdash/internal/domain/book"
)

// DeleteBookUseCase 删除图书用例
type DeleteBookUseCase struct {
	repo book.Repository
	mutator
}

// NewDeleteBookUseCase 创建删除图书用例
func NewDeleteBookUseCase(repo book.Repository, snapshot *Snapshot, publisher book.EventPublisher, log *zap.Logger) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		repo:    repo,
		mutator: mutator{snapshot: snapshot, publisher: publisher, log: log},
	}
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id string) (*MutationResponse, error) {
	if id == "" {
		return nil, book.ErrMissingID
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.afterFailure("delete", err)
		return &MutationResponse{Notice: failure(MsgDeleteFailed)}, err
	}

	uc.afterSuccess(ctx, "delete", book.Event{Type: book.EventDeleted, BookID: id})
	return &MutationResponse{Notice: success(MsgDeleted)}, nil
}
