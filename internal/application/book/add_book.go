package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookdash/internal/domain/book"
)

// AddBookUseCase 新增图书用例
type AddBookUseCase struct {
	repo book.Repository
	mutator
}

// NewAddBookUseCase 创建新增图书用例
func NewAddBookUseCase(repo book.Repository, snapshot *Snapshot, publisher book.EventPublisher, log *zap.Logger) *AddBookUseCase {
	return &AddBookUseCase{
		repo:    repo,
		mutator: mutator{snapshot: snapshot, publisher: publisher, log: log},
	}
}

// Execute 执行新增
// 1. 校验必填项(失败不调用远端,也不产生提示)
// 2. POST到远端,ID由远端分配
// 3. 成功: 重新拉取集合,发布book.created
func (uc *AddBookUseCase) Execute(ctx context.Context, draft book.Draft) (*MutationResponse, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.repo.Create(ctx, draft)
	if err != nil {
		uc.afterFailure("add", err)
		return &MutationResponse{Notice: failure(MsgAddFailed)}, err
	}

	uc.afterSuccess(ctx, "add", book.Event{Type: book.EventCreated, BookID: created.ID, Title: created.Title})
	return &MutationResponse{Book: created, Notice: success(MsgAdded)}, nil
}
