package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookdash/internal/domain/book"
	"github.com/xiebiao/bookdash/pkg/metrics"
)

// MutationResponse 增删改的结果
// 失败时Notice为失败提示,同时返回error
type MutationResponse struct {
	Book   *book.Book `json:"book,omitempty"`
	Notice Notice     `json:"notice"`
}

// mutator 增删改用例共用的收尾逻辑
type mutator struct {
	snapshot  *Snapshot
	publisher book.EventPublisher
	log       *zap.Logger
}

// afterSuccess 重新拉取集合并发布事件
// 两步都只记日志:远端已经写成功,不能再向用户报告失败
func (m mutator) afterSuccess(ctx context.Context, operation string, event book.Event) {
	metrics.IncCounterVec(metrics.BookMutationsTotal, map[string]string{"operation": operation, "result": metrics.ResultSuccess})

	if _, err := m.snapshot.Refresh(ctx); err != nil {
		m.log.Warn("写入后重新拉取图书集合失败", zap.String("operation", operation), zap.Error(err))
	}

	if err := m.publisher.Publish(ctx, event); err != nil {
		m.log.Warn("发布图书事件失败",
			zap.String("type", string(event.Type)),
			zap.String("book_id", event.BookID),
			zap.Error(err))
	}
}

func (m mutator) afterFailure(operation string, err error) {
	metrics.IncCounterVec(metrics.BookMutationsTotal, map[string]string{"operation": operation, "result": metrics.ResultFailure})
	m.log.Warn("图书写入失败", zap.String("operation", operation), zap.Error(err))
}
