//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 修改Provider后重新生成: wire gen ./cmd/bookdash
//
// 依赖链:
// *gin.Engine → Handler → UseCase → Snapshot → book.Repository → *remote.Client → *config.Config
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookdash/internal/application/book"
	"github.com/xiebiao/bookdash/internal/infrastructure/config"
	"github.com/xiebiao/bookdash/internal/infrastructure/remote"
	"github.com/xiebiao/bookdash/internal/interface/http/handler"
	"github.com/xiebiao/bookdash/internal/interface/http/router"
)

// ========================================
// Provider Sets
// ========================================

// infrastructureSet 基础设施层依赖
// 包含：远端图书集合、缓存和会话存储、事件发布
var infrastructureSet = wire.NewSet(
	remote.NewClientFromConfig, // 远端HTTP客户端（可选熔断器）
	remote.NewBookRepository,   // 图书仓储
	provideRedisClient,         // cache.driver=redis时的连接
	provideSnapshotCache,       // 集合快照缓存
	provideSessionStore,        // 视图状态存储
	provideEventPublisher,      // RabbitMQ或空实现
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewSnapshot,
	provideListBooksUseCase,
	appbook.NewAddBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
)

// dashboardSet 仪表盘视图状态
var dashboardSet = wire.NewSet(
	provideCoordinator,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewDashboardHandler,
)

// ========================================
// Injectors
// ========================================

// InitializeServer 组装HTTP服务
// cleanup关闭Redis连接和消息发布者
func InitializeServer(cfg *config.Config, log *zap.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		applicationSet,
		dashboardSet,
		middlewareSet,
		handlerSet,
		router.New,
	)
	return nil, nil, nil
}

// InitializeBooks 组装CLI用例，不创建HTTP层
func InitializeBooks(cfg *config.Config, log *zap.Logger) (*Books, func(), error) {
	wire.Build(
		remote.NewClientFromConfig,
		remote.NewBookRepository,
		provideRedisClient,
		provideSnapshotCache,
		provideEventPublisher,
		applicationSet,
		wire.Struct(new(Books), "*"),
	)
	return nil, nil, nil
}
