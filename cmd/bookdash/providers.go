package main

import (
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookdash/internal/application/book"
	"github.com/xiebiao/bookdash/internal/application/dashboard"
	"github.com/xiebiao/bookdash/internal/domain/book"
	"github.com/xiebiao/bookdash/internal/domain/listing"
	"github.com/xiebiao/bookdash/internal/infrastructure/config"
	"github.com/xiebiao/bookdash/internal/infrastructure/events"
	"github.com/xiebiao/bookdash/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookdash/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookdash/internal/interface/http/middleware"
	"github.com/xiebiao/bookdash/pkg/jwt"
	"github.com/xiebiao/bookdash/pkg/mq"
)

// Books CLI子命令用到的用例
type Books struct {
	List   *appbook.ListBooksUseCase
	Add    *appbook.AddBookUseCase
	Update *appbook.UpdateBookUseCase
	Delete *appbook.DeleteBookUseCase
}

// ========================================
// Custom Providers
// ========================================
// 构造函数参数需要从Config中提取，或者要按配置选择实现时，写自定义Provider

// provideRedisClient cache.driver=redis时创建连接，memory时返回nil
func provideRedisClient(cfg *config.Config, log *zap.Logger) (*goredis.Client, func(), error) {
	if cfg.Cache.Driver != "redis" {
		return nil, func() {}, nil
	}

	client, err := redis.NewClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() {
		if err := client.Close(); err != nil {
			log.Warn("关闭Redis连接失败", zap.Error(err))
		}
	}, nil
}

// provideSnapshotCache 图书集合快照缓存
func provideSnapshotCache(cfg *config.Config, client *goredis.Client) book.SnapshotCache {
	if client == nil {
		return memory.NewSnapshotCache(cfg.Cache.SnapshotTTL)
	}
	return redis.NewSnapshotCache(client, cfg.Redis.KeyPrefix, cfg.Cache.SnapshotTTL)
}

// provideSessionStore 仪表盘视图状态存储
func provideSessionStore(cfg *config.Config, client *goredis.Client) listing.SessionStore {
	if client == nil {
		return memory.NewSessionStore(cfg.Dashboard.SessionTTL)
	}
	return redis.NewSessionStore(client, cfg.Redis.KeyPrefix, cfg.Dashboard.SessionTTL)
}

// provideEventPublisher mq.enabled时把图书事件发到RabbitMQ
func provideEventPublisher(cfg *config.Config, log *zap.Logger) (book.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return events.NopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, mq.ExchangeTopic, log)
	if err != nil {
		return nil, nil, err
	}
	return events.NewMQPublisher(publisher), func() {
		if err := publisher.Close(); err != nil {
			log.Warn("关闭消息发布者失败", zap.Error(err))
		}
	}, nil
}

func provideListBooksUseCase(cfg *config.Config, snapshot *appbook.Snapshot) *appbook.ListBooksUseCase {
	return appbook.NewListBooksUseCase(snapshot, cfg.Dashboard.PageSize)
}

// provideCoordinator 仪表盘协调器，每页条数和加载提示时长来自配置
func provideCoordinator(
	cfg *config.Config,
	sessions listing.SessionStore,
	snapshot *appbook.Snapshot,
	list *appbook.ListBooksUseCase,
	add *appbook.AddBookUseCase,
	update *appbook.UpdateBookUseCase,
	del *appbook.DeleteBookUseCase,
	log *zap.Logger,
) *dashboard.Coordinator {
	return dashboard.NewCoordinator(sessions, snapshot, list, add, update, del, dashboard.Options{
		PageSize:    cfg.Dashboard.PageSize,
		SettleDelay: cfg.Dashboard.SettleDelay,
	}, log)
}

// provideJWTManager 会话和提示Cookie的签名
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.Dashboard.CookieSecret,
		cfg.Dashboard.SessionTTL,
		cfg.Dashboard.NoticeTTL,
	)
}

func provideSessionMiddleware(cfg *config.Config, jwtManager *jwt.Manager) *middleware.SessionMiddleware {
	return middleware.NewSessionMiddleware(jwtManager, cfg.Dashboard.SecureCookie)
}
