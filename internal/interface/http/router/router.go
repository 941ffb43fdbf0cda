// Package router 组装gin引擎:全局中间件、HTML仪表盘、JSON API、运维端点
package router

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/bookdash/docs" // swag生成的API文档
	"github.com/xiebiao/bookdash/internal/infrastructure/config"
	"github.com/xiebiao/bookdash/internal/interface/http/handler"
	"github.com/xiebiao/bookdash/internal/interface/http/middleware"
	"github.com/xiebiao/bookdash/internal/interface/http/view"
	"github.com/xiebiao/bookdash/pkg/response"
)

// New 创建并配置Gin引擎
// 中间件顺序:Recovery → Tracing → Logger → Metrics → 路由 → Session(仅仪表盘) → Handler
func New(
	cfg *config.Config,
	log *zap.Logger,
	bookHandler *handler.BookHandler,
	dashboardHandler *handler.DashboardHandler,
	sessions *middleware.SessionMiddleware,
) (*gin.Engine, error) {
	// 1. 运行模式
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode, gin.DebugMode:
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(log),
		middleware.Tracing(),
		middleware.Logger(log),
		middleware.Metrics(),
	)

	// 2. 模板
	tmpl, err := view.Templates()
	if err != nil {
		return nil, fmt.Errorf("解析页面模板失败: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// 3. 路由
	registerRoutes(r, cfg, bookHandler, dashboardHandler, sessions)
	return r, nil
}

// registerRoutes 注册所有路由
func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	bookHandler *handler.BookHandler,
	dashboardHandler *handler.DashboardHandler,
	sessions *middleware.SessionMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档 http://localhost:8080/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// JSON API
	api := r.Group("/api")
	if cfg.CORS.Enabled {
		api.Use(cors.New(corsConfig(cfg.CORS)))
	}
	v1 := api.Group("/v1")
	{
		books := v1.Group("/books")
		{
			books.GET("", bookHandler.ListBooks)
			books.POST("", bookHandler.AddBook)
			books.PUT("/:id", bookHandler.UpdateBook)
			books.DELETE("/:id", bookHandler.DeleteBook)
		}
	}

	// HTML仪表盘(需要会话)
	dash := r.Group("")
	dash.Use(sessions.RequireSession())
	{
		dash.GET("/", dashboardHandler.Index)
		dash.POST("/search", dashboardHandler.Search)
		dash.POST("/filter", dashboardHandler.Filter)
		dash.GET("/page/:n", dashboardHandler.GoToPage)

		dash.GET("/books/new", dashboardHandler.NewBook)
		dash.GET("/books/:id/edit", dashboardHandler.EditBook)
		dash.POST("/form/close", dashboardHandler.CloseForm)
		dash.POST("/books", dashboardHandler.SubmitForm)

		dash.GET("/books/:id/delete", dashboardHandler.RequestDelete)
		dash.POST("/delete/cancel", dashboardHandler.CancelDelete)
		dash.POST("/delete/confirm", dashboardHandler.ConfirmDelete)
	}
}

// corsConfig "*"或未配置表示允许所有来源
func corsConfig(c config.CORSConfig) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
	}
	if len(c.AllowOrigins) == 0 {
		cc.AllowAllOrigins = true
		return cc
	}
	for _, origin := range c.AllowOrigins {
		if origin == "*" {
			cc.AllowAllOrigins = true
			return cc
		}
	}
	cc.AllowOrigins = c.AllowOrigins
	return cc
}
