package api

import (
	"github.com/gin-gonic/gin"

	"github.com/fyerfyer/edu-assess-rag/api/handler"
	"github.com/fyerfyer/edu-assess-rag/api/middleware"
)

// SetupRouter 设置API路由
// 配置所有的API端点并应用中间件
func SetupRouter(retrievalHandler *handler.RetrievalHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// 应用全局中间件
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorMiddleware())
	router.Use(middleware.SetTraceID())

	// 在调试模式下记录请求体
	if gin.Mode() == gin.DebugMode {
		router.Use(middleware.RequestBodyLog())
	}

	// 创建API分组
	api := router.Group("/api")
	{
		// 语料管理API
		corpusGroup := api.Group("/corpus")
		{
			// 加载语料并重建索引 - POST /api/corpus/load
			corpusGroup.POST("/load", retrievalHandler.LoadCorpus)

			// 获取引擎状态 - GET /api/corpus/status
			corpusGroup.GET("/status", retrievalHandler.GetStatus)

			// 历史加载记录 - GET /api/corpus/loads
			corpusGroup.GET("/loads", retrievalHandler.ListLoads)
		}

		// 检索API - POST /api/retrieve
		api.POST("/retrieve", retrievalHandler.Retrieve)

		// 上下文拼装API - POST /api/context
		api.POST("/context", retrievalHandler.BuildContext)

		// 主题片段API - GET /api/sections
		api.GET("/sections", retrievalHandler.GetSections)

		// 数字数据块API - GET /api/tables
		api.GET("/tables", retrievalHandler.GetTables)

		// 健康检查API
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})
	}

	return router
}

// Cors 跨域资源共享中间件
// 如果需要支持跨域请求，可以启用此中间件
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Trace-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
