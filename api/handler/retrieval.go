package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/edu-assess-rag/api/middleware"
	"github.com/fyerfyer/edu-assess-rag/api/model"
	"github.com/fyerfyer/edu-assess-rag/internal/corpus"
	"github.com/fyerfyer/edu-assess-rag/internal/repository"
	"github.com/fyerfyer/edu-assess-rag/internal/services"
)

// RetrievalHandler 检索API处理器
type RetrievalHandler struct {
	engine *services.RetrievalEngine      // 检索引擎
	repo   repository.ReferenceRepository // 加载记录仓储，可为空
	logger *logrus.Logger                 // 日志记录器
}

// NewRetrievalHandler 创建检索处理器实例
func NewRetrievalHandler(engine *services.RetrievalEngine, repo repository.ReferenceRepository) *RetrievalHandler {
	return &RetrievalHandler{
		engine: engine,
		repo:   repo,
		logger: middleware.GetLogger(),
	}
}

// LoadCorpus 加载参考语料并重建索引
// POST /api/corpus/load
func (h *RetrievalHandler) LoadCorpus(c *gin.Context) {
	loadID, err := h.engine.Load(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load reference corpus")
		middleware.HandleError(c, middleware.NewInternalError("failed to load reference corpus", err.Error()))
		return
	}

	status := h.engine.Status()
	c.JSON(http.StatusOK, model.NewSuccessResponse(model.LoadResponse{
		LoadID:     loadID,
		ChunkCount: status.ChunkCount,
	}))
}

// Retrieve 执行检索查询
// POST /api/retrieve
func (h *RetrievalHandler) Retrieve(c *gin.Context) {
	var req model.RetrieveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("invalid request parameters", err.Error()))
		return
	}

	results := h.engine.Search(req.Query, req.TopK)

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.RetrieveResponse{
		Query:   req.Query,
		Count:   len(results),
		Results: model.ConvertToResultInfo(results),
	}))
}

// BuildContext 为查询拼装上下文文本
// POST /api/context
func (h *RetrievalHandler) BuildContext(c *gin.Context) {
	var req model.ContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("invalid request parameters", err.Error()))
		return
	}

	text := h.engine.Context(req.Query)

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.ContextResponse{
		Query:   req.Query,
		Context: text,
	}))
}

// GetSections 获取主题片段
// GET /api/sections?topic=habilidades
func (h *RetrievalHandler) GetSections(c *gin.Context) {
	sections := h.engine.Sections()

	if topic := c.Query("topic"); topic != "" {
		excerpts, ok := sections[corpus.Topic(topic)]
		if !ok {
			middleware.HandleError(c, middleware.NewNotFoundError("topic not found in loaded corpus"))
			return
		}
		c.JSON(http.StatusOK, model.NewSuccessResponse(gin.H{
			"topic":    topic,
			"excerpts": excerpts,
		}))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(sections))
}

// GetTables 获取数字数据块候选
// GET /api/tables
func (h *RetrievalHandler) GetTables(c *gin.Context) {
	tables := h.engine.Tables()

	infos := make([]model.TableInfo, len(tables))
	for i, t := range tables {
		infos[i] = model.TableInfo{
			NumericTokens: t.NumericTokens,
			Excerpt:       t.Excerpt,
		}
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(gin.H{
		"count":  len(infos),
		"tables": infos,
	}))
}

// GetStatus 获取引擎当前状态
// GET /api/corpus/status
func (h *RetrievalHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, model.NewSuccessResponse(h.engine.Status()))
}

// ListLoads 列出历史加载记录
// GET /api/corpus/loads
func (h *RetrievalHandler) ListLoads(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusOK, model.NewSuccessResponse([]model.LoadRecordInfo{}))
		return
	}

	docs, err := h.repo.List(20)
	if err != nil {
		middleware.HandleError(c, middleware.NewInternalError("failed to list load records", err.Error()))
		return
	}

	records := make([]model.LoadRecordInfo, len(docs))
	for i, doc := range docs {
		records[i] = model.LoadRecordInfo{
			LoadID:     doc.LoadID,
			Source:     string(doc.Source),
			FileName:   doc.FileName,
			CharCount:  doc.CharCount,
			ChunkCount: doc.ChunkCount,
			LoadedAt:   doc.LoadedAt.Format("2006-01-02 15:04:05"),
		}
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(records))
}
