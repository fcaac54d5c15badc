package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/fyerfyer/edu-assess-rag/internal/cache"
	"github.com/fyerfyer/edu-assess-rag/internal/corpus"
	"github.com/fyerfyer/edu-assess-rag/internal/document"
	"github.com/fyerfyer/edu-assess-rag/internal/index"
	"github.com/fyerfyer/edu-assess-rag/internal/models"
	"github.com/fyerfyer/edu-assess-rag/internal/repository"
	"github.com/fyerfyer/edu-assess-rag/internal/retriever"
	"github.com/fyerfyer/edu-assess-rag/pkg/storage"
)

// snapshot 一次语料加载产出的全部只读状态
// 加载成功后整体原子替换，检索端在任何时刻看到的块、索引和摘要都来自同一批次
type snapshot struct {
	loadID    string
	chunks    []corpus.Chunk
	index     *index.Index
	sections  map[corpus.Topic][]string
	tables    []corpus.TableCandidate
	dcrcChars int
	bnccChars int
	loadedAt  time.Time
}

// Status 引擎当前状态
type Status struct {
	Loaded         bool      `json:"loaded"`
	LoadID         string    `json:"load_id,omitempty"`
	ChunkCount     int       `json:"chunk_count"`
	VocabularySize int       `json:"vocabulary_size"`
	SectionTopics  int       `json:"section_topics"`
	TableCount     int       `json:"table_count"`
	DCRCChars      int       `json:"dcrc_chars"`
	BNCCChars      int       `json:"bncc_chars"`
	LoadedAt       time.Time `json:"loaded_at,omitempty"`
}

// RetrievalEngine 参考语料检索引擎
// 负责协调语料加载、索引构建和多阶段检索
// 未加载语料时检索返回空结果而不是错误
type RetrievalEngine struct {
	storage   storage.Storage                // 语料文件存储
	cache     cache.Cache                    // 查询结果缓存
	repo      repository.ReferenceRepository // 加载记录仓储，可为空
	retriever *retriever.Retriever           // 多阶段检索器
	logger    *logrus.Logger                 // 日志记录器

	chunkCfg        corpus.ChunkerConfig // 分块配置
	indexCfg        index.Config         // 索引配置
	topK            int                  // 默认返回结果数
	cacheTTL        time.Duration        // 缓存有效期
	maxContextChars int                  // 上下文拼装的长度上限
	dcrcFile        string               // DCRC语料文件名
	bnccFile        string               // BNCC语料文件名

	state atomic.Pointer[snapshot] // 当前语料快照
}

// EngineOption 检索引擎配置选项
type EngineOption func(*RetrievalEngine)

// NewRetrievalEngine 创建检索引擎实例
func NewRetrievalEngine(store storage.Storage, c cache.Cache, logger *logrus.Logger, opts ...EngineOption) *RetrievalEngine {
	if logger == nil {
		logger = logrus.New()
	}

	engine := &RetrievalEngine{
		storage:         store,
		cache:           c,
		retriever:       retriever.New(logger),
		logger:          logger,
		chunkCfg:        corpus.DefaultChunkerConfig(),
		indexCfg:        index.DefaultConfig(),
		topK:            retriever.DefaultTopK,
		cacheTTL:        time.Hour,
		maxContextChars: 8000,
		dcrcFile:        "dcrc.md",
		bnccFile:        "bncc.md",
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// WithChunkerConfig 设置分块配置
func WithChunkerConfig(cfg corpus.ChunkerConfig) EngineOption {
	return func(e *RetrievalEngine) {
		e.chunkCfg = cfg
	}
}

// WithIndexConfig 设置索引配置
func WithIndexConfig(cfg index.Config) EngineOption {
	return func(e *RetrievalEngine) {
		e.indexCfg = cfg
	}
}

// WithTopK 设置默认返回结果数
func WithTopK(topK int) EngineOption {
	return func(e *RetrievalEngine) {
		if topK > 0 {
			e.topK = topK
		}
	}
}

// WithCacheTTL 设置缓存时间
func WithCacheTTL(ttl time.Duration) EngineOption {
	return func(e *RetrievalEngine) {
		e.cacheTTL = ttl
	}
}

// WithMaxContextChars 设置上下文拼装的长度上限
func WithMaxContextChars(max int) EngineOption {
	return func(e *RetrievalEngine) {
		if max > 0 {
			e.maxContextChars = max
		}
	}
}

// WithCorpusFiles 设置两份参考文档的文件名
func WithCorpusFiles(dcrcFile, bnccFile string) EngineOption {
	return func(e *RetrievalEngine) {
		if dcrcFile != "" {
			e.dcrcFile = dcrcFile
		}
		if bnccFile != "" {
			e.bnccFile = bnccFile
		}
	}
}

// WithRepository 设置加载记录仓储
func WithRepository(repo repository.ReferenceRepository) EngineOption {
	return func(e *RetrievalEngine) {
		e.repo = repo
	}
}

// Load 加载两份参考文档并重建索引
// 成功后原子替换当前快照，失败时旧快照保持可用
// 返回本次加载的批次ID
func (e *RetrievalEngine) Load(ctx context.Context) (string, error) {
	startTime := time.Now()

	dcrcText, err := e.corpusText(ctx, e.dcrcFile)
	if err != nil {
		return "", fmt.Errorf("failed to load DCRC corpus: %w", err)
	}

	bnccText, err := e.corpusText(ctx, e.bnccFile)
	if err != nil {
		return "", fmt.Errorf("failed to load BNCC corpus: %w", err)
	}

	combined := corpus.Combine(dcrcText, bnccText)
	chunks := corpus.SplitChunks(combined, e.chunkCfg)
	idx := index.Build(chunks, e.indexCfg)
	sections := corpus.ExtractSections(combined)
	tables := corpus.ExtractTables(combined)

	snap := &snapshot{
		loadID:    uuid.New().String(),
		chunks:    chunks,
		index:     idx,
		sections:  sections,
		tables:    tables,
		dcrcChars: len([]rune(dcrcText)),
		bnccChars: len([]rune(bnccText)),
		loadedAt:  time.Now(),
	}
	e.state.Store(snap)

	e.recordLoad(snap, dcrcText, bnccText)

	e.logger.WithFields(logrus.Fields{
		"load_id":  snap.loadID,
		"chunks":   len(chunks),
		"sections": len(sections),
		"tables":   len(tables),
		"elapsed":  time.Since(startTime).String(),
	}).Info("Reference corpus loaded")

	return snap.loadID, nil
}

// corpusText 读取并解析单个语料文件
// Markdown和纯文本语料按原文使用，结构分隔符在后续表格定位中有意义
// PDF语料走解析器提取文本
func (e *RetrievalEngine) corpusText(ctx context.Context, name string) (string, error) {
	reader, err := e.storage.Fetch(ctx, name)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	if strings.ToLower(filepath.Ext(name)) == ".pdf" {
		parser, err := document.ParserFor(name)
		if err != nil {
			return "", err
		}
		return parser.ParseReader(reader, name)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read corpus file %s: %v", name, err)
	}
	return string(data), nil
}

// recordLoad 将本次加载写入数据库记录
// 记录失败只告警，不影响加载结果
func (e *RetrievalEngine) recordLoad(snap *snapshot, dcrcText, bnccText string) {
	if e.repo == nil {
		return
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"chunk_size":    e.chunkCfg.ChunkSize,
		"chunk_overlap": e.chunkCfg.ChunkOverlap,
		"max_features":  e.indexCfg.MaxFeatures,
	})

	records := []*models.ReferenceDocument{
		{
			ID:         uuid.New().String(),
			LoadID:     snap.loadID,
			Source:     models.RefSourceDCRC,
			FileName:   e.dcrcFile,
			FileSize:   int64(len(dcrcText)),
			CharCount:  snap.dcrcChars,
			ChunkCount: len(snap.chunks),
			LoadedAt:   snap.loadedAt,
			Metadata:   datatypes.JSON(metadata),
		},
		{
			ID:         uuid.New().String(),
			LoadID:     snap.loadID,
			Source:     models.RefSourceBNCC,
			FileName:   e.bnccFile,
			FileSize:   int64(len(bnccText)),
			CharCount:  snap.bnccChars,
			ChunkCount: len(snap.chunks),
			LoadedAt:   snap.loadedAt,
			Metadata:   datatypes.JSON(metadata),
		},
	}

	for _, record := range records {
		if err := e.repo.Create(record); err != nil {
			e.logger.WithError(err).Warn("Failed to record corpus load")
		}
	}
}

// Search 对当前语料快照执行查询
// 未加载语料时返回空列表；命中缓存时直接返回缓存结果
func (e *RetrievalEngine) Search(query string, topK int) []retriever.Result {
	snap := e.state.Load()
	if snap == nil {
		return []retriever.Result{}
	}
	if topK <= 0 {
		topK = e.topK
	}

	var cacheKey string
	if e.cache != nil {
		cacheKey = cache.RetrievalKey(snap.loadID, query, topK)
		if raw, found, err := e.cache.Get(cacheKey); err == nil && found {
			var results []retriever.Result
			if err := json.Unmarshal([]byte(raw), &results); err == nil {
				return results
			}
			// 缓存内容损坏就当未命中，重新检索
			e.logger.WithField("key", cacheKey).Debug("Discarding unparsable cached result")
		}
	}

	results := e.retriever.Search(snap.index, query, topK)

	if e.cache != nil {
		if raw, err := json.Marshal(results); err == nil {
			if err := e.cache.Set(cacheKey, string(raw), e.cacheTTL); err != nil {
				e.logger.WithError(err).Debug("Failed to cache retrieval result")
			}
		}
	}

	return results
}

// Context 为查询拼装有界的上下文文本
// 检索结果按来源标注拼接，附带语料末尾的数字数据摘要
func (e *RetrievalEngine) Context(query string) string {
	snap := e.state.Load()
	if snap == nil {
		return ""
	}

	var cacheKey string
	if e.cache != nil {
		cacheKey = cache.ContextKey(snap.loadID, query)
		if cached, found, err := e.cache.Get(cacheKey); err == nil && found {
			return cached
		}
	}

	results := e.Search(query, e.topK)
	text := NewContextBuilder(e.maxContextChars).Build(results, snap.sections, snap.tables)

	if e.cache != nil {
		if err := e.cache.Set(cacheKey, text, e.cacheTTL); err != nil {
			e.logger.WithError(err).Debug("Failed to cache assembled context")
		}
	}

	return text
}

// Sections 返回当前快照的主题片段表
// 未加载语料时返回空表
func (e *RetrievalEngine) Sections() map[corpus.Topic][]string {
	snap := e.state.Load()
	if snap == nil {
		return map[corpus.Topic][]string{}
	}
	return snap.sections
}

// Tables 返回当前快照的数字数据块候选
func (e *RetrievalEngine) Tables() []corpus.TableCandidate {
	snap := e.state.Load()
	if snap == nil {
		return []corpus.TableCandidate{}
	}
	return snap.tables
}

// Status 返回引擎当前状态
func (e *RetrievalEngine) Status() Status {
	snap := e.state.Load()
	if snap == nil {
		return Status{Loaded: false}
	}

	vocabSize := 0
	if snap.index != nil {
		vocabSize = snap.index.VocabularySize()
	}

	return Status{
		Loaded:         true,
		LoadID:         snap.loadID,
		ChunkCount:     len(snap.chunks),
		VocabularySize: vocabSize,
		SectionTopics:  len(snap.sections),
		TableCount:     len(snap.tables),
		DCRCChars:      snap.dcrcChars,
		BNCCChars:      snap.bnccChars,
		LoadedAt:       snap.loadedAt,
	}
}

// ClearCache 清除查询结果缓存
func (e *RetrievalEngine) ClearCache() error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Clear()
}
