package model

import (
	"github.com/fyerfyer/edu-assess-rag/internal/retriever"
)

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`               // 响应状态码，0表示成功
	Message string      `json:"message"`            // 响应消息
	Data    interface{} `json:"data,omitempty"`     // 响应数据，可能为空
	TraceID string      `json:"trace_id,omitempty"` // 调用链追踪ID
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) *Response {
	return &Response{
		Code:    code,
		Message: message,
	}
}

// RetrievalResultInfo 单条检索结果
type RetrievalResultInfo struct {
	Text        string  `json:"text"`         // 命中的文本块
	Score       float64 `json:"score"`        // 相似度分数
	Provenance  string  `json:"provenance"`   // 来源标签：BNCC或DCRC
	ChunkIndex  int     `json:"chunk_index"`  // 块序号
	StartOffset int     `json:"start_offset"` // 块在语料中的起始词偏移
}

// RetrieveResponse 检索响应
type RetrieveResponse struct {
	Query   string                `json:"query"`   // 原始查询
	Count   int                   `json:"count"`   // 结果数量
	Results []RetrievalResultInfo `json:"results"` // 检索结果列表
}

// LoadResponse 语料加载响应
type LoadResponse struct {
	LoadID     string `json:"load_id"`     // 加载批次ID
	ChunkCount int    `json:"chunk_count"` // 产出的块数量
}

// ContextResponse 上下文拼装响应
type ContextResponse struct {
	Query   string `json:"query"`   // 原始查询
	Context string `json:"context"` // 拼装后的上下文文本
}

// TableInfo 数字数据块信息
type TableInfo struct {
	NumericTokens []string `json:"numeric_tokens"` // 命中的数字串
	Excerpt       string   `json:"excerpt"`        // 所在段落摘录
}

// LoadRecordInfo 历史加载记录
type LoadRecordInfo struct {
	LoadID     string `json:"load_id"`     // 加载批次ID
	Source     string `json:"source"`      // 文档来源
	FileName   string `json:"filename"`    // 文件名
	CharCount  int    `json:"char_count"`  // 文本字符数
	ChunkCount int    `json:"chunk_count"` // 块数量
	LoadedAt   string `json:"loaded_at"`   // 加载时间
}

// ConvertToResultInfo 将检索结果转换为响应格式
func ConvertToResultInfo(results []retriever.Result) []RetrievalResultInfo {
	if len(results) == 0 {
		return []RetrievalResultInfo{}
	}

	infos := make([]RetrievalResultInfo, len(results))
	for i, res := range results {
		infos[i] = RetrievalResultInfo{
			Text:        res.Chunk.Text,
			Score:       res.Score,
			Provenance:  string(res.Provenance),
			ChunkIndex:  res.Chunk.Index,
			StartOffset: res.Chunk.StartOffset,
		}
	}
	return infos
}
