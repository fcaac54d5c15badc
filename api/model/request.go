package model

// RetrieveRequest 检索请求
type RetrieveRequest struct {
	Query string `json:"query" binding:"required"` // 查询文本
	TopK  int    `json:"top_k"`                    // 返回结果数，0表示使用默认值
}

// ContextRequest 上下文拼装请求
type ContextRequest struct {
	Query string `json:"query" binding:"required"` // 查询文本
}
