package corpus

import (
	"strings"
)

// Chunk 语料分块
// 检索和索引的基本单位，构建后不可修改
type Chunk struct {
	Index       int    // 块序号，严格递增且连续
	Text        string // 块文本内容
	StartOffset int    // 在语料中的起始词偏移
}

// ChunkerConfig 分块器配置
type ChunkerConfig struct {
	ChunkSize    int // 每块的目标词数
	ChunkOverlap int // 相邻块的重叠词数
}

// DefaultChunkerConfig 返回默认分块器配置
func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{
		ChunkSize:    1000,
		ChunkOverlap: 200,
	}
}

// SplitChunks 将语料按词窗口分块
// 按空白分词，每隔 ChunkSize-ChunkOverlap 个词切出一个最多 ChunkSize 词的窗口
// 空白语料返回空列表，不报错
func SplitChunks(text string, cfg ChunkerConfig) []Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []Chunk{}
	}

	// 重叠大于等于块大小时步长会归零甚至为负，强制最小步长为1
	stride := cfg.ChunkSize - cfg.ChunkOverlap
	if stride < 1 {
		stride = 1
	}

	var chunks []Chunk
	for i := 0; i < len(words); i += stride {
		end := i + cfg.ChunkSize
		if end > len(words) {
			end = len(words)
		}

		chunkText := strings.Join(words[i:end], " ")
		if strings.TrimSpace(chunkText) == "" {
			continue
		}

		chunks = append(chunks, Chunk{
			Index:       len(chunks),
			Text:        chunkText,
			StartOffset: i,
		})
	}

	return chunks
}
