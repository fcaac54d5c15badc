package corpus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSplitChunks 测试语料分块功能
func TestSplitChunks(t *testing.T) {
	t.Run("basic chunking", func(t *testing.T) {
		words := make([]string, 2500)
		for i := range words {
			words[i] = "palavra"
		}
		text := strings.Join(words, " ")

		chunks := SplitChunks(text, DefaultChunkerConfig())
		require.NotEmpty(t, chunks)

		t.Logf("块数量: %d", len(chunks))

		// 默认配置下步长为800词
		for i, chunk := range chunks {
			assert.Equal(t, i, chunk.Index, "块序号应该连续递增")
			assert.Equal(t, i*800, chunk.StartOffset, "起始偏移应该按步长递进")

			wordCount := len(strings.Fields(chunk.Text))
			assert.LessOrEqual(t, wordCount, 1000, "单块词数不应超过配置上限")
		}
	})

	t.Run("overlap between chunks", func(t *testing.T) {
		words := make([]string, 1500)
		for i := range words {
			words[i] = "w" + strings.Repeat("x", i%7)
		}
		text := strings.Join(words, " ")

		chunks := SplitChunks(text, ChunkerConfig{ChunkSize: 1000, ChunkOverlap: 200})
		require.GreaterOrEqual(t, len(chunks), 2)

		// 第二块从第800词开始，前200词与第一块末尾重叠
		first := strings.Fields(chunks[0].Text)
		second := strings.Fields(chunks[1].Text)
		assert.Equal(t, first[800:1000], second[0:200], "相邻块应该有重叠区")
	})

	t.Run("text smaller than chunk size", func(t *testing.T) {
		chunks := SplitChunks("um dois três quatro", DefaultChunkerConfig())
		require.Len(t, chunks, 1)
		assert.Equal(t, "um dois três quatro", chunks[0].Text)
		assert.Equal(t, 0, chunks[0].StartOffset)
	})

	t.Run("empty and whitespace text", func(t *testing.T) {
		assert.Empty(t, SplitChunks("", DefaultChunkerConfig()))
		assert.Empty(t, SplitChunks("   \n\t  ", DefaultChunkerConfig()))
	})

	t.Run("overlap not smaller than chunk size", func(t *testing.T) {
		// 重叠大于等于块大小时步长强制为1，不应该死循环
		chunks := SplitChunks("a b c d e", ChunkerConfig{ChunkSize: 2, ChunkOverlap: 5})
		require.NotEmpty(t, chunks)

		for i := 1; i < len(chunks); i++ {
			assert.Equal(t, chunks[i-1].StartOffset+1, chunks[i].StartOffset, "步长应该为1")
		}
	})

	t.Run("whitespace collapsed inside chunks", func(t *testing.T) {
		chunks := SplitChunks("um\n\ndois\t\ttrês", DefaultChunkerConfig())
		require.Len(t, chunks, 1)
		assert.Equal(t, "um dois três", chunks[0].Text, "块内词语应该以单个空格连接")
	})
}
