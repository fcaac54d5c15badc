package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCombine 测试参考文档合并
func TestCombine(t *testing.T) {
	combined := Combine("conteúdo dcrc", "conteúdo bncc")
	assert.Equal(t, "DCRC:\nconteúdo dcrc\n\nBNCC:\nconteúdo bncc", combined)

	t.Run("empty documents keep markers", func(t *testing.T) {
		combined := Combine("", "")
		assert.Equal(t, "DCRC:\n\n\nBNCC:\n", combined)
	})
}

// TestDetectSource 测试来源标记判定
func TestDetectSource(t *testing.T) {
	t.Run("explicit BNCC markers", func(t *testing.T) {
		for _, text := range []string{
			"trecho da BNCC sobre competências",
			"conforme a Base Nacional Comum Curricular",
			"arquivo BNCC_20dez_site página 12",
		} {
			src, ok := DetectSource(text)
			assert.True(t, ok)
			assert.Equal(t, SourceBNCC, src)
		}
	})

	t.Run("explicit DCRC markers", func(t *testing.T) {
		src, ok := DetectSource("trecho do DCRC sobre habilidades")
		assert.True(t, ok)
		assert.Equal(t, SourceDCRC, src)

		src, ok = DetectSource("segundo o Documento Curricular Referencial do Ceará")
		assert.True(t, ok)
		assert.Equal(t, SourceDCRC, src)
	})

	t.Run("lowercase dcrc marker", func(t *testing.T) {
		src, ok := DetectSource("o arquivo dcrc.md contém o texto")
		assert.True(t, ok)
		assert.Equal(t, SourceDCRC, src)
	})

	t.Run("BNCC markers take priority", func(t *testing.T) {
		// 同时出现两类标记时BNCC优先
		src, ok := DetectSource("comparando BNCC e DCRC")
		assert.True(t, ok)
		assert.Equal(t, SourceBNCC, src)
	})

	t.Run("no markers", func(t *testing.T) {
		_, ok := DetectSource("texto sem marcas de origem")
		assert.False(t, ok)
	})
}

// TestSourceByParity 测试按奇偶性分配来源
func TestSourceByParity(t *testing.T) {
	assert.Equal(t, SourceBNCC, SourceByParity(0))
	assert.Equal(t, SourceDCRC, SourceByParity(1))
	assert.Equal(t, SourceBNCC, SourceByParity(2))
	assert.Equal(t, SourceDCRC, SourceByParity(7))
}
