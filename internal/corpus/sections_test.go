package corpus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractSections 测试主题片段提取
func TestExtractSections(t *testing.T) {
	t.Run("matched topics present", func(t *testing.T) {
		text := "A metodologia adotada segue o procedimento padrão. " +
			"As habilidades e competências são descritas por componente."

		sections := ExtractSections(text)

		require.Contains(t, sections, Topic("metodologia"))
		require.Contains(t, sections, Topic("habilidades"))
		require.Contains(t, sections, Topic("componentes"))

		// 命中词应该出现在截取的窗口内
		assert.Contains(t, strings.ToLower(sections["metodologia"][0]), "metodologia")
	})

	t.Run("absent topics omitted", func(t *testing.T) {
		sections := ExtractSections("texto neutro sem palavras de interesse")
		assert.NotContains(t, sections, Topic("graficos"))
		assert.NotContains(t, sections, Topic("proficiencia"))
	})

	t.Run("case insensitive matching", func(t *testing.T) {
		sections := ExtractSections("A METODOLOGIA aplicada")
		assert.Contains(t, sections, Topic("metodologia"))
	})

	t.Run("multiple hits collected separately", func(t *testing.T) {
		pad := strings.Repeat("x ", 600)
		text := "metodologia inicial " + pad + " metodologia final"

		sections := ExtractSections(text)
		require.Contains(t, sections, Topic("metodologia"))
		assert.Len(t, sections["metodologia"], 2, "每次命中都应该产出独立的片段")
	})

	t.Run("window clipped at text bounds", func(t *testing.T) {
		text := "indicador"
		sections := ExtractSections(text)
		require.Contains(t, sections, Topic("indicadores"))
		assert.Equal(t, text, sections["indicadores"][0])
	})

	t.Run("window boundaries are valid utf8", func(t *testing.T) {
		// 命中点前后填充多字节字符，窗口截断不应该切出非法文本
		pad := strings.Repeat("ção", 300)
		text := pad + " proficiência " + pad

		sections := ExtractSections(text)
		require.Contains(t, sections, Topic("proficiencia"))
		for _, excerpt := range sections["proficiencia"] {
			assert.True(t, strings.ToValidUTF8(excerpt, "") == excerpt, "片段应该是合法的UTF-8文本")
		}
	})

	t.Run("empty corpus", func(t *testing.T) {
		sections := ExtractSections(Combine("", ""))
		assert.Empty(t, sections)
	})
}
