package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParserFor 测试按文件类型创建解析器
func TestParserFor(t *testing.T) {
	tests := []struct {
		filename string
		expected Parser
	}{
		{"bncc.md", &MarkdownParser{}},
		{"dcrc.markdown", &MarkdownParser{}},
		{"antigo.pdf", &PDFParser{}},
		{"notas.txt", &PlainTextParser{}},
	}

	for _, tt := range tests {
		p, err := ParserFor(tt.filename)
		require.NoError(t, err, "filename: %s", tt.filename)
		assert.IsType(t, tt.expected, p)
	}

	t.Run("unsupported type", func(t *testing.T) {
		_, err := ParserFor("planilha.xlsx")
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})
}

// TestPlainTextParser 测试纯文本解析
func TestPlainTextParser(t *testing.T) {
	p := NewPlainTextParser()

	t.Run("parse reader", func(t *testing.T) {
		text, err := p.ParseReader(strings.NewReader("conteúdo simples"), "notas.txt")
		require.NoError(t, err)
		assert.Equal(t, "conteúdo simples", text)
	})

	t.Run("parse file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notas.txt")
		require.NoError(t, os.WriteFile(path, []byte("linha um\nlinha dois"), 0644))

		text, err := p.Parse(path)
		require.NoError(t, err)
		assert.Equal(t, "linha um\nlinha dois", text)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := p.Parse("/caminho/inexistente.txt")
		assert.Error(t, err)
	})
}

// TestMarkdownParser 测试Markdown解析
func TestMarkdownParser(t *testing.T) {
	p := NewMarkdownParser()

	t.Run("syntax stripped", func(t *testing.T) {
		md := "# Título Principal\n\nParágrafo com **negrito** e *itálico*.\n\n- item um\n- item dois"

		text, err := p.ParseReader(strings.NewReader(md), "doc.md")
		require.NoError(t, err)

		assert.Contains(t, text, "Título Principal")
		assert.Contains(t, text, "negrito")
		assert.Contains(t, text, "item um")
		assert.NotContains(t, text, "**")
		assert.NotContains(t, text, "# ")
	})

	t.Run("parse file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doc.md")
		require.NoError(t, os.WriteFile(path, []byte("## Seção\n\nconteúdo da seção"), 0644))

		text, err := p.Parse(path)
		require.NoError(t, err)
		assert.Contains(t, text, "conteúdo da seção")
	})
}

// TestPDFParser 测试PDF解析
func TestPDFParser(t *testing.T) {
	// 生成一个简单的PDF文件作为测试夹具
	path := filepath.Join(t.TempDir(), "fixture.pdf")
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(40, 10, "Documento de referencia curricular")
	require.NoError(t, pdf.OutputFileAndClose(path))

	p := NewPDFParser()

	t.Run("parse file", func(t *testing.T) {
		text, err := p.Parse(path)
		require.NoError(t, err)
		assert.NotEmpty(t, text)
	})

	t.Run("parse reader", func(t *testing.T) {
		file, err := os.Open(path)
		require.NoError(t, err)
		defer file.Close()

		text, err := p.ParseReader(file, "fixture.pdf")
		require.NoError(t, err)
		assert.NotEmpty(t, text)
	})

	t.Run("invalid pdf", func(t *testing.T) {
		_, err := p.ParseReader(strings.NewReader("isto não é um pdf"), "fake.pdf")
		assert.Error(t, err)
	})
}
