package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/edu-assess-rag/api/handler"
	"github.com/fyerfyer/edu-assess-rag/api/middleware"
	"github.com/fyerfyer/edu-assess-rag/internal/cache"
	"github.com/fyerfyer/edu-assess-rag/internal/services"
	"github.com/fyerfyer/edu-assess-rag/pkg/storage"
)

const testDCRC = `Documento Curricular Referencial do Ceará.
As competências específicas e as descrições das habilidades orientam
a relação entre componentes. A metodologia considera a proficiência.
---
Níveis: 250 275 300`

const testBNCC = `Base Nacional Comum Curricular.
As competências gerais fundamentam os objetivos de aprendizagem.
A participação dos estudantes é um indicador acompanhado.`

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	middleware.GetLogger().SetLevel(logrus.ErrorLevel)

	store, err := storage.NewLocalStorage(storage.LocalConfig{Path: t.TempDir()})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = store.Store(ctx, "dcrc.md", strings.NewReader(testDCRC))
	require.NoError(t, err)
	_, err = store.Store(ctx, "bncc.md", strings.NewReader(testBNCC))
	require.NoError(t, err)

	c, err := cache.NewMemoryCache(cache.DefaultConfig())
	require.NoError(t, err)

	engine := services.NewRetrievalEngine(store, c, middleware.GetLogger(),
		services.WithCacheTTL(time.Minute))

	return SetupRouter(handler.NewRetrievalHandler(engine, nil))
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// TestHealthEndpoint 测试健康检查
func TestHealthEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

// TestCorpusLifecycle 测试语料加载和状态查询
func TestCorpusLifecycle(t *testing.T) {
	router := setupTestRouter(t)

	t.Run("status before load", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/corpus/status", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		data := resp["data"].(map[string]interface{})
		assert.False(t, data["loaded"].(bool))
	})

	t.Run("load corpus", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/corpus/load", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		data := resp["data"].(map[string]interface{})
		assert.NotEmpty(t, data["load_id"])
		assert.Greater(t, data["chunk_count"].(float64), 0.0)
	})

	t.Run("status after load", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/corpus/status", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		data := resp["data"].(map[string]interface{})
		assert.True(t, data["loaded"].(bool))
	})

	t.Run("trace id header set", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/corpus/status", nil)
		assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
	})
}

// TestRetrieveEndpoint 测试检索接口
func TestRetrieveEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	t.Run("retrieve before load returns empty", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/retrieve",
			map[string]interface{}{"query": "habilidades"})
		require.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		data := resp["data"].(map[string]interface{})
		assert.Equal(t, 0.0, data["count"].(float64))
	})

	require.Equal(t, http.StatusOK,
		doRequest(router, http.MethodPost, "/api/corpus/load", nil).Code)

	t.Run("retrieve after load", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/retrieve",
			map[string]interface{}{"query": "Quais habilidades estão descritas?", "top_k": 5})
		require.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		data := resp["data"].(map[string]interface{})
		require.Greater(t, data["count"].(float64), 0.0)

		results := data["results"].([]interface{})
		for _, raw := range results {
			res := raw.(map[string]interface{})
			assert.NotEmpty(t, res["text"])
			assert.Contains(t, []string{"BNCC", "DCRC"}, res["provenance"])
		}
	})

	t.Run("missing query rejected", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/retrieve", map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestSectionsAndTablesEndpoints 测试主题片段和数字数据块接口
func TestSectionsAndTablesEndpoints(t *testing.T) {
	router := setupTestRouter(t)
	require.Equal(t, http.StatusOK,
		doRequest(router, http.MethodPost, "/api/corpus/load", nil).Code)

	t.Run("all sections", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/sections", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		data := resp["data"].(map[string]interface{})
		assert.NotEmpty(t, data)
	})

	t.Run("single topic", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/sections?topic=metodologia", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		data := resp["data"].(map[string]interface{})
		assert.Equal(t, "metodologia", data["topic"])
		assert.NotEmpty(t, data["excerpts"])
	})

	t.Run("unknown topic", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/sections?topic=desconhecido", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("tables", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/tables", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		data := resp["data"].(map[string]interface{})
		assert.Greater(t, data["count"].(float64), 0.0)
	})
}

// TestContextEndpoint 测试上下文拼装接口
func TestContextEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	require.Equal(t, http.StatusOK,
		doRequest(router, http.MethodPost, "/api/corpus/load", nil).Code)

	w := doRequest(router, http.MethodPost, "/api/context",
		map[string]interface{}{"query": "competências e habilidades"})
	require.Equal(t, http.StatusOK, w.Code)

	resp := parseResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["context"])
}
