package router

import (
	"bytes"
	"context"
	"iter"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/safedocs/backend/internal/application/safe"
	"github.com/safedocs/backend/internal/domain/investment"
	"github.com/safedocs/backend/internal/infrastructure/printing"
	"github.com/safedocs/backend/internal/interfaces/http/handler"
	"github.com/safedocs/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup_AppliesAPIMiddleware(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine).Use(func(c *gin.Context) {
		c.Header("X-API", "1")
		c.Next()
	})

	g := NewDomainGroup("test", "/test")
	g.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.Register(g).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, "1", w.Header().Get("X-API"))
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("investments", "/investments")
		assert.Equal(t, "investments", g.Name())
		assert.Equal(t, "/investments", g.Prefix())
	})

	t.Run("methods", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.GET("/r", func(c *gin.Context) { c.String(http.StatusOK, "get") }).
			POST("/r", func(c *gin.Context) { c.String(http.StatusCreated, "post") }).
			DELETE("/r", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		for method, want := range map[string]int{
			http.MethodGet:    http.StatusOK,
			http.MethodPost:   http.StatusCreated,
			http.MethodDelete: http.StatusNoContent,
		} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(method, "/api/v1/test/r", nil))
			assert.Equal(t, want, w.Code, method)
		}
	})

	t.Run("middleware and subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("inv", "/investments").Use(func(c *gin.Context) {
			c.Header("X-Group", "inv")
			c.Next()
		})
		g.Group("doc", "/:id/document").GET("", func(c *gin.Context) {
			c.String(http.StatusOK, c.Param("id"))
		})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/investments/abc/document", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "abc", w.Body.String())
		assert.Equal(t, "inv", w.Header().Get("X-Group"))
	})
}

type stubDocuments struct{}

func (stubDocuments) Generate(context.Context, investment.InvestmentTerms) (*investment.RenderedDocument, error) {
	return investment.NewRenderedDocument([]byte("PK"), investment.VariantMFN, "Acme"), nil
}

func (stubDocuments) Summarize(context.Context, string) (string, error) { return "summary", nil }

func (stubDocuments) StreamDealSummary(context.Context, investment.InvestmentTerms) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) { yield("summary", nil) }
}

func (stubDocuments) ConvertToPDF(context.Context, []byte, string) (*printing.RenderResult, error) {
	return &printing.RenderResult{PDFData: []byte("%PDF")}, nil
}

func (stubDocuments) Templates() []safe.TemplateResponse {
	return []safe.TemplateResponse{{Variant: "mfn"}}
}

const testToken = "Bearer let-me-in"

var testUser = uuid.MustParse("8f2e6f8e-5d0b-4b8e-9f3a-0d6b1f2a3c4d")

func fakeAuth(c *gin.Context) {
	if c.GetHeader("Authorization") != testToken {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Set(middleware.JWTUserIDKey, testUser.String())
	c.Next()
}

func newTestEngine(t *testing.T, opts Options) *gin.Engine {
	t.Helper()
	if opts.Auth == nil {
		opts.Auth = fakeAuth
	}
	engine, err := New(Handlers{
		Documents: handler.NewDocumentHandler(stubDocuments{}),
		System:    handler.NewSystemHandler("SAFE Document Service", "test", nil),
	}, opts)
	require.NoError(t, err)
	return engine
}

func TestNew_RequiresAuth(t *testing.T) {
	_, err := New(Handlers{}, Options{})
	assert.Error(t, err)
}

func TestNew_Routes(t *testing.T) {
	engine := newTestEngine(t, Options{
		CORS:     middleware.DefaultCORSConfig(),
		Security: middleware.DefaultSecurityConfig(),
	})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		auth   bool
		want   int
	}{
		{"health", http.MethodGet, "/health", "", false, http.StatusOK},
		{"system info", http.MethodGet, "/system/info", "", false, http.StatusOK},
		{"summary is public", http.MethodPost, "/generate-summary", `{"content":"x"}`, false, http.StatusOK},
		{"pdf is public", http.MethodPost, "/convert-to-pdf", "PK", false, http.StatusOK},
		{"templates need auth", http.MethodGet, "/api/v1/templates", "", false, http.StatusUnauthorized},
		{"templates with auth", http.MethodGet, "/api/v1/templates", "", true, http.StatusOK},
		{"generate with auth", http.MethodPost, "/api/v1/documents/generate", `{"type":"mfn","date":"2026-03-01"}`, true, http.StatusOK},
		{"swagger disabled", http.MethodGet, "/swagger/index.html", "", false, http.StatusNotFound},
		{"unknown route", http.MethodGet, "/nope", "", false, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			if tt.auth {
				req.Header.Set("Authorization", testToken)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestNew_SummaryRateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)
	engine := newTestEngine(t, Options{SummaryLimiter: limiter})

	post := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(`{"content":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, post("/generate-summary"))
	assert.Equal(t, http.StatusOK, post("/generate-summary"))
	assert.Equal(t, http.StatusTooManyRequests, post("/generate-summary"))
	// the PDF route is not throttled
	assert.Equal(t, http.StatusOK, post("/convert-to-pdf"))
}

func TestNew_BodyLimit(t *testing.T) {
	engine := newTestEngine(t, Options{MaxBodySize: 16})

	req := httptest.NewRequest(http.MethodPost, "/generate-summary",
		bytes.NewBufferString(`{"content":"this body is far longer than sixteen bytes"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
