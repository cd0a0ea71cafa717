package handler

import (
	"bytes"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safedocs/backend/internal/application/safe"
	"github.com/safedocs/backend/internal/domain/investment"
	"github.com/safedocs/backend/internal/infrastructure/document"
	"github.com/safedocs/backend/internal/infrastructure/printing"
	"github.com/safedocs/backend/internal/infrastructure/summarizer"
	"github.com/safedocs/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const dealJSON = `{"companyName":"Acme Robotics","type":"valuation-cap","date":"2026-01-15","purchaseAmount":"250000","valuationCap":"10000000"}`

func setupDocumentRouter(docs *mockDocuments) *gin.Engine {
	h := NewDocumentHandler(docs)
	r := gin.New()
	r.POST("/generate-summary", h.GenerateSummary)
	r.POST("/api/summarize", h.StreamSummary)
	r.POST("/convert-to-pdf", h.ConvertToPDF)
	r.POST("/documents/generate", h.GenerateDocument)
	r.GET("/templates", h.ListTemplates)
	return r
}

func seq(chunks []string, err error) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
		if err != nil {
			yield("", err)
		}
	}
}

func TestDocumentHandler_GenerateSummary(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		docs := new(mockDocuments)
		docs.On("Summarize", mock.Anything, "the whole SAFE").Return("short summary", nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/generate-summary", bytes.NewBufferString(`{"content":"the whole SAFE"}`))
		req.Header.Set("Content-Type", "application/json")
		setupDocumentRouter(docs).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, "short summary", resp.Data.(map[string]any)["summary"])
		docs.AssertExpectations(t)
	})

	t.Run("missing content", func(t *testing.T) {
		docs := new(mockDocuments)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/generate-summary", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		setupDocumentRouter(docs).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
		docs.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything)
	})

	t.Run("provider failure is 502", func(t *testing.T) {
		docs := new(mockDocuments)
		docs.On("Summarize", mock.Anything, "text").Return("", &summarizer.SummarizeError{
			Code: summarizer.ErrCodeTimeout, Provider: "anthropic", Message: "deadline exceeded",
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/generate-summary", bytes.NewBufferString(`{"content":"text"}`))
		req.Header.Set("Content-Type", "application/json")
		setupDocumentRouter(docs).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, dto.ErrCodeSummaryFailed, decodeResponse(t, w).Error.Code)
	})
}

func TestDocumentHandler_StreamSummary(t *testing.T) {
	post := func(docs *mockDocuments, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/summarize", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		setupDocumentRouter(docs).ServeHTTP(w, req)
		return w
	}

	t.Run("streams chunks in order", func(t *testing.T) {
		docs := new(mockDocuments)
		docs.On("StreamDealSummary", mock.Anything, mock.MatchedBy(func(terms investment.InvestmentTerms) bool {
			return terms.Company.Name == "Acme Robotics" && terms.Variant == investment.VariantValuationCap
		})).Return(seq([]string{"Acme raises ", "$250,000 ", "on a cap."}, nil))

		w := post(docs, dealJSON)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Acme raises $250,000 on a cap.", w.Body.String())
		assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
		assert.Equal(t, "no", w.Header().Get("X-Accel-Buffering"))
		assert.True(t, w.Flushed)
	})

	t.Run("failure before first chunk returns 502", func(t *testing.T) {
		docs := new(mockDocuments)
		docs.On("StreamDealSummary", mock.Anything, mock.Anything).
			Return(seq(nil, &summarizer.SummarizeError{Code: summarizer.ErrCodeProviderFailed, Message: "overloaded"}))

		w := post(docs, dealJSON)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, dto.ErrCodeSummaryFailed, decodeResponse(t, w).Error.Code)
	})

	t.Run("failure mid-stream truncates the body", func(t *testing.T) {
		docs := new(mockDocuments)
		docs.On("StreamDealSummary", mock.Anything, mock.Anything).
			Return(seq([]string{"partial "}, errors.New("connection reset")))

		w := post(docs, dealJSON)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "partial ", w.Body.String())
	})

	t.Run("empty stream is an empty 200", func(t *testing.T) {
		docs := new(mockDocuments)
		docs.On("StreamDealSummary", mock.Anything, mock.Anything).Return(seq(nil, nil))

		w := post(docs, dealJSON)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("unknown variant is rejected before streaming", func(t *testing.T) {
		docs := new(mockDocuments)

		w := post(docs, `{"type":"convertible-note","date":"2026-01-15"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, investment.ErrCodeUnknownVariant, resp.Error.Code)
		assert.Equal(t, map[string]any{"field": "type"}, resp.Error.Details)
		docs.AssertNotCalled(t, "StreamDealSummary", mock.Anything, mock.Anything)
	})
}

func TestDocumentHandler_ConvertToPDF(t *testing.T) {
	docx := []byte("PK\x03\x04fake-docx")

	t.Run("returns pdf bytes", func(t *testing.T) {
		docs := new(mockDocuments)
		docs.On("ConvertToPDF", mock.Anything, docx, "Acme SAFE").Return(&printing.RenderResult{
			PDFData:        []byte("%PDF-1.7"),
			PageCount:      6,
			RenderDuration: time.Second,
		}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/convert-to-pdf?title=Acme+SAFE", bytes.NewReader(docx))
		req.Header.Set("Content-Type", investment.DocxContentType)
		setupDocumentRouter(docs).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, `inline; filename="Acme SAFE.pdf"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "%PDF-1.7", w.Body.String())
	})

	t.Run("empty body", func(t *testing.T) {
		docs := new(mockDocuments)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/convert-to-pdf", nil)
		setupDocumentRouter(docs).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidDocument, decodeResponse(t, w).Error.Code)
	})

	t.Run("not a docx", func(t *testing.T) {
		docs := new(mockDocuments)
		docs.On("ConvertToPDF", mock.Anything, []byte("hello"), "").
			Return(nil, printing.NewRenderError(printing.ErrCodeInvalidDocument, "input is not a .docx file", nil))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/convert-to-pdf", bytes.NewBufferString("hello"))
		setupDocumentRouter(docs).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidDocument, decodeResponse(t, w).Error.Code)
	})

	t.Run("renderer failure", func(t *testing.T) {
		docs := new(mockDocuments)
		docs.On("ConvertToPDF", mock.Anything, docx, "").
			Return(nil, printing.NewRenderError(printing.ErrCodeRenderFailed, "chrome crashed", nil))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/convert-to-pdf", bytes.NewReader(docx))
		setupDocumentRouter(docs).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, dto.ErrCodePDFFailed, decodeResponse(t, w).Error.Code)
	})
}

func TestDocumentHandler_GenerateDocument(t *testing.T) {
	t.Run("returns docx attachment", func(t *testing.T) {
		content := []byte("PK\x03\x04rendered")
		docs := new(mockDocuments)
		docs.On("Generate", mock.Anything, mock.AnythingOfType("investment.InvestmentTerms")).
			Return(investment.NewRenderedDocument(content, investment.VariantValuationCap, "Acme Robotics"), nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/documents/generate", bytes.NewBufferString(dealJSON))
		req.Header.Set("Content-Type", "application/json")
		setupDocumentRouter(docs).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, investment.DocxContentType, w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="YC-SAFE-Valuation-Cap.docx"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, content, w.Body.Bytes())
	})

	t.Run("missing required field", func(t *testing.T) {
		docs := new(mockDocuments)
		docs.On("Generate", mock.Anything, mock.Anything).Return(nil, &document.RenderError{
			Code:    document.ErrCodeMissingRequiredField,
			Message: "template fields are missing",
			Fields:  []string{"companyName", "investorName"},
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/documents/generate", bytes.NewBufferString(dealJSON))
		req.Header.Set("Content-Type", "application/json")
		setupDocumentRouter(docs).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, document.ErrCodeMissingRequiredField, resp.Error.Code)
		assert.Equal(t, map[string]any{"fields": []any{"companyName", "investorName"}}, resp.Error.Details)
	})

	t.Run("missing type", func(t *testing.T) {
		docs := new(mockDocuments)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/documents/generate", bytes.NewBufferString(`{"date":"2026-01-15"}`))
		req.Header.Set("Content-Type", "application/json")
		setupDocumentRouter(docs).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
	})
}

func TestDocumentHandler_ListTemplates(t *testing.T) {
	docs := new(mockDocuments)
	docs.On("Templates").Return([]safe.TemplateResponse{
		{Variant: "valuation-cap", Name: "Valuation Cap"},
		{Variant: "discount", Name: "Discount"},
	})

	w := httptest.NewRecorder()
	setupDocumentRouter(docs).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/templates", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Len(t, resp.Data.([]any), 2)
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename="YC-SAFE-MFN.docx"`, contentDisposition("attachment", "YC-SAFE-MFN.docx"))
	assert.Equal(t, `inline; filename*=utf-8''Caf%C3%A9.pdf`, contentDisposition("inline", "Café.pdf"))
}
