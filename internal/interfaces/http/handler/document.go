package handler

import (
	"context"
	"io"
	"iter"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/safedocs/backend/internal/application/safe"
	"github.com/safedocs/backend/internal/domain/investment"
	"github.com/safedocs/backend/internal/infrastructure/logger"
	"github.com/safedocs/backend/internal/infrastructure/printing"
	"github.com/safedocs/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// DocumentPipeline is the document side of the SAFE pipeline
type DocumentPipeline interface {
	Generate(ctx context.Context, terms investment.InvestmentTerms) (*investment.RenderedDocument, error)
	Summarize(ctx context.Context, content string) (string, error)
	StreamDealSummary(ctx context.Context, terms investment.InvestmentTerms) iter.Seq2[string, error]
	ConvertToPDF(ctx context.Context, docx []byte, title string) (*printing.RenderResult, error)
	Templates() []safe.TemplateResponse
}

// DocumentHandler serves generation, summaries and PDF conversion
type DocumentHandler struct {
	BaseHandler
	docs DocumentPipeline
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(docs DocumentPipeline) *DocumentHandler {
	return &DocumentHandler{docs: docs}
}

// GenerateSummary godoc
// @ID           generateSummary
// @Summary      Summarize document text
// @Description  Single-shot LLM summary of arbitrary text. Fails with 502 when the provider does.
// @Tags         summaries
// @Accept       json
// @Produce      json
// @Param        request body safe.GenerateSummaryRequest true "Text to summarize"
// @Success      200 {object} APIResponse[safe.SummaryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /generate-summary [post]
func (h *DocumentHandler) GenerateSummary(c *gin.Context) {
	var req safe.GenerateSummaryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	summary, err := h.docs.Summarize(c.Request.Context(), req.Content)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, safe.SummaryResponse{Summary: summary})
}

// StreamSummary godoc
// @ID           streamDealSummary
// @Summary      Stream a deal summary
// @Description  Streams a plain-text summary of the deal terms as it is generated.
// @Description  A provider failure before the first chunk returns 502; later failures end the stream.
// @Tags         summaries
// @Accept       json
// @Produce      plain
// @Param        request body safe.InvestmentData true "Deal terms"
// @Success      200 {string} string "summary text"
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /api/summarize [post]
func (h *DocumentHandler) StreamSummary(c *gin.Context) {
	var req safe.InvestmentData
	if !h.BindJSON(c, &req) {
		return
	}
	terms, err := req.ToTerms()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	next, stop := iter.Pull2(h.docs.StreamDealSummary(ctx, terms))
	defer stop()

	first, err, ok := next()
	if ok && err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	if !ok {
		return
	}
	if !writeChunk(c, first) {
		return
	}
	for {
		chunk, err, ok := next()
		if !ok {
			return
		}
		if err != nil {
			// headers are sent; ending the body is all that is left
			logger.L(ctx).Warn("summary stream ended early", zap.Error(err))
			_ = c.Error(err)
			return
		}
		if !writeChunk(c, chunk) {
			return
		}
	}
}

func writeChunk(c *gin.Context, chunk string) bool {
	if _, err := io.WriteString(c.Writer, chunk); err != nil {
		return false
	}
	c.Writer.Flush()
	return true
}

// ConvertToPDF godoc
// @ID           convertToPdf
// @Summary      Convert a .docx document to PDF
// @Description  Takes the raw .docx bytes as the request body and returns the printed PDF.
// @Tags         documents
// @Accept       application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Produce      application/pdf
// @Param        title query string false "Document title used in the PDF metadata and footer"
// @Success      200 {file} binary
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /convert-to-pdf [post]
func (h *DocumentHandler) ConvertToPDF(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if len(body) == 0 {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidDocument, "Request body must contain a .docx document")
		return
	}

	title := strings.TrimSpace(c.Query("title"))
	result, err := h.docs.ConvertToPDF(c.Request.Context(), body, title)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if title == "" {
		title = "SAFE"
	}
	c.Header("Content-Disposition", contentDisposition("inline", title+".pdf"))
	c.Data(http.StatusOK, "application/pdf", result.PDFData)
}

// GenerateDocument godoc
// @ID           generateDocument
// @Summary      Render a SAFE document
// @Description  Formats the terms, renders the variant's template and returns the .docx file
// @Tags         documents
// @Accept       json
// @Produce      application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Param        request body safe.InvestmentData true "Investment terms"
// @Success      200 {file} binary
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/generate [post]
func (h *DocumentHandler) GenerateDocument(c *gin.Context) {
	var req safe.InvestmentData
	if !h.BindJSON(c, &req) {
		return
	}
	terms, err := req.ToTerms()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	doc, err := h.docs.Generate(c.Request.Context(), terms)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", contentDisposition("attachment", doc.DownloadFilename()))
	c.DataFromReader(http.StatusOK, int64(doc.Size()), doc.ContentType(), doc.Reader(), nil)
}

// ListTemplates godoc
// @ID           listTemplates
// @Summary      List SAFE templates
// @Tags         documents
// @Produce      json
// @Success      200 {object} APIResponse[[]safe.TemplateResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /templates [get]
func (h *DocumentHandler) ListTemplates(c *gin.Context) {
	h.Success(c, h.docs.Templates())
}

// contentDisposition quotes plain ASCII names and falls back to RFC 2231
// encoding for anything else
func contentDisposition(kind, filename string) string {
	plain := true
	for _, r := range filename {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			plain = false
			break
		}
	}
	if plain {
		return kind + `; filename="` + filename + `"`
	}
	return mime.FormatMediaType(kind, map[string]string{"filename": filename})
}
