package handler

import (
	"context"
	"iter"

	"github.com/google/uuid"
	"github.com/safedocs/backend/internal/application/safe"
	"github.com/safedocs/backend/internal/domain/investment"
	"github.com/safedocs/backend/internal/infrastructure/printing"
	"github.com/stretchr/testify/mock"
)

type mockDocuments struct {
	mock.Mock
}

func (m *mockDocuments) Generate(ctx context.Context, terms investment.InvestmentTerms) (*investment.RenderedDocument, error) {
	args := m.Called(ctx, terms)
	doc, _ := args.Get(0).(*investment.RenderedDocument)
	return doc, args.Error(1)
}

func (m *mockDocuments) Summarize(ctx context.Context, content string) (string, error) {
	args := m.Called(ctx, content)
	return args.String(0), args.Error(1)
}

func (m *mockDocuments) StreamDealSummary(ctx context.Context, terms investment.InvestmentTerms) iter.Seq2[string, error] {
	args := m.Called(ctx, terms)
	return args.Get(0).(iter.Seq2[string, error])
}

func (m *mockDocuments) ConvertToPDF(ctx context.Context, docx []byte, title string) (*printing.RenderResult, error) {
	args := m.Called(ctx, docx, title)
	res, _ := args.Get(0).(*printing.RenderResult)
	return res, args.Error(1)
}

func (m *mockDocuments) Templates() []safe.TemplateResponse {
	args := m.Called()
	return args.Get(0).([]safe.TemplateResponse)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendFounderEmail(ctx context.Context, req safe.SendEmailRequest, key string) (*safe.EmailResponse, error) {
	args := m.Called(ctx, req, key)
	resp, _ := args.Get(0).(*safe.EmailResponse)
	return resp, args.Error(1)
}

func (m *mockNotifier) SendCounterpartyEmail(ctx context.Context, req safe.SendInvestmentEmailRequest, key string) (*safe.EmailResponse, error) {
	args := m.Called(ctx, req, key)
	resp, _ := args.Get(0).(*safe.EmailResponse)
	return resp, args.Error(1)
}

type mockSigner struct {
	mock.Mock
}

func (m *mockSigner) Send(ctx context.Context, req safe.SignatureRequest, key string) (*safe.SignatureResponse, error) {
	args := m.Called(ctx, req, key)
	resp, _ := args.Get(0).(*safe.SignatureResponse)
	return resp, args.Error(1)
}

type mockInvestments struct {
	mock.Mock
}

func (m *mockInvestments) Create(ctx context.Context, creatorID uuid.UUID, req safe.CreateInvestmentRequest) (*safe.InvestmentResponse, error) {
	args := m.Called(ctx, creatorID, req)
	resp, _ := args.Get(0).(*safe.InvestmentResponse)
	return resp, args.Error(1)
}

func (m *mockInvestments) Get(ctx context.Context, creatorID, id uuid.UUID) (*safe.InvestmentResponse, error) {
	args := m.Called(ctx, creatorID, id)
	resp, _ := args.Get(0).(*safe.InvestmentResponse)
	return resp, args.Error(1)
}

func (m *mockInvestments) List(ctx context.Context, creatorID uuid.UUID, req safe.ListInvestmentsRequest) ([]safe.InvestmentResponse, int64, error) {
	args := m.Called(ctx, creatorID, req)
	rows, _ := args.Get(0).([]safe.InvestmentResponse)
	return rows, args.Get(1).(int64), args.Error(2)
}

func (m *mockInvestments) Delete(ctx context.Context, creatorID, id uuid.UUID) error {
	return m.Called(ctx, creatorID, id).Error(0)
}

func (m *mockInvestments) GenerateDocument(ctx context.Context, creatorID, id uuid.UUID) (*safe.DocumentLinkResponse, error) {
	args := m.Called(ctx, creatorID, id)
	resp, _ := args.Get(0).(*safe.DocumentLinkResponse)
	return resp, args.Error(1)
}

func (m *mockInvestments) DocumentLink(ctx context.Context, creatorID, id uuid.UUID) (*safe.DocumentLinkResponse, error) {
	args := m.Called(ctx, creatorID, id)
	resp, _ := args.Get(0).(*safe.DocumentLinkResponse)
	return resp, args.Error(1)
}

// Compile-time checks that the services satisfy the handler ports
var (
	_ DocumentPipeline = (*safe.DocumentService)(nil)
	_ Notifier         = (*safe.NotificationService)(nil)
	_ SignatureSender  = (*safe.SignatureService)(nil)
	_ InvestmentStore  = (*safe.InvestmentService)(nil)
)
