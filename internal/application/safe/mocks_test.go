package safe_test

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/safedocs/backend/internal/application/safe"
	"github.com/safedocs/backend/internal/domain/investment"
	"github.com/safedocs/backend/internal/domain/shared"
	"github.com/safedocs/backend/internal/infrastructure/document"
	"github.com/safedocs/backend/internal/infrastructure/email"
	"github.com/safedocs/backend/internal/infrastructure/esign"
	"github.com/safedocs/backend/internal/infrastructure/printing"
	"github.com/safedocs/backend/internal/infrastructure/summarizer"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderTerms(ctx context.Context, variant investment.Variant, terms investment.FormattedTerms) (*investment.RenderedDocument, error) {
	args := m.Called(ctx, variant, terms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*investment.RenderedDocument), args.Error(1)
}

type staticCatalog []document.Template

func (c staticCatalog) All() []document.Template { return c }

type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) Summarize(ctx context.Context, prompt summarizer.Prompt) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockSummarizer) Stream(ctx context.Context, prompt summarizer.Prompt) iter.Seq2[string, error] {
	args := m.Called(ctx, prompt)
	chunks, _ := args.Get(0).([]string)
	err := args.Error(1)
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

type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) Convert(ctx context.Context, docx []byte, title string) (*printing.RenderResult, error) {
	args := m.Called(ctx, docx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.RenderResult), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg *email.Message) (*email.DeliveryReceipt, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*email.DeliveryReceipt), args.Error(1)
}

type MockSignatureClient struct {
	mock.Mock
}

func (m *MockSignatureClient) Run(ctx context.Context, req *esign.Request) (*esign.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*esign.Result), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}

func (m *MockStorage) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockInvestmentRepository struct {
	mock.Mock
}

func (m *MockInvestmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*investment.Investment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*investment.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) FindByCreator(ctx context.Context, creatorID uuid.UUID, filter shared.Filter) ([]investment.Investment, int64, error) {
	args := m.Called(ctx, creatorID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]investment.Investment), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvestmentRepository) Save(ctx context.Context, inv *investment.Investment) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvestmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockInvestmentRepository) UpdateDocument(ctx context.Context, id uuid.UUID, url, summary string, status investment.Status) error {
	return m.Called(ctx, id, url, summary, status).Error(0)
}

func (m *MockInvestmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status investment.Status, envelopeID string) error {
	return m.Called(ctx, id, status, envelopeID).Error(0)
}

// MockPartyRepository serves every party repository through one generic mock
type MockPartyRepository[T any] struct {
	mock.Mock
}

func (m *MockPartyRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockPartyRepository[T]) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]T, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockPartyRepository[T]) Save(ctx context.Context, entity *T) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *MockPartyRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// fakeUnitOfWork hands fn its own repositories and records the outcome
type fakeUnitOfWork struct {
	repos      safe.Repositories
	committed  int
	rolledBack int
}

func (u *fakeUnitOfWork) Do(_ context.Context, fn func(safe.Repositories) error) error {
	if err := fn(u.repos); err != nil {
		u.rolledBack++
		return err
	}
	u.committed++
	return nil
}

// recordingRecorder captures pipeline outcomes
type recordingRecorder struct {
	documents  []error
	summaries  []string
	signatures []error
	emails     []string
}

func (r *recordingRecorder) DocumentGenerated(_ context.Context, _ investment.Variant, _ time.Duration, err error) {
	r.documents = append(r.documents, err)
}

func (r *recordingRecorder) SummaryCompleted(_ context.Context, mode string, _ error) {
	r.summaries = append(r.summaries, mode)
}

func (r *recordingRecorder) SignatureSent(_ context.Context, err error) {
	r.signatures = append(r.signatures, err)
}

func (r *recordingRecorder) EmailSent(_ context.Context, kind string, _ error) {
	r.emails = append(r.emails, kind)
}

// =============================================================================
// Fixtures
// =============================================================================

func capData() safe.InvestmentData {
	return safe.InvestmentData{
		CompanyName:          "Acme, Inc.",
		CompanyAddress:       "1 Main St",
		CompanyCityStateZip:  "San Francisco, CA 94105",
		StateOfIncorporation: "Delaware",
		FounderName:          "Jane Founder",
		FounderTitle:         "CEO",
		FounderEmail:         "jane@acme.test",
		InvestorName:         "Seed Fund I",
		InvestorBy:           "Sam Partner",
		InvestorEmail:        "sam@seed.test",
		PurchaseAmount:       "100000",
		Type:                 "valuation-cap",
		ValuationCap:         "10000000",
		Date:                 "2024-03-01",
	}
}

func docxFor(variant investment.Variant) *investment.RenderedDocument {
	return investment.NewRenderedDocument([]byte("PK\x03\x04rendered"), variant, "Acme, Inc.")
}
