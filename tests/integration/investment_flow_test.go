//go:build integration

package integration

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/safedocs/backend/internal/application/safe"
	"github.com/safedocs/backend/internal/domain/shared"
	"github.com/safedocs/backend/internal/infrastructure/document"
	"github.com/safedocs/backend/internal/infrastructure/persistence"
	"github.com/safedocs/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newInvestmentService(t *testing.T, testDB *TestDB) (*safe.InvestmentService, *storage.MemoryDocumentStorage) {
	t.Helper()
	log := zaptest.NewLogger(t)

	templates, err := document.NewTemplateStore(&document.TemplateStoreConfig{})
	require.NoError(t, err)
	renderer := document.NewDocxRenderer(templates, document.WithRendererLogger(log))
	docs := safe.NewDocumentService(renderer, templates, nil, nil, log)

	store := storage.NewMemoryDocumentStorage("https://files.test")
	uow := persistence.NewGormUnitOfWork(&persistence.Database{DB: testDB.DB})
	return safe.NewInvestmentService(persistence.NewRepositories(testDB.DB), docs, store, 0, log,
		safe.WithUnitOfWork(uow)), store
}

func createRequest() safe.CreateInvestmentRequest {
	return safe.CreateInvestmentRequest{
		Company: safe.CompanyInput{
			Name:                 "Acme Robotics, Inc.",
			Street:               "1 Market St",
			CityStateZip:         "San Francisco, CA 94105",
			StateOfIncorporation: "Delaware",
		},
		Fund:           safe.FundInput{Name: "Seed Fund I", Byline: "Seed GP LLC"},
		Founder:        safe.PersonInput{Name: "Ada Founder", Title: "CEO", Email: "ada@acme.test"},
		Investor:       safe.PersonInput{Name: "Ivan Investor", Title: "Partner", Email: "ivan@seed.test"},
		PurchaseAmount: "250000",
		Type:           "valuation-cap",
		ValuationCap:   "10000000",
		Date:           "2026-01-15",
		ProRataRights:  true,
	}
}

func TestInvestmentFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	svc, store := newInvestmentService(t, testDB)
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, createRequest())
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)
	assert.Equal(t, "draft", created.Status)
	assert.False(t, created.HasDocument)

	t.Run("Get preloads parties", func(t *testing.T) {
		got, err := svc.Get(ctx, owner, id)
		require.NoError(t, err)
		assert.Equal(t, "Acme Robotics, Inc.", got.CompanyName)
		assert.Equal(t, "Seed Fund I", got.FundName)
		assert.Equal(t, "250000", got.PurchaseAmount)
		assert.True(t, got.ProRataRights)
	})

	t.Run("other creators cannot see it", func(t *testing.T) {
		_, err := svc.Get(ctx, uuid.New(), id)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})

	t.Run("link before generation", func(t *testing.T) {
		_, err := svc.DocumentLink(ctx, owner, id)
		assert.ErrorIs(t, err, safe.ErrDocumentNotGenerated)
	})

	t.Run("generate stores the docx", func(t *testing.T) {
		link, err := svc.GenerateDocument(ctx, owner, id)
		require.NoError(t, err)
		assert.Equal(t, "generated", link.Status)
		assert.Equal(t, "YC-SAFE-Valuation-Cap.docx", link.Filename)
		assert.True(t, strings.HasPrefix(link.URL, "https://files.test/"))

		key := strings.TrimPrefix(strings.SplitN(link.URL, "?", 2)[0], "https://files.test/")
		data, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "PK", string(data[:2]))

		again, err := svc.DocumentLink(ctx, owner, id)
		require.NoError(t, err)
		assert.Equal(t, link.Filename, again.Filename)

		got, err := svc.Get(ctx, owner, id)
		require.NoError(t, err)
		assert.True(t, got.HasDocument)
	})

	t.Run("List pages by creator", func(t *testing.T) {
		req := createRequest()
		req.Type = "mfn"
		req.ValuationCap = ""
		_, err := svc.Create(ctx, owner, req)
		require.NoError(t, err)

		page, total, err := svc.List(ctx, owner, safe.ListInvestmentsRequest{Page: 1, PageSize: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, page, 1)

		_, total, err = svc.List(ctx, uuid.New(), safe.ListInvestmentsRequest{})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("Delete removes the row", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, owner, id))
		_, err := svc.Get(ctx, owner, id)
		assert.Error(t, err)
	})
}
