package investment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvestment(t *testing.T) {
	terms := discountTerms()
	inv, err := NewInvestment(uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(), terms)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, inv.ID)
	assert.Equal(t, StatusDraft, inv.Status)
	assert.Equal(t, "100000", inv.PurchaseAmount.String())
	assert.True(t, inv.Discount.Valid)
	assert.Equal(t, "20", inv.Discount.Decimal.String())
	assert.False(t, inv.ValuationCap.Valid)
}

func TestNewInvestment_RejectsBadTerms(t *testing.T) {
	terms := discountTerms()
	terms.ValuationCap = "5000000"

	_, err := NewInvestment(uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(), terms)
	assert.ErrorIs(t, err, ErrInconsistentVariant)

	terms = discountTerms()
	terms.PurchaseAmount = ""
	_, err = NewInvestment(uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(), terms)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestInvestment_Terms(t *testing.T) {
	terms := discountTerms()
	inv, err := NewInvestment(uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(), terms)
	require.NoError(t, err)

	inv.Company = &Company{Name: "Acme", StateOfIncorporation: "Delaware"}
	inv.Fund = &Fund{Name: "Acme Fund"}
	inv.Investor = &Investor{Name: "Jane Roe", Email: "jane@fund.test"}
	inv.Founder = &Founder{Name: "John Doe", Title: "CEO", Email: "john@acme.test"}

	got := inv.Terms()
	assert.Equal(t, "Acme", got.Company.Name)
	assert.Equal(t, "Acme Fund", got.Investor.Name)
	assert.Equal(t, "Jane Roe", got.Investor.Byline)
	assert.Equal(t, "jane@fund.test", got.Investor.Email)
	assert.Equal(t, "john@acme.test", got.Founder.Email)

	formatted, err := Format(got)
	require.NoError(t, err)
	assert.Equal(t, "80", formatted.Get(FieldDiscount))
	assert.Equal(t, "100,000", formatted.Get(FieldPurchaseAmount))
}

func TestInvestment_RecordDocument(t *testing.T) {
	inv, err := NewInvestment(uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(), discountTerms())
	require.NoError(t, err)
	before := inv.UpdatedAt

	inv.RecordDocument("s3://bucket/key.docx", "summary")
	assert.Equal(t, StatusGenerated, inv.Status)
	assert.Equal(t, "s3://bucket/key.docx", inv.URL)
	assert.Equal(t, "summary", inv.Summary)
	assert.False(t, inv.UpdatedAt.Before(before))
	assert.True(t, inv.Status.IsValid())
}

func TestNewParties(t *testing.T) {
	owner := uuid.New()
	_, err := NewCompany(owner, " ")
	assert.Error(t, err)

	c, err := NewCompany(owner, "Acme")
	require.NoError(t, err)
	assert.Equal(t, owner, c.OwnerID)

	_, err = NewFounder(owner, "John", "not-an-email")
	assert.Error(t, err)

	f, err := NewFounder(owner, "John", "john@acme.test")
	require.NoError(t, err)
	assert.Equal(t, "john@acme.test", f.Email)

	_, err = NewFund(owner, "")
	assert.Error(t, err)

	i, err := NewInvestor(owner, "Jane", "")
	require.NoError(t, err)
	assert.Empty(t, i.Email)
}
