package email

import (
	"testing"

	"github.com/safedocs/backend/internal/domain/investment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTerms() investment.InvestmentTerms {
	return investment.InvestmentTerms{
		Founder:  investment.Signatory{Name: "Jane", Email: "jane@acme.test"},
		Company:  investment.CompanyParty{Name: "Acme"},
		Investor: investment.InvestorParty{Name: "Acme Fund", Email: "ivan@fund.test"},
	}
}

func TestFounderNotification(t *testing.T) {
	msg, err := FounderNotification(testTerms(), "First point.\n\nSecond <point>.", testDocument())
	require.NoError(t, err)

	assert.Equal(t, []string{"jane@acme.test"}, msg.To)
	assert.Empty(t, msg.Cc)
	assert.Equal(t, "Your SAFE for Acme", msg.Subject)
	assert.Contains(t, msg.HTML, "<p>Hi Jane,</p>")
	assert.Contains(t, msg.HTML, "<strong>Summary</strong>")
	assert.Contains(t, msg.HTML, "<p>First point.</p>")
	assert.Contains(t, msg.HTML, "<p>Second &lt;point&gt;.</p>")
	assert.Contains(t, msg.HTML, "Acme-SAFE.docx")
	require.NoError(t, msg.Validate())
}

func TestFounderNotification_OmitsEmptySummary(t *testing.T) {
	msg, err := FounderNotification(testTerms(), "   ", testDocument())
	require.NoError(t, err)

	assert.NotContains(t, msg.HTML, "Summary")
	assert.Contains(t, msg.HTML, "is attached")
	assert.NotNil(t, msg.Attachment)
}

func TestCounterpartyNotification(t *testing.T) {
	doc := testDocument()
	msg := CounterpartyNotification(testTerms(), "<p>Edited <b>body</b></p>", doc)

	assert.Equal(t, []string{"jane@acme.test"}, msg.To)
	assert.Equal(t, []string{"ivan@fund.test"}, msg.Cc)
	assert.Equal(t, "<p>Edited <b>body</b></p>", msg.HTML)
	assert.Equal(t, doc.Bytes(), msg.Attachment.Bytes())
}
