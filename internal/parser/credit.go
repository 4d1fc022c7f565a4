package parser

import (
	"fmt"
	"strings"

	"github.com/ledgerline/statement-recon/internal/models"
)

// creditKeywords mark inbound movements: deposits, transfers in, refunds.
var creditKeywords = []string{
	"deposit", "transfer from", "credit", "payment received",
	"interest received", "refund", "salary", "direct credit",
}

// CreditTransactionParser claims lines with credit/deposit/transfer-in
// vocabulary and extracts a single positive amount.
type CreditTransactionParser struct{}

func (p *CreditTransactionParser) Name() string { return "credit" }

func (p *CreditTransactionParser) CanParse(line models.RawLine, ctx *models.ParsingContext) bool {
	if line.Tag != models.TagBody {
		return false
	}
	if !containsWord(line.Text, creditKeywords) {
		return false
	}
	return len(amountToken.FindAllString(line.Text, -1)) >= 1
}

func (p *CreditTransactionParser) Parse(line models.RawLine, ctx *models.ParsingContext) ([]models.ParsedTransaction, error) {
	if ctx == nil {
		return nil, &models.ErrContract{Op: "CreditTransactionParser.Parse", Reason: "nil parsing context"}
	}

	tokens := amountToken.FindAllString(line.Text, -1)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("credit line carries no amount: %q", line.Text)
	}
	amt, err := ParseAmount(tokens[0])
	if err != nil {
		return nil, err
	}

	dateToken, rest := splitLeadingDate(line.Text)
	desc := stripAmounts(rest)
	if desc == "" {
		desc = strings.TrimSpace(line.Text)
	}

	txn, err := models.NewParsedTransaction(models.ParsedTransactionSpec{
		Date:        parseDateToken(dateToken, ctx),
		Description: desc,
		Amount:      amt.Abs(),
		Kind:        models.KindCredit,
		SourceLine:  line,
		Context:     ctx,
	})
	if err != nil {
		return nil, err
	}
	return []models.ParsedTransaction{txn}, nil
}
