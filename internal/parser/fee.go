package parser

import (
	"fmt"
	"strings"

	"github.com/ledgerline/statement-recon/internal/models"
)

// feeMarker is the explicit service-fee indicator some statement layouts
// print in front of charged lines.
const feeMarker = "##"

// ServiceFeeParser claims lines flagged as bank service fees: either the
// fee marker token or the literal FEE keyword. Table headers that merely
// mention the word (e.g. a "Fees" column label) are excluded.
type ServiceFeeParser struct{}

func (p *ServiceFeeParser) Name() string { return "service-fee" }

func (p *ServiceFeeParser) CanParse(line models.RawLine, ctx *models.ParsingContext) bool {
	if line.Tag != models.TagBody {
		return false
	}
	upper := strings.ToUpper(line.Text)
	if !strings.Contains(line.Text, feeMarker) && !strings.Contains(upper, "FEE") {
		return false
	}
	// Header rows mention fees without carrying an amount to charge.
	if strings.Contains(upper, "DATE") && strings.Contains(upper, "DESCRIPTION") {
		return false
	}
	return len(amountToken.FindAllString(line.Text, -1)) >= 1
}

func (p *ServiceFeeParser) Parse(line models.RawLine, ctx *models.ParsingContext) ([]models.ParsedTransaction, error) {
	if ctx == nil {
		return nil, &models.ErrContract{Op: "ServiceFeeParser.Parse", Reason: "nil parsing context"}
	}

	tokens := amountToken.FindAllString(line.Text, -1)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("fee line carries no amount: %q", line.Text)
	}
	amt, err := ParseAmount(tokens[0])
	if err != nil {
		return nil, err
	}

	text := strings.ReplaceAll(line.Text, feeMarker, "")
	dateToken, rest := splitLeadingDate(strings.TrimSpace(text))
	desc := stripAmounts(rest)
	if desc == "" {
		desc = "SERVICE FEE"
	}

	txn, err := models.NewParsedTransaction(models.ParsedTransactionSpec{
		Date:        parseDateToken(dateToken, ctx),
		Description: desc,
		Amount:      amt.Abs(),
		Kind:        models.KindFee,
		ServiceFee:  true,
		SourceLine:  line,
		Context:     ctx,
	})
	if err != nil {
		return nil, err
	}
	return []models.ParsedTransaction{txn}, nil
}
