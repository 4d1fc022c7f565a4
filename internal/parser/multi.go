package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledgerline/statement-recon/internal/models"
)

// MultiTransactionParser claims lines that encode a primary transaction
// immediately followed by an embedded fee on the same physical line, e.g.
//
//	"TRANSFER TO VENDOR 750.50- FEE-ELECTRONIC PAYMENT 8.90-"
//
// It splits the line into exactly two postings: the primary movement and
// the fee. It must run before the single-transaction parsers, which would
// otherwise mis-claim the line on its first amount alone.
type MultiTransactionParser struct{}

func (p *MultiTransactionParser) Name() string { return "multi-transaction" }

// primary description + amount, then a FEE-prefixed description + amount.
var multiLinePattern = regexp.MustCompile(
	`(?i)^(.*?[A-Za-z].*?)\s+(\(?[\d,]+\.\d{2}\)?-?)\s+(FEE[-\s][A-Za-z0-9&/ -]*?)\s+(\(?[\d,]+\.\d{2}\)?-?)\s*$`)

func (p *MultiTransactionParser) CanParse(line models.RawLine, ctx *models.ParsingContext) bool {
	if line.Tag != models.TagBody {
		return false
	}
	tokens := amountToken.FindAllStringIndex(line.Text, -1)
	if len(tokens) < 2 {
		return false
	}
	// The fee marker must appear between the two amounts, not in a column
	// header that merely mentions fees.
	between := line.Text[tokens[0][1]:tokens[len(tokens)-1][0]]
	return strings.Contains(strings.ToUpper(between), "FEE")
}

func (p *MultiTransactionParser) Parse(line models.RawLine, ctx *models.ParsingContext) ([]models.ParsedTransaction, error) {
	if ctx == nil {
		return nil, &models.ErrContract{Op: "MultiTransactionParser.Parse", Reason: "nil parsing context"}
	}

	m := multiLinePattern.FindStringSubmatch(line.Text)
	if m == nil {
		return nil, fmt.Errorf("line claimed by multi-transaction parser but did not match split pattern: %q", line.Text)
	}

	dateToken, primaryDesc := splitLeadingDate(m[1])
	date := parseDateToken(dateToken, ctx)

	primaryAmt, err := ParseAmount(m[2])
	if err != nil {
		return nil, fmt.Errorf("primary amount: %w", err)
	}
	feeAmt, err := ParseAmount(m[4])
	if err != nil {
		return nil, fmt.Errorf("fee amount: %w", err)
	}

	primaryKind := models.KindCredit
	if primaryAmt.IsNegative() {
		primaryKind = models.KindDebit
	}

	primary, err := models.NewParsedTransaction(models.ParsedTransactionSpec{
		Date:        date,
		Description: strings.TrimSpace(primaryDesc),
		Amount:      primaryAmt.Abs(),
		Kind:        primaryKind,
		SourceLine:  line,
		Context:     ctx,
	})
	if err != nil {
		return nil, fmt.Errorf("primary posting: %w", err)
	}

	fee, err := models.NewParsedTransaction(models.ParsedTransactionSpec{
		Date:        date,
		Description: strings.TrimSpace(m[3]),
		Amount:      feeAmt.Abs(),
		Kind:        models.KindFee,
		ServiceFee:  true,
		SourceLine:  line,
		Context:     ctx,
	})
	if err != nil {
		return nil, fmt.Errorf("fee posting: %w", err)
	}

	return []models.ParsedTransaction{primary, fee}, nil
}
