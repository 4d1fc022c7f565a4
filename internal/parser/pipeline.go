package parser

import (
	"github.com/ledgerline/statement-recon/internal/extractor"
	"github.com/ledgerline/statement-recon/internal/models"
)

// SkippedLine records a transaction-candidate line the pipeline could not
// turn into a posting, for diagnostics.
type SkippedLine struct {
	Page   int    `json:"page"`
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// Result is the outcome of running the pipeline over one document.
type Result struct {
	Transactions []models.ParsedTransaction
	Candidates   int
	Skipped      []SkippedLine
}

// Pipeline runs line-parsing strategies in a fixed priority order. The
// first strategy whose CanParse returns true is used exclusively for that
// line; there is no fallthrough to a second match.
type Pipeline struct {
	strategies []Strategy
}

// NewPipeline builds the standard strategy list. The multi-transaction
// parser runs first: a split line would otherwise be mis-claimed by a
// simpler parser on its first amount.
func NewPipeline() *Pipeline {
	return &Pipeline{
		strategies: []Strategy{
			&MultiTransactionParser{},
			&ServiceFeeParser{},
			&CreditTransactionParser{},
		},
	}
}

// Strategies returns the strategy list in priority order.
func (p *Pipeline) Strategies() []Strategy {
	return p.strategies
}

// Run consumes the scanner and parses every transaction-candidate line.
// Lines matched by no strategy, and lines whose Parse fails after a
// positive CanParse, are recorded as skipped and processing continues; a
// document yielding no transactions is a valid outcome.
func (p *Pipeline) Run(sc *extractor.LineScanner, ctx *models.ParsingContext) (Result, error) {
	if ctx == nil {
		return Result{}, &models.ErrContract{Op: "Pipeline.Run", Reason: "nil parsing context"}
	}
	if sc == nil {
		return Result{}, &models.ErrContract{Op: "Pipeline.Run", Reason: "nil line scanner"}
	}

	var res Result
	for sc.Next() {
		line := sc.Line()
		if !extractor.IsTransactionLine(line) {
			continue
		}
		res.Candidates++

		var claimed Strategy
		for _, s := range p.strategies {
			if s.CanParse(line, ctx) {
				claimed = s
				break
			}
		}
		if claimed == nil {
			res.Skipped = append(res.Skipped, SkippedLine{
				Page: line.Page, Line: line.Line, Text: line.Text,
				Reason: "no matching strategy",
			})
			continue
		}

		txns, err := claimed.Parse(line, ctx)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedLine{
				Page: line.Page, Line: line.Line, Text: line.Text,
				Reason: claimed.Name() + ": " + err.Error(),
			})
			continue
		}
		res.Transactions = append(res.Transactions, txns...)
	}
	return res, nil
}
