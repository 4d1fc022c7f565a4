package parser

import (
	"github.com/ledgerline/statement-recon/internal/models"
)

// Strategy is a line-parsing strategy. CanParse is a cheap claim check;
// Parse returns one or more transactions for a claimed line (more than one
// when a single physical line encodes multiple postings).
//
// A Parse error on a line that passed CanParse is a hard error for that
// line; the caller records it and continues with the remaining lines.
type Strategy interface {
	Name() string
	CanParse(line models.RawLine, ctx *models.ParsingContext) bool
	Parse(line models.RawLine, ctx *models.ParsingContext) ([]models.ParsedTransaction, error)
}
