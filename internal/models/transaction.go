package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind classifies a parsed statement line.
type TransactionKind string

const (
	KindCredit TransactionKind = "CREDIT"
	KindDebit  TransactionKind = "DEBIT"
	KindFee    TransactionKind = "FEE"
)

// IsValid reports whether the kind is one of the known values.
func (k TransactionKind) IsValid() bool {
	return k == KindCredit || k == KindDebit || k == KindFee
}

// LineTag classifies a raw document line.
type LineTag string

const (
	TagBody   LineTag = "body"
	TagHeader LineTag = "header"
	TagFooter LineTag = "footer"
)

// RawLine is a single line of extracted document text with its position.
type RawLine struct {
	Text string
	Page int
	Line int
	Tag  LineTag
}

// ParsingContext is per-document metadata shared read-only across all
// parse calls for that document.
type ParsingContext struct {
	StatementDate   time.Time
	AccountNumber   string
	StatementPeriod string
	SourceFile      string
	OpeningBalance  decimal.Decimal
}

// ParsedTransaction is an immutable record emitted by a parser strategy.
// Construct via NewParsedTransaction; fields cannot be changed afterwards.
type ParsedTransaction struct {
	date        time.Time
	description string
	amount      decimal.Decimal
	kind        TransactionKind
	serviceFee  bool
	sourceLine  RawLine
	ctx         *ParsingContext
}

// ParsedTransactionSpec carries the required fields for NewParsedTransaction.
type ParsedTransactionSpec struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Kind        TransactionKind
	ServiceFee  bool
	SourceLine  RawLine
	Context     *ParsingContext
}

// NewParsedTransaction validates all required fields and returns an
// immutable ParsedTransaction. The amount is the transaction magnitude;
// direction is carried by Kind (sign normalization happens in the parser).
func NewParsedTransaction(spec ParsedTransactionSpec) (ParsedTransaction, error) {
	if spec.Context == nil {
		return ParsedTransaction{}, &ErrContract{Op: "NewParsedTransaction", Reason: "nil parsing context"}
	}
	if !spec.Kind.IsValid() {
		return ParsedTransaction{}, fmt.Errorf("invalid transaction kind: %q", spec.Kind)
	}
	if spec.Description == "" {
		return ParsedTransaction{}, fmt.Errorf("empty description")
	}
	if spec.Amount.Sign() <= 0 {
		return ParsedTransaction{}, fmt.Errorf("amount must be positive, got %s", spec.Amount)
	}
	return ParsedTransaction{
		date:        spec.Date,
		description: spec.Description,
		amount:      spec.Amount,
		kind:        spec.Kind,
		serviceFee:  spec.ServiceFee,
		sourceLine:  spec.SourceLine,
		ctx:         spec.Context,
	}, nil
}

func (t ParsedTransaction) Date() time.Time          { return t.date }
func (t ParsedTransaction) Description() string      { return t.description }
func (t ParsedTransaction) Amount() decimal.Decimal  { return t.amount }
func (t ParsedTransaction) Kind() TransactionKind    { return t.kind }
func (t ParsedTransaction) IsServiceFee() bool       { return t.serviceFee }
func (t ParsedTransaction) SourceLine() RawLine      { return t.sourceLine }
func (t ParsedTransaction) Context() *ParsingContext { return t.ctx }

// BankTransaction is the persisted form of a statement transaction.
// Exactly one of DebitAmount/CreditAmount is set, and it is positive.
type BankTransaction struct {
	ID                      uuid.UUID        `json:"id"`
	CompanyID               string           `json:"companyId"`
	FiscalPeriodID          uuid.UUID        `json:"fiscalPeriodId"`
	TransactionDate         time.Time        `json:"transactionDate"`
	Details                 string           `json:"details"`
	DebitAmount             *decimal.Decimal `json:"debitAmount,omitempty"`
	CreditAmount            *decimal.Decimal `json:"creditAmount,omitempty"`
	Balance                 decimal.Decimal  `json:"balance"`
	ServiceFee              bool             `json:"serviceFee"`
	AccountNumber           string           `json:"accountNumber,omitempty"`
	StatementPeriod         string           `json:"statementPeriod,omitempty"`
	SourceFile              string           `json:"sourceFile,omitempty"`
	ClassificationAccountID string           `json:"classificationAccountId,omitempty"`
}

// Validate enforces the debit-XOR-credit invariant.
func (t *BankTransaction) Validate() error {
	switch {
	case t.DebitAmount == nil && t.CreditAmount == nil:
		return &ErrValidation{Field: "amount", Message: "neither debit nor credit set"}
	case t.DebitAmount != nil && t.CreditAmount != nil:
		return &ErrValidation{Field: "amount", Message: "both debit and credit set"}
	case t.DebitAmount != nil && t.DebitAmount.Sign() <= 0:
		return &ErrValidation{Field: "debitAmount", Message: "must be positive"}
	case t.CreditAmount != nil && t.CreditAmount.Sign() <= 0:
		return &ErrValidation{Field: "creditAmount", Message: "must be positive"}
	}
	if t.CompanyID == "" {
		return &ErrValidation{Field: "companyId", Message: "required"}
	}
	return nil
}

// SignedAmount returns credits as positive and debits as negative,
// useful for balance arithmetic and reconciliation keys.
func (t *BankTransaction) SignedAmount() decimal.Decimal {
	if t.CreditAmount != nil {
		return *t.CreditAmount
	}
	if t.DebitAmount != nil {
		return t.DebitAmount.Neg()
	}
	return decimal.Zero
}

// AccountKey returns the classification bucket for ledger aggregation.
// Unclassified transactions fall into a sentinel bucket, never an error.
const UnclassifiedAccount = "unclassified"

func (t *BankTransaction) AccountKey() string {
	if t.ClassificationAccountID == "" {
		return UnclassifiedAccount
	}
	return t.ClassificationAccountID
}
