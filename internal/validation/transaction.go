package validation

import (
	"github.com/ndewijer/folio/internal/api/request"
	"github.com/ndewijer/folio/internal/model"
)

// ValidateCreateTransaction validates a transaction creation request.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	return Struct(req, tradeRules(model.TransactionKind(req.Kind), req.Quantity, req.PricePerUnit, req.Amount))
}

// ValidateUpdateTransaction validates a transaction update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
func ValidateUpdateTransaction(req request.UpdateTransactionRequest) error {
	return Struct(req, nil)
}

// ValidateTrade checks an edited trade against the rules a new one must meet.
func ValidateTrade(kind model.TransactionKind, quantity, pricePerUnit, amount float64) error {
	if fields := tradeRules(kind, quantity, pricePerUnit, amount); len(fields) > 0 {
		return &Error{Fields: fields}
	}
	return nil
}

// tradeRules: deposits and withdrawals need a positive amount. Every other kind
// needs a positive quantity and a positive price.
func tradeRules(kind model.TransactionKind, quantity, pricePerUnit, amount float64) map[string]string {
	extra := make(map[string]string)

	switch {
	case !kind.Valid():
		// reported by the tx_kind tag
	case kind.IsCashKind():
		if amount <= 0 {
			extra["amount"] = "amount must be positive"
		}
	default:
		if quantity <= 0 {
			extra["quantity"] = "quantity must be positive"
		}
		if (kind == model.KindBuy || kind == model.KindSell) && pricePerUnit <= 0 {
			extra["pricePerUnit"] = "pricePerUnit must be positive"
		}
		if kind.IsIncome() && pricePerUnit <= 0 {
			extra["pricePerUnit"] = "income per unit must be positive"
		}
	}
	return extra
}
