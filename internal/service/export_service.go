package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/model"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

var csvHeader = []string{
	"id", "entry_id", "date", "symbol", "asset_type", "kind",
	"quantity", "price_per_unit", "amount", "total_amount", "note", "plan_id", "linked_id",
}

// ExportService writes the transaction ledger in portable formats.
type ExportService struct {
	transactionService *TransactionService
}

// NewExportService creates a new ExportService.
func NewExportService(transactionService *TransactionService) *ExportService {
	return &ExportService{transactionService: transactionService}
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	if format == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// Export writes the postings matching filter to w in date order, oldest first.
func (s *ExportService) Export(ctx context.Context, w io.Writer, format string, filter model.TransactionFilter) error {
	format = strings.ToLower(format)
	if format != FormatCSV && format != FormatJSON {
		return fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, format)
	}

	rows, err := s.transactionService.GetTransactions(ctx, filter)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToExport, err)
	}
	// listing is newest first
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}

	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToExport, err)
		}
		return nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToExport, err)
	}
	for _, r := range rows {
		if err := cw.Write(csvRecord(r)); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToExport, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToExport, err)
	}
	return nil
}

func csvRecord(r model.TransactionResponse) []string {
	return []string{
		r.ID,
		r.EntryID,
		r.Date.Format(time.DateOnly),
		r.Symbol,
		string(r.AssetType),
		string(r.Kind),
		formatFloat(r.Quantity),
		formatFloat(r.PricePerUnit),
		formatFloat(r.Amount),
		formatFloat(r.TotalAmount),
		r.Note,
		deref(r.PlanID),
		deref(r.LinkedID),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
