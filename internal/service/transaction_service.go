package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/folio/internal/api/request"
	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/ledger"
	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/repository"
	"github.com/ndewijer/folio/internal/validation"
)

// shareTolerance absorbs float noise when comparing a sell against the units held.
var shareTolerance = decimal.New(1, -9)

// TransactionService handles journal-related business logic operations.
// Every write goes through a ledger.Journal so that the position posting and its
// cash counter posting are stored, edited and deleted together.
type TransactionService struct {
	db              *sql.DB
	assetRepo       *repository.AssetRepository
	transactionRepo *repository.TransactionRepository
	settingsService *SettingsService
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(
	db *sql.DB,
	assetRepo *repository.AssetRepository,
	transactionRepo *repository.TransactionRepository,
	settingsService *SettingsService,
) *TransactionService {
	return &TransactionService{
		db:              db,
		assetRepo:       assetRepo,
		transactionRepo: transactionRepo,
		settingsService: settingsService,
	}
}

// GetTransactions lists postings matching filter, newest first, with their asset details.
func (s *TransactionService) GetTransactions(ctx context.Context, filter model.TransactionFilter) ([]model.TransactionResponse, error) {
	return s.transactionRepo.GetTransactionResponses(ctx, filter)
}

// GetTransaction retrieves a single posting by its ID.
func (s *TransactionService) GetTransaction(ctx context.Context, id string) (model.Transaction, error) {
	return s.transactionRepo.GetTransaction(ctx, id)
}

// GetJournal returns the logical transaction a posting belongs to.
func (s *TransactionService) GetJournal(ctx context.Context, transactionID string) (model.JournalResponse, error) {
	t, err := s.transactionRepo.GetTransaction(ctx, transactionID)
	if err != nil {
		return model.JournalResponse{}, err
	}
	j, err := s.transactionRepo.GetJournal(ctx, t.EntryID)
	if err != nil {
		return model.JournalResponse{}, err
	}
	return journalResponse(j), nil
}

// CreateTransaction records one logical transaction.
//
// Buys, sells, dividends and interest on a non-cash asset get a balancing posting on
// the designated cash asset unless req.LinkCash is false. When no cash asset exists
// the trade is recorded on its own.
func (s *TransactionService) CreateTransaction(ctx context.Context, req request.CreateTransactionRequest) (model.JournalResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return model.JournalResponse{}, err
	}

	asset, err := s.assetRepo.GetAsset(ctx, req.AssetID)
	if err != nil {
		return model.JournalResponse{}, err
	}

	linkCash := req.LinkCash == nil || *req.LinkCash
	cash, err := s.counterAsset(ctx, asset, linkCash)
	if err != nil {
		return model.JournalResponse{}, err
	}

	trade := ledger.Trade{
		Kind:     model.TransactionKind(req.Kind),
		Date:     date,
		Quantity: decimal.NewFromFloat(req.Quantity),
		Price:    decimal.NewFromFloat(req.PricePerUnit),
		Amount:   decimal.NewFromFloat(req.Amount),
		Note:     req.Note,
		PlanID:   req.PlanID,
	}

	var j ledger.Journal
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		j, err = s.record(ctx, tx, asset, cash, trade)
		return err
	})
	if err != nil {
		return model.JournalResponse{}, err
	}

	return journalResponse(j), nil
}

// counterAsset resolves the cash asset a trade on asset should be balanced against.
// It returns nil when no counter posting is wanted or possible.
func (s *TransactionService) counterAsset(ctx context.Context, asset model.Asset, link bool) (*model.Asset, error) {
	if !link || asset.Type.IsCash() {
		return nil, nil
	}
	cash, err := s.settingsService.CashAsset(ctx)
	if errors.Is(err, apperrors.ErrNoCashAsset) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cash asset: %w", err)
	}
	return &cash, nil
}

// record builds and stores a journal inside tx. Shared with plan purchases.
func (s *TransactionService) record(ctx context.Context, tx *sql.Tx, asset model.Asset, cash *model.Asset, trade ledger.Trade) (ledger.Journal, error) {
	j, err := ledger.NewJournal(asset, cash, trade)
	if err != nil {
		return ledger.Journal{}, err
	}

	txRepo := s.transactionRepo.WithTx(tx)
	if trade.Kind == model.KindSell {
		if err := checkHolding(ctx, txRepo, asset, "", trade.Quantity); err != nil {
			return ledger.Journal{}, err
		}
	}

	if err := txRepo.InsertJournal(ctx, j); err != nil {
		return ledger.Journal{}, fmt.Errorf("failed to create transaction: %w", err)
	}
	return j, nil
}

// checkHolding fails with ErrInsufficientShares when selling quantity would exceed
// the units held. Postings of the journal excludeEntry are left out, so an edited
// sell is checked against the holding without its previous version.
func checkHolding(ctx context.Context, txRepo *repository.TransactionRepository, asset model.Asset, excludeEntry string, quantity decimal.Decimal) error {
	postings, err := txRepo.GetTransactionsByAsset(ctx, asset.ID)
	if err != nil {
		return err
	}
	if excludeEntry != "" {
		kept := postings[:0]
		for _, p := range postings {
			if p.EntryID != excludeEntry {
				kept = append(kept, p)
			}
		}
		postings = kept
	}

	held := ledger.Summarize(ledger.FromTransactions(postings), asset.Type.IsCash()).Shares
	if quantity.GreaterThan(held.Add(shareTolerance)) {
		return fmt.Errorf("%w: %s held %s, selling %s", apperrors.ErrInsufficientShares, asset.Symbol, held.String(), quantity.String())
	}
	return nil
}

// UpdateTransaction edits the logical transaction that the posting id belongs to.
// Fields absent from req keep their value. Both postings are regenerated from the
// edited trade, so the cash leg always follows the position leg.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id string, req request.UpdateTransactionRequest) (model.JournalResponse, error) {
	var updated ledger.Journal

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepo := s.transactionRepo.WithTx(tx)

		posting, err := txRepo.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		j, err := txRepo.GetJournal(ctx, posting.EntryID)
		if err != nil {
			return err
		}
		asset, err := s.assetRepo.WithTx(tx).GetAsset(ctx, j.Primary.AssetID)
		if err != nil {
			return err
		}

		trade := j.TradeOf()
		if err := applyTransactionUpdate(&trade, req); err != nil {
			return err
		}
		if err := validation.ValidateTrade(trade.Kind, trade.Quantity.InexactFloat64(),
			trade.Price.InexactFloat64(), trade.Amount.InexactFloat64()); err != nil {
			return err
		}

		updated, err = j.Repost(asset.Type, trade)
		if err != nil {
			return err
		}

		if trade.Kind == model.KindSell {
			if err := checkHolding(ctx, txRepo, asset, j.ID, trade.Quantity); err != nil {
				return err
			}
		}

		if err := txRepo.UpdateJournal(ctx, updated); err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.JournalResponse{}, err
	}

	return journalResponse(updated), nil
}

func applyTransactionUpdate(trade *ledger.Trade, req request.UpdateTransactionRequest) error {
	if req.Kind != nil {
		trade.Kind = model.TransactionKind(*req.Kind)
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return err
		}
		trade.Date = date
	}
	if req.Quantity != nil {
		trade.Quantity = decimal.NewFromFloat(*req.Quantity)
	}
	if req.PricePerUnit != nil {
		trade.Price = decimal.NewFromFloat(*req.PricePerUnit)
	}
	if req.Note != nil {
		trade.Note = *req.Note
	}
	if req.Amount == nil {
		return nil
	}

	amount := decimal.NewFromFloat(*req.Amount)
	trade.Amount = amount
	if trade.Kind.IsCashKind() {
		return nil
	}
	// An amount on a unit trade, usually sent through the cash posting, keeps the
	// quantity and reprices it.
	if req.PricePerUnit != nil {
		return &validation.Error{Fields: map[string]string{"amount": "give amount or pricePerUnit, not both"}}
	}
	if !trade.Quantity.IsPositive() {
		return &validation.Error{Fields: map[string]string{"quantity": "quantity must be positive"}}
	}
	trade.Price = amount.Div(trade.Quantity)
	return nil
}

// DeleteTransaction removes the logical transaction the posting id belongs to,
// including its counter posting.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	posting, err := s.transactionRepo.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if err := s.transactionRepo.DeleteJournal(ctx, posting.EntryID); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func journalResponse(j ledger.Journal) model.JournalResponse {
	return model.JournalResponse{
		ID:       j.ID,
		Date:     j.Date,
		Note:     j.Note,
		PlanID:   j.PlanID,
		Postings: j.Postings(),
	}
}
