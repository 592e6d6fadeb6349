package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/folio/internal/api/request"
	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/repository"
)

// AssetService handles asset-related business logic operations.
type AssetService struct {
	db              *sql.DB
	assetRepo       *repository.AssetRepository
	transactionRepo *repository.TransactionRepository
	priceRepo       *repository.PriceRepository
}

// NewAssetService creates a new AssetService with the provided repository dependencies.
func NewAssetService(
	db *sql.DB,
	assetRepo *repository.AssetRepository,
	transactionRepo *repository.TransactionRepository,
	priceRepo *repository.PriceRepository,
) *AssetService {
	return &AssetService{
		db:              db,
		assetRepo:       assetRepo,
		transactionRepo: transactionRepo,
		priceRepo:       priceRepo,
	}
}

// GetAssets retrieves all assets.
func (s *AssetService) GetAssets(ctx context.Context) ([]model.Asset, error) {
	return s.assetRepo.GetAssets(ctx)
}

// GetAsset retrieves a single asset by its ID.
func (s *AssetService) GetAsset(ctx context.Context, id string) (model.Asset, error) {
	return s.assetRepo.GetAsset(ctx, id)
}

// CreateAsset stores a new asset. Quoted symbols are upper-cased.
func (s *AssetService) CreateAsset(ctx context.Context, req request.CreateAssetRequest) (model.Asset, error) {
	asset := model.Asset{
		ID:           uuid.New().String(),
		Symbol:       normalizeSymbol(req.Symbol, model.AssetType(req.Type)),
		Type:         model.AssetType(req.Type),
		Name:         strings.TrimSpace(req.Name),
		InterestRate: req.InterestRate,
		CreatedAt:    time.Now().UTC(),
	}

	if req.MaturityDate != nil {
		maturity, err := parseDate(*req.MaturityDate)
		if err != nil {
			return model.Asset{}, err
		}
		asset.MaturityDate = &maturity
	}

	if err := s.assetRepo.InsertAsset(ctx, &asset); err != nil {
		return model.Asset{}, fmt.Errorf("failed to create asset: %w", err)
	}
	return asset, nil
}

// UpdateAsset applies the fields present in req to an existing asset.
// An empty maturityDate string clears the date.
func (s *AssetService) UpdateAsset(ctx context.Context, id string, req request.UpdateAssetRequest) (model.Asset, error) {
	asset, err := s.assetRepo.GetAsset(ctx, id)
	if err != nil {
		return model.Asset{}, err
	}

	if req.Symbol != nil {
		asset.Symbol = normalizeSymbol(*req.Symbol, asset.Type)
	}
	if req.Name != nil {
		asset.Name = strings.TrimSpace(*req.Name)
	}
	if req.MaturityDate != nil {
		if *req.MaturityDate == "" {
			asset.MaturityDate = nil
		} else {
			maturity, err := parseDate(*req.MaturityDate)
			if err != nil {
				return model.Asset{}, err
			}
			asset.MaturityDate = &maturity
		}
	}
	if req.InterestRate != nil {
		asset.InterestRate = req.InterestRate
	}

	if err := s.assetRepo.UpdateAsset(ctx, &asset); err != nil {
		return model.Asset{}, fmt.Errorf("failed to update asset: %w", err)
	}
	return asset, nil
}

// DeleteAsset removes an asset with its plans and every logical transaction that
// touched it. For a non-cash asset this includes the cash postings that balanced its
// trades, so the cash balance no longer reflects them. For a cash asset only its own
// postings go; the trades they funded stay and lose their link.
func (s *AssetService) DeleteAsset(ctx context.Context, id string) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		assetRepo := s.assetRepo.WithTx(tx)
		txRepo := s.transactionRepo.WithTx(tx)

		asset, err := assetRepo.GetAsset(ctx, id)
		if err != nil {
			return err
		}

		if !asset.Type.IsCash() {
			if _, err := txRepo.DeleteJournalsForAsset(ctx, id); err != nil {
				return err
			}
		}

		if err := assetRepo.DeleteAsset(ctx, id); err != nil {
			return err
		}

		if err := txRepo.DeleteOrphanJournals(ctx); err != nil {
			return err
		}

		if asset.Type.IsQuoted() {
			if err := s.dropUnusedPrice(ctx, assetRepo, s.priceRepo.WithTx(tx), asset.Symbol); err != nil {
				return err
			}
		}
		return nil
	})
}

// dropUnusedPrice removes the cached quote for symbol once no asset uses it.
func (s *AssetService) dropUnusedPrice(ctx context.Context, assetRepo *repository.AssetRepository, priceRepo *repository.PriceRepository, symbol string) error {
	assets, err := assetRepo.GetAssets(ctx)
	if err != nil {
		return err
	}
	for _, a := range assets {
		if a.Symbol == symbol && a.Type.IsQuoted() {
			return nil
		}
	}
	return priceRepo.DeletePrice(ctx, symbol)
}

func normalizeSymbol(symbol string, assetType model.AssetType) string {
	symbol = strings.TrimSpace(symbol)
	if assetType.IsQuoted() {
		return strings.ToUpper(symbol)
	}
	return symbol
}
