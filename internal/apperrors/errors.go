package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrAssetNotFound indicates that an asset with the given ID does not exist.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrPlanNotFound indicates that an investment plan with the given ID does not exist.
	ErrPlanNotFound = errors.New("investment plan not found")

	// ErrPriceNotFound indicates that no cached quote exists for a symbol.
	ErrPriceNotFound = errors.New("price not found")

	// ErrSymbolNotFound indicates that a quote lookup returned no results.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrNoCashAsset indicates that a cash leg was requested but no cash asset exists.
	ErrNoCashAsset = errors.New("no cash asset configured")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientShares indicates that a sell exceeds the units currently held.
	ErrInsufficientShares = errors.New("insufficient shares for sale")

	// ErrKindNotAllowed indicates that a transaction kind does not apply to the asset type,
	// e.g. a buy against a cash asset or a deposit against a stock.
	ErrKindNotAllowed = errors.New("transaction kind not allowed for asset type")

	// ErrInvalidPlanTransition indicates that a plan status change is not permitted
	// from its current state.
	ErrInvalidPlanTransition = errors.New("invalid plan status transition")

	// ErrPlanNotActive indicates that a purchase was recorded against a plan that is not active.
	ErrPlanNotActive = errors.New("investment plan is not active")

	// ErrCashAssetNotCash indicates that the designated cash asset is not of type cash.
	ErrCashAssetNotCash = errors.New("designated cash asset is not a cash asset")

	// ErrRefreshInProgress indicates that a price refresh is already running.
	ErrRefreshInProgress = errors.New("price refresh already in progress")

	// ErrAIKeyMissing indicates that no API key is configured for the AI endpoint.
	ErrAIKeyMissing = errors.New("AI API key not configured")

	// ErrSecretKeyMissing indicates that a secret cannot be stored because SECRET_KEY is unset.
	ErrSecretKeyMissing = errors.New("secret key not configured")

	// ErrInvalidRefreshInterval indicates an unsupported refresh interval.
	ErrInvalidRefreshInterval = errors.New("invalid refresh interval")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrUnsupportedFormat indicates an export format other than csv or json.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveAssets       = errors.New("failed to retrieve assets")
	ErrFailedToRetrieveAsset        = errors.New("failed to retrieve asset")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToRetrievePlans        = errors.New("failed to retrieve investment plans")
	ErrFailedToRetrievePlan         = errors.New("failed to retrieve investment plan")
	ErrFailedToGetPortfolioSummary  = errors.New("failed to get portfolio summary")
	ErrFailedToRefreshPrices        = errors.New("failed to refresh prices")
	ErrFailedToRetrieveNews         = errors.New("failed to retrieve news")
	ErrFailedToGenerateInsight      = errors.New("failed to generate insight")
	ErrFailedToRetrieveSettings     = errors.New("failed to retrieve settings")
	ErrFailedToUpdateSettings       = errors.New("failed to update settings")
	ErrFailedToExport               = errors.New("failed to export transactions")
	ErrFailedToSyncSnapshot         = errors.New("failed to sync widget snapshot")
	ErrFailedToGetVersionInfo       = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a journal without its primary posting).
	ErrDataInconsistency = errors.New("data inconsistency detected")
)
