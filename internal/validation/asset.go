package validation

import (
	"github.com/ndewijer/folio/internal/api/request"
	"github.com/ndewijer/folio/internal/model"
)

// ValidateCreateAsset validates an asset creation request.
// Maturity date and interest rate are only accepted for certificates of deposit.
func ValidateCreateAsset(req request.CreateAssetRequest) error {
	extra := make(map[string]string)

	if model.AssetType(req.Type) != model.AssetTypeCD {
		if req.MaturityDate != nil {
			extra["maturityDate"] = "only certificates of deposit have a maturity date"
		}
		if req.InterestRate != nil {
			extra["interestRate"] = "only certificates of deposit have an interest rate"
		}
	}

	return Struct(req, extra)
}

// ValidateUpdateAsset validates an asset update request against the stored asset type.
func ValidateUpdateAsset(req request.UpdateAssetRequest, assetType model.AssetType) error {
	extra := make(map[string]string)

	if assetType != model.AssetTypeCD {
		if req.MaturityDate != nil {
			extra["maturityDate"] = "only certificates of deposit have a maturity date"
		}
		if req.InterestRate != nil {
			extra["interestRate"] = "only certificates of deposit have an interest rate"
		}
	}

	return Struct(req, extra)
}
