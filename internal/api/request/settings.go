package request

type UpdateSettingsRequest struct {
	RefreshIntervalMinutes *int    `json:"refreshIntervalMinutes,omitempty" validate:"omitempty,oneof=0 5 15 30 60"`
	CashAssetID            *string `json:"cashAssetId,omitempty" validate:"omitempty,uuid"`
	AIKey                  *string `json:"aiKey,omitempty" validate:"omitempty,max=200"`
	AIModel                *string `json:"aiModel,omitempty" validate:"omitempty,max=100"`
}
