package model

// RefreshIntervals are the refresh timer choices in minutes. Zero disables the timer.
var RefreshIntervals = []int{0, 5, 15, 30, 60}

// Settings holds user preferences persisted in the settings table.
type Settings struct {
	RefreshIntervalMinutes int    `json:"refreshIntervalMinutes"`
	CashAssetID            string `json:"cashAssetId,omitempty"`
	AIKeyConfigured        bool   `json:"aiKeyConfigured"`
	AIModel                string `json:"aiModel,omitempty"`
}
