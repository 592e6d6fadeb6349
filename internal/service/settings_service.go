package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/folio/internal/api/request"
	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/repository"
)

// SettingsService manages user preferences stored in the setting table.
// The AI API key is stored fernet-encrypted.
type SettingsService struct {
	settingRepo  *repository.SettingRepository
	assetRepo    *repository.AssetRepository
	key          *fernet.Key
	defaultModel string
	envAIKey     string

	mu        sync.Mutex
	listeners []func(minutes int)
}

// NewSettingsService creates a new SettingsService.
// secretKey is a base64 fernet key; when empty, storing an AI key fails with ErrSecretKeyMissing.
// envAIKey is used when no key is stored.
func NewSettingsService(
	settingRepo *repository.SettingRepository,
	assetRepo *repository.AssetRepository,
	secretKey, defaultModel, envAIKey string,
) (*SettingsService, error) {
	s := &SettingsService{
		settingRepo:  settingRepo,
		assetRepo:    assetRepo,
		defaultModel: defaultModel,
		envAIKey:     envAIKey,
	}
	if secretKey != "" {
		k, err := fernet.DecodeKey(secretKey)
		if err != nil {
			return nil, fmt.Errorf("invalid secret key: %w", err)
		}
		s.key = k
	}
	return s, nil
}

// OnRefreshIntervalChange registers fn to be called after the refresh interval is updated.
func (s *SettingsService) OnRefreshIntervalChange(fn func(minutes int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// GetSettings returns the current settings with defaults applied.
func (s *SettingsService) GetSettings(ctx context.Context) (model.Settings, error) {
	raw, err := s.settingRepo.GetSettings(ctx)
	if err != nil {
		return model.Settings{}, err
	}

	settings := model.Settings{
		CashAssetID:     raw[repository.SettingCashAssetID],
		AIKeyConfigured: raw[repository.SettingAIKey] != "" || s.envAIKey != "",
		AIModel:         s.defaultModel,
	}
	if v := raw[repository.SettingAIModel]; v != "" {
		settings.AIModel = v
	}
	if v := raw[repository.SettingRefreshInterval]; v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || !validInterval(minutes) {
			return model.Settings{}, fmt.Errorf("%w: stored value %q", apperrors.ErrInvalidRefreshInterval, v)
		}
		settings.RefreshIntervalMinutes = minutes
	}

	return settings, nil
}

// UpdateSettings applies the fields present in req.
// An empty aiKey or cashAssetId clears the stored value.
func (s *SettingsService) UpdateSettings(ctx context.Context, req request.UpdateSettingsRequest) (model.Settings, error) {
	if req.RefreshIntervalMinutes != nil {
		if !validInterval(*req.RefreshIntervalMinutes) {
			return model.Settings{}, fmt.Errorf("%w: %d", apperrors.ErrInvalidRefreshInterval, *req.RefreshIntervalMinutes)
		}
		if err := s.settingRepo.SetSetting(ctx, repository.SettingRefreshInterval, strconv.Itoa(*req.RefreshIntervalMinutes)); err != nil {
			return model.Settings{}, err
		}
	}

	if req.CashAssetID != nil {
		if err := s.setCashAsset(ctx, *req.CashAssetID); err != nil {
			return model.Settings{}, err
		}
	}

	if req.AIKey != nil {
		if err := s.setAIKey(ctx, *req.AIKey); err != nil {
			return model.Settings{}, err
		}
	}

	if req.AIModel != nil {
		if err := s.settingRepo.SetSetting(ctx, repository.SettingAIModel, *req.AIModel); err != nil {
			return model.Settings{}, err
		}
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return model.Settings{}, err
	}

	if req.RefreshIntervalMinutes != nil {
		s.mu.Lock()
		listeners := append([]func(int){}, s.listeners...)
		s.mu.Unlock()
		for _, fn := range listeners {
			fn(settings.RefreshIntervalMinutes)
		}
	}

	return settings, nil
}

func (s *SettingsService) setCashAsset(ctx context.Context, assetID string) error {
	if assetID == "" {
		return s.settingRepo.DeleteSetting(ctx, repository.SettingCashAssetID)
	}
	asset, err := s.assetRepo.GetAsset(ctx, assetID)
	if err != nil {
		return err
	}
	if !asset.Type.IsCash() {
		return apperrors.ErrCashAssetNotCash
	}
	return s.settingRepo.SetSetting(ctx, repository.SettingCashAssetID, assetID)
}

func (s *SettingsService) setAIKey(ctx context.Context, plain string) error {
	if plain == "" {
		return s.settingRepo.DeleteSetting(ctx, repository.SettingAIKey)
	}
	if s.key == nil {
		return apperrors.ErrSecretKeyMissing
	}
	token, err := fernet.EncryptAndSign([]byte(plain), s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt AI key: %w", err)
	}
	return s.settingRepo.SetSetting(ctx, repository.SettingAIKey, string(token))
}

// AIKey returns the decrypted stored AI key, falling back to the environment key.
func (s *SettingsService) AIKey(ctx context.Context) (string, error) {
	raw, err := s.settingRepo.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	token := raw[repository.SettingAIKey]
	if token == "" || s.key == nil {
		if s.envAIKey == "" {
			return "", apperrors.ErrAIKeyMissing
		}
		return s.envAIKey, nil
	}
	plain := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{s.key})
	if plain == nil {
		return "", fmt.Errorf("%w: stored AI key cannot be decrypted with the current secret key", apperrors.ErrAIKeyMissing)
	}
	return string(plain), nil
}

// AIModel returns the configured model name.
func (s *SettingsService) AIModel(ctx context.Context) string {
	settings, err := s.GetSettings(ctx)
	if err != nil || settings.AIModel == "" {
		return s.defaultModel
	}
	return settings.AIModel
}

// CashAsset resolves the designated cash asset: the one chosen in settings,
// otherwise the oldest cash asset. Returns ErrNoCashAsset when there is none.
func (s *SettingsService) CashAsset(ctx context.Context) (model.Asset, error) {
	raw, err := s.settingRepo.GetSettings(ctx)
	if err != nil {
		return model.Asset{}, err
	}
	if id := raw[repository.SettingCashAssetID]; id != "" {
		asset, err := s.assetRepo.GetAsset(ctx, id)
		switch {
		case err == nil && asset.Type.IsCash():
			return asset, nil
		case err != nil && !errors.Is(err, apperrors.ErrAssetNotFound):
			return model.Asset{}, err
		}
		// stale setting; fall through to the default
	}
	return s.assetRepo.GetOldestCashAsset(ctx)
}

func validInterval(minutes int) bool {
	for _, v := range model.RefreshIntervals {
		if v == minutes {
			return true
		}
	}
	return false
}
