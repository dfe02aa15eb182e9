package utils

import (
	"slotwise/config"
	"slotwise/services/storage"

	"go.uber.org/zap"
)

// ImageStorage returns the configured media backend, or a disabled one when
// Cloudinary credentials are absent.
func ImageStorage() storage.ImageStorage {
	if !config.CloudinaryEnabled() {
		GetLogger().Info("Cloudinary not configured, image uploads disabled")
		return storage.DisabledStorage{}
	}
	cfg := config.AppConfig
	store, err := storage.NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
	if err != nil {
		GetLogger().Error("Cloudinary initialization failed, image uploads disabled", zap.Error(err))
		return storage.DisabledStorage{}
	}
	return store
}
