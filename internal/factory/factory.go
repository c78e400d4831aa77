package factory

import (
	"fmt"

	"go-alpha-matte/internal/config"
	"go-alpha-matte/internal/storage"
)

// StorageType selects a capture storage backend.
type StorageType string

const (
	// HTTPStorage fetches captures over HTTP(S)
	HTTPStorage StorageType = "http"
	// AzureStorage fetches captures from Azure blob storage
	AzureStorage StorageType = "azure"
	// LocalStorage fetches captures from the filesystem
	LocalStorage StorageType = "local"
)

// StorageFactory creates capture fetchers.
type StorageFactory interface {
	CreateStorage(storageType StorageType, cfg *config.Config) (storage.ImageFetcher, error)
}

type storageFactory struct{}

// NewStorageFactory creates a storage factory.
func NewStorageFactory() StorageFactory {
	return &storageFactory{}
}

// CreateStorage builds the fetcher for the requested backend.
func (f *storageFactory) CreateStorage(storageType StorageType, cfg *config.Config) (storage.ImageFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(), nil
	case AzureStorage:
		return storage.NewAzureBlobFetcher(cfg.AzureAccountName, cfg.AzureAccountKey)
	case LocalStorage:
		return storage.NewLocalImageFetcher(cfg.LocalCaptureRoot), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
