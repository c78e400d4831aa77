package factory

import (
	"testing"

	"go-alpha-matte/internal/config"
)

func TestCreateStorage(t *testing.T) {
	f := NewStorageFactory()
	cfg := &config.Config{LocalCaptureRoot: "/captures"}

	if fetcher, err := f.CreateStorage(HTTPStorage, cfg); err != nil || fetcher == nil {
		t.Errorf("Expected http fetcher, got %v (%v)", fetcher, err)
	}
	if fetcher, err := f.CreateStorage(LocalStorage, cfg); err != nil || fetcher == nil {
		t.Errorf("Expected local fetcher, got %v (%v)", fetcher, err)
	}
	if _, err := f.CreateStorage(StorageType("carrier-pigeon"), cfg); err == nil {
		t.Error("Expected error for unsupported storage type")
	}
}
