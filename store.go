package participant

import (
	"context"
	"fmt"

	"github.com/viant/participant/storage"
	boltstore "github.com/viant/participant/storage/bolt"
	"github.com/viant/participant/storage/fs"
	"github.com/viant/participant/storage/memory"
	"github.com/viant/participant/storage/objectstore"
	pebblestore "github.com/viant/participant/storage/pebble"
	"github.com/viant/participant/storage/postgres"
)

// OpenStore opens the backend named by cfg.Kind. An empty kind selects the
// in-memory store; StoreNone yields a store that is always unavailable.
func OpenStore(ctx context.Context, cfg StoreConfig) (storage.Store, error) {
	switch cfg.Kind {
	case "", StoreMemory:
		return memory.New(), nil
	case StoreNone:
		return storage.Unavailable{}, nil
	case StoreFS:
		store, err := fs.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StorePebble:
		store, err := pebblestore.Open(pebblestore.Options{DataDir: cfg.Path, Sync: true})
		if err != nil {
			return nil, err
		}
		return store, nil
	case StoreBolt:
		store, err := boltstore.Open(boltstore.Options{Path: cfg.Path, Bucket: cfg.Table})
		if err != nil {
			return nil, err
		}
		return store, nil
	case StorePostgres:
		pgConfig, err := postgres.ConfigFromEnv()
		if err != nil {
			return nil, err
		}
		if cfg.URL != "" {
			pgConfig.URL = cfg.URL
		}
		if cfg.Table != "" {
			pgConfig.Table = cfg.Table
		}
		store, err := postgres.Open(ctx, pgConfig)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StoreS3:
		s3Config := objectstore.ConfigFromEnv()
		if cfg.URL != "" {
			var err error
			if s3Config, err = s3Config.WithURL(cfg.URL); err != nil {
				return nil, err
			}
		}
		if cfg.Table != "" {
			s3Config.Bucket = cfg.Table
		}
		store, err := objectstore.Open(ctx, s3Config)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unsupported store kind %q", cfg.Kind)
}
