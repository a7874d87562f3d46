package database

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"deedfind/internal/types"
)

//go:embed data/deeds.txt
var embeddedDeeds []byte

// Data sources accepted by Open.
const (
	SourceEmbedded  = "embedded"
	SourceFile      = "file"
	SourceShapefile = "shapefile"
	SourceOracle    = "oracle"
)

// Sources lists the supported data sources.
var Sources = []string{SourceEmbedded, SourceFile, SourceShapefile, SourceOracle}

// EmbeddedDeeds returns the dataset compiled into the binary.
func EmbeddedDeeds() ([]types.DeedRecord, error) {
	return ReadDeeds(bytes.NewReader(embeddedDeeds))
}

// Open loads the deed dataset from the named source and wraps it in a Store.
// path is the data file for file and shapefile sources and is ignored otherwise;
// the oracle source reads its connection settings from the environment.
func Open(ctx context.Context, source, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	var (
		records []types.DeedRecord
		desc    string
		err     error
	)
	switch source {
	case SourceEmbedded, "":
		desc = SourceEmbedded
		records, err = EmbeddedDeeds()
	case SourceFile:
		if path == "" {
			return nil, fmt.Errorf("%s source: %w", source, ErrPathRequired)
		}
		desc = path
		records, err = ReadDeedFile(path)
	case SourceShapefile:
		if path == "" {
			return nil, fmt.Errorf("%s source: %w", source, ErrPathRequired)
		}
		desc = path
		records, err = ReadShapefile(path, DefaultShapefileColumns())
	case SourceOracle:
		cfg := LoadDatabaseConfig()
		desc = "oracle://" + cfg.Host + "/" + cfg.Service
		records, err = loadOracle(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s dataset: %w", source, err)
	}

	store := NewStore(desc, records)
	logger.Info("dataset loaded",
		"source", desc,
		"records", store.Len(),
		"elapsed", time.Since(start).Truncate(time.Millisecond))
	return store, nil
}

func loadOracle(ctx context.Context, cfg DBConfig) ([]types.DeedRecord, error) {
	db, err := NewDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.QueryDeeds(ctx)
}
