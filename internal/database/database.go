package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"deedfind/internal/types"

	_ "github.com/sijms/go-ora/v2"
)

// connectionString builds the go-ora URL for cfg. With a wallet the
// connection uses mTLS and the wallet directory; otherwise plain TCPS.
func (cfg DBConfig) connectionString() string {
	u := &url.URL{
		Scheme: "oracle",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   cfg.Host + ":" + cfg.Port,
		Path:   "/" + cfg.Service,
	}
	q := url.Values{"ssl": {"true"}}
	if cfg.WalletLocation != "" {
		q.Set("wallet_location", cfg.WalletLocation)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// loadEnvFile copies KEY=value pairs from a .env file into the process
// environment. Variables that already hold a value win over the file.
// Blank lines, comments and lines without '=' are skipped; an "export "
// prefix and matching single or double quotes are stripped.
func loadEnvFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(strings.TrimPrefix(line, "export "), "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		value = unquote(strings.TrimSpace(value))
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("set %s: %w", key, err)
			}
		}
	}
	return nil
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// DBConfig holds the Oracle connection settings and the deed table to read.
type DBConfig struct {
	Host           string
	Port           string
	Service        string
	Username       string
	Password       string
	WalletLocation string
	Table          string
	OrderBy        string
}

// Database is an open Oracle connection.
type Database struct {
	db     *sql.DB
	config DBConfig
}

// NewDatabase opens and pings an Oracle connection.
func NewDatabase(ctx context.Context, config DBConfig) (*Database, error) {
	if err := validateIdentifier(config.Table); err != nil {
		return nil, err
	}
	if err := validateIdentifier(config.OrderBy); err != nil {
		return nil, err
	}

	db, err := sql.Open("oracle", config.connectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{
		db:     db,
		config: config,
	}, nil
}

// Close closes the connection.
func (d *Database) Close() error {
	return d.db.Close()
}

var identifierRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_$#]*(\.[A-Za-z][A-Za-z0-9_$#]*)?$`)

// validateIdentifier guards the table and order-by names, which are spliced
// into the query text rather than bound.
func validateIdentifier(name string) error {
	if !identifierRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidTable, name)
	}
	return nil
}

func deedQuery(table, orderBy string) string {
	return `
		SELECT
			Municipality_Title_Deed, Hajry_Plot_Number, Mazaya, Title, Reference_Deed, Building_No
		FROM ` + table + `
		ORDER BY ` + orderBy
}

// QueryDeeds reads the whole deed table in a stable order.
func (d *Database) QueryDeeds(ctx context.Context) ([]types.DeedRecord, error) {
	rows, err := d.db.QueryContext(ctx, deedQuery(d.config.Table, d.config.OrderBy))
	if err != nil {
		return nil, fmt.Errorf("failed to query deeds: %w", err)
	}
	defer rows.Close()

	var records []types.DeedRecord
	for rows.Next() {
		var muni, plot, mazaya, title, ref, building sql.NullString
		if err := rows.Scan(&muni, &plot, &mazaya, &title, &ref, &building); err != nil {
			return nil, fmt.Errorf("failed to scan deed: %w", err)
		}
		records = append(records, types.DeedRecord{
			MunicipalityTitleDeed: strings.TrimSpace(muni.String),
			HajryPlotNumber:       strings.TrimSpace(plot.String),
			Mazaya:                strings.TrimSpace(mazaya.String),
			Title:                 strings.TrimSpace(title.String),
			ReferenceDeed:         strings.TrimSpace(ref.String),
			BuildingNo:            strings.TrimSpace(building.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read deeds: %w", err)
	}

	return records, nil
}

// LoadDatabaseConfig reads DB_* settings from the environment, after merging
// a .env file from the working directory if there is one.
func LoadDatabaseConfig() DBConfig {
	_ = loadEnvFile(".env")

	return DBConfig{
		Host:           getEnvOrDefault("DB_HOST", "localhost"),
		Port:           getEnvOrDefault("DB_PORT", "1521"),
		Service:        getEnvOrDefault("DB_SERVICE", "XE"),
		Username:       getEnvOrDefault("DB_USERNAME", ""),
		Password:       getEnvOrDefault("DB_PASSWORD", ""),
		WalletLocation: getEnvOrDefault("DB_WALLET_LOCATION", ""),
		Table:          getEnvOrDefault("DB_TABLE", "DEED_RECORDS"),
		OrderBy:        getEnvOrDefault("DB_ORDER_BY", "DEED_ID"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
