package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lib/pq"
)

const (
	postgresConnectAttemptsDefault = 5
	postgresConnectDelayDefault    = 2 * time.Second
)

// pgInvalidCatalogName SQLSTATE: ulanish satridagi baza mavjud emas
const pgInvalidCatalogName = "3D000"

type postgresDSNInfo struct {
	User   string
	Host   string
	Port   string
	DBName string
}

// String returns the DSN without the password, for logs.
func (p postgresDSNInfo) String() string {
	return fmt.Sprintf("%s@%s:%s/%s", p.User, p.Host, p.Port, p.DBName)
}

// openPostgresWithRetry Postgres'ga bir necha marta ulanishga urinadi
func openPostgresWithRetry(ctx context.Context, dsn string, attempts int, delay time.Duration) (*sql.DB, error) {
	if attempts <= 0 {
		attempts = postgresConnectAttemptsDefault
	}
	if delay <= 0 {
		delay = postgresConnectDelayDefault
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			if pingErr := db.PingContext(ctx); pingErr == nil {
				return db, nil
			} else {
				err = pingErr
			}
		}
		if db != nil {
			_ = db.Close()
		}
		lastErr = err
		if isDatabaseMissingError(err) {
			break
		}
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("postgres connection failed")
	}
	return nil, lastErr
}

func isDatabaseMissingError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgInvalidCatalogName
	}
	return false
}

func parsePostgresDSNInfo(dsn string) (postgresDSNInfo, bool) {
	trimmed := strings.TrimSpace(dsn)
	if trimmed == "" {
		return postgresDSNInfo{}, false
	}
	if strings.HasPrefix(trimmed, "postgres://") || strings.HasPrefix(trimmed, "postgresql://") {
		return parsePostgresURL(trimmed)
	}
	return parsePostgresKeyValue(trimmed)
}

func parsePostgresURL(raw string) (postgresDSNInfo, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return postgresDSNInfo{}, false
	}
	info := postgresDSNInfo{
		Host:   u.Hostname(),
		Port:   u.Port(),
		DBName: strings.TrimPrefix(u.Path, "/"),
	}
	if u.User != nil {
		info.User = u.User.Username()
	}
	if info.Port == "" {
		info.Port = "5432"
	}
	return info, true
}

func parsePostgresKeyValue(raw string) (postgresDSNInfo, bool) {
	info := postgresDSNInfo{}
	for _, part := range strings.Fields(raw) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		val := strings.Trim(kv[1], `"'`)
		switch strings.ToLower(strings.TrimSpace(kv[0])) {
		case "user", "username":
			info.User = val
		case "host":
			info.Host = val
		case "port":
			info.Port = val
		case "dbname", "database":
			info.DBName = val
		}
	}
	if info.Port == "" {
		info.Port = "5432"
	}
	if info.Host == "" && info.User == "" && info.DBName == "" {
		return postgresDSNInfo{}, false
	}
	return info, true
}
