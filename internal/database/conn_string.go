package database

import (
	"net"
	"net/url"
	"strconv"

	"github.com/rickgao/prob-markets/internal/config"
)

// ApplicationName tags archive connections in pg_stat_activity.
const ApplicationName = "prob-markets"

// BuildConnString builds a PostgreSQL connection URL from config. The
// password is userinfo-escaped so special characters survive.
func BuildConnString(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = config.DefaultDBSSLMode
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": {sslMode}, "application_name": {ApplicationName}}.Encode(),
	}
	return u.String()
}
