package database

import (
	"fmt"
	"net/url"

	"github.com/greerreNFL/nfelomarket-data/internal/config"
)

// ApplicationName is reported to the server as application_name.
const ApplicationName = "nfelomarket-lines"

// BuildConnString builds a PostgreSQL connection URL from config. An empty
// password is left out of the userinfo.
func BuildConnString(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	user := url.User(cfg.User)
	if cfg.Password != "" {
		user = url.UserPassword(cfg.User, cfg.Password)
	}

	q := url.Values{}
	q.Set("sslmode", sslMode)
	q.Set("application_name", ApplicationName)

	u := url.URL{
		Scheme:   "postgres",
		User:     user,
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}
