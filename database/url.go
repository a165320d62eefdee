package database

import (
	"net/url"
	"strings"
)

// ConstructDatabaseURL points baseURL at databaseName. Query parameters are
// kept and sslmode=disable is added unless an sslmode is already set.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Host == "" {
		return baseURL
	}

	u.Path = "/" + databaseName
	u.RawPath = ""

	query := u.Query()
	if query.Get("sslmode") == "" {
		query.Set("sslmode", "disable")
	}
	u.RawQuery = query.Encode()

	return u.String()
}
