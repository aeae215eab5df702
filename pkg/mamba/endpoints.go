package mamba

import (
	"net/url"
	"strconv"
)

const (
	// DefaultStatusNames restricts results to profiles with a verified photo
	DefaultStatusNames = "hasVerifiedPhoto"

	// DefaultLimit is the page size the search UI itself requests
	DefaultLimit = 56
)

// SearchParams builds the query for the page addressed by cursor. Cursor
// fields are sent as they are; cursor[type] only when the cursor carries one,
// which a fresh cursor never does.
func SearchParams(cursor Cursor, statusNames string, limit int) url.Values {
	if statusNames == "" {
		statusNames = DefaultStatusNames
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	params := url.Values{}
	params.Set("statusNames", statusNames)
	params.Set("limit", strconv.Itoa(limit))

	params.Set("cursor[searchId]", cursor.SearchID.String())
	params.Set("cursor[searcherOffset]", cursor.SearcherOffset.String())
	if cursor.Type != "" {
		params.Set("cursor[type]", cursor.Type)
	}

	return params
}

// SearchURL returns the full search request URL for cursor
func SearchURL(apiURL string, cursor Cursor, statusNames string, limit int) (string, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return "", err
	}

	query := u.Query()
	for key, values := range SearchParams(cursor, statusNames, limit) {
		query[key] = values
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}
