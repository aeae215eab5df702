package mamba

import (
	"encoding/json"
	"fmt"

	errs "mambascraper/pkg/errors"
)

// Extract decodes a search response body into its items and next cursor.
// Any structural problem yields a parse error carrying body unchanged.
func Extract(body []byte) (*Page, error) {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, parseError("failed to decode JSON", body, err)
	}

	if resp.Items == nil {
		return nil, parseError("response has no items", body, nil)
	}

	items := make([]Item, 0, len(*resp.Items))
	for i, raw := range *resp.Items {
		if raw.Profile == nil || raw.Profile.ID.IsZero() {
			return nil, parseError(fmt.Sprintf("item %d has no profile id", i), body, nil)
		}
		if raw.Userpic == nil || raw.Userpic.Huge == "" {
			return nil, parseError(fmt.Sprintf("item %d has no image url", i), body, nil)
		}
		items = append(items, Item{
			ID:       raw.Profile.ID.String(),
			ImageURL: raw.Userpic.Huge,
		})
	}

	if resp.Cursor == nil {
		return nil, parseError("response has no cursor, maybe no items left", body, nil)
	}
	if resp.Cursor.SearchID.IsZero() || resp.Cursor.SearcherOffset.IsZero() {
		return nil, parseError("response cursor is empty, maybe no items left", body, nil)
	}

	return &Page{Items: items, Cursor: *resp.Cursor}, nil
}

func parseError(msg string, body []byte, cause error) error {
	return &errs.Error{
		Type:    errs.ErrorTypeParse,
		Message: msg,
		Body:    body,
		Err:     cause,
	}
}
