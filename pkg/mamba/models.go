package mamba

// Item is one profile listing entry
type Item struct {
	ID       string
	ImageURL string
}

// Page is a decoded search response
type Page struct {
	Items  []Item
	Cursor Cursor
}

// searchResponse mirrors the parts of the search response the scraper reads.
// Pointers distinguish absent keys from empty values.
type searchResponse struct {
	Items  *[]rawItem `json:"items"`
	Cursor *Cursor    `json:"cursor"`
}

type rawItem struct {
	Profile *struct {
		ID Value `json:"id"`
	} `json:"profile"`
	Userpic *struct {
		Huge string `json:"huge"`
	} `json:"userpic"`
}
