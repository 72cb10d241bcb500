package model

import "time"

// NewsItem is a generated kid-friendly headline about one catalog symbol.
type NewsItem struct {
	Symbol    string    `json:"symbol"`
	Headline  string    `json:"headline"`
	Sentiment string    `json:"sentiment"` // up | down | neutral
	CreatedAt time.Time `json:"createdAt"`
}
