package transform

import (
	"time"

	"github.com/alphacrucible/news-etl/extract"
)

// FilterByDate returns the items whose publish timestamp falls on the same
// calendar day as target, compared in the timestamp's own location. Items
// with a zero publish time are dropped.
func FilterByDate(items []extract.NewsItem, target time.Time) []extract.NewsItem {
	filtered := make([]extract.NewsItem, 0, len(items))
	for _, item := range items {
		if item.PublishedAt.IsZero() {
			continue
		}
		if sameDay(item.PublishedAt, target) {
			filtered = append(filtered, item)
		}
	}

	return filtered
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
