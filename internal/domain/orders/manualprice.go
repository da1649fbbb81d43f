package orders

import (
	"maps"
	"time"
)

// ApplyManualPrice returns a copy of entries where every order whose orderId
// equals orderID carries the override. Entries are copied before they are
// changed, so entries itself is left as it was. matched counts the rewritten
// entries.
func ApplyManualPrice(entries []map[string]any, orderID string, price float64, uid string, now time.Time) (out []map[string]any, matched int) {
	out = make([]map[string]any, len(entries))
	for i, e := range entries {
		id, _ := e[fieldOrderID].(string)
		if id != orderID {
			out[i] = e
			continue
		}
		c := maps.Clone(e)
		c[fieldManualPrice] = price
		c[fieldManualPriceUpdatedAt] = now
		c[fieldManualPriceUpdateUID] = uid
		out[i] = c
		matched++
	}
	return out, matched
}
