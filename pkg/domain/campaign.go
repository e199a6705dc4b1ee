package domain

import "time"

// ExpirationDateLayout is the wire format for campaign expiration dates.
const ExpirationDateLayout = "2006-01-02"

// Campaign is a point-threshold reward program owned by a single store.
type Campaign struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	PointsRequired int    `json:"pointsRequired"`
	IsActive       bool   `json:"isActive"`
	ExpirationDate string `json:"expirationDate"` // YYYY-MM-DD
	StoreID        int64  `json:"storeId"`
}

// Expired reports whether the campaign's expiration date is strictly before
// today's calendar date. Time of day is ignored: a campaign expiring today is
// still live. The result is derived on every render and never written back —
// expiration does not mutate IsActive, the server owns that flag.
// Unparseable dates count as not expired.
func (c Campaign) Expired(now time.Time) bool {
	d, err := time.ParseInLocation(ExpirationDateLayout, c.ExpirationDate, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return d.Before(today)
}
