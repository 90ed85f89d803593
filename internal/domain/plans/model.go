package plans

// Plan mirrors a recurring Stripe price. Rows are written only by the admin
// sync; the rest of the app treats the catalog as reference data.
type Plan struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	PriceBRL      float64 `json:"priceBRL"`
	StripePriceID string `gorm:"column:stripe_price_id;not null;uniqueIndex:idx_plans_stripe_price_id" json:"stripePriceId"`
	Interval      string `json:"interval"`
}
