package pricing

// Price is a monthly on-demand list price.
type Price struct {
	MonthlyUSD float64
}

// Store resolves compute SKUs to list prices. Providers back their
// monthly_cost estimates with it when the billing API has no per-resource
// figure.
type Store interface {
	GetSkuPrice(sku string) Price
}

type staticStore struct {
	prices   map[string]float64
	fallback float64
}

// NewStaticStore builds a store over a fixed price list. SKUs not in the
// list resolve to the fallback price.
func NewStaticStore(prices map[string]float64, fallback float64) Store {
	return &staticStore{
		prices:   prices,
		fallback: fallback,
	}
}

func (s *staticStore) GetSkuPrice(sku string) Price {
	if price, ok := s.prices[sku]; ok {
		return Price{MonthlyUSD: price}
	}
	return Price{MonthlyUSD: s.fallback}
}
