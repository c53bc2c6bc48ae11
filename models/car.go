package models

// CarInfo describes one rental car in the static catalogue.
type CarInfo struct {
	Type           string   `json:"type"` // "economy", "suv", "luxury", "van"
	Name           string   `json:"name"`
	Make           string   `json:"make"`
	Model          string   `json:"model"`
	Year           int      `json:"year"`
	PricePerDay    float64  `json:"price_per_day"`
	Seats          int      `json:"seats"`
	FuelEfficiency int      `json:"fuel_efficiency"` // MPG
	Features       []string `json:"features"`
}

// CarQuery filters the catalogue; zero values mean "no constraint".
type CarQuery struct {
	Makes      []string `json:"makes,omitempty"`
	Models     []string `json:"models,omitempty"`
	Type       string   `json:"type,omitempty"`
	YearGte    int      `json:"year_gte,omitempty"`
	YearLte    int      `json:"year_lte,omitempty"`
	BudgetLow  float64  `json:"budget_low,omitempty"`
	BudgetHigh float64  `json:"budget_high,omitempty"`
	SeatsGte   int      `json:"seats_gte,omitempty"`
	FuelEffGte int      `json:"fuel_efficiency_gte,omitempty"`
	Features   []string `json:"features,omitempty"`
	OrderBy    string   `json:"order_by,omitempty"` // "price", "year"
	TopN       int      `json:"top_n,omitempty"`
}
