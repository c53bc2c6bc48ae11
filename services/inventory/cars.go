// File: inventory/cars.go
package inventory

import (
	"fmt"
	"sort"
	"strings"

	"grotto/models"
)

// Catalogue is the static rental fleet the agent can talk about.
var Catalogue = []models.CarInfo{
	{
		Type:           "economy",
		Name:           "Economy Sedan",
		Make:           "Toyota",
		Model:          "Corolla",
		Year:           2023,
		PricePerDay:    45,
		Seats:          5,
		FuelEfficiency: 35,
		Features:       []string{"4 doors", "automatic", "AC", "Bluetooth"},
	},
	{
		Type:           "suv",
		Name:           "Mid-size SUV",
		Make:           "Honda",
		Model:          "CR-V",
		Year:           2024,
		PricePerDay:    75,
		Seats:          7,
		FuelEfficiency: 25,
		Features:       []string{"5 doors", "automatic", "AC", "4WD", "navigation"},
	},
	{
		Type:           "luxury",
		Name:           "Luxury Sedan",
		Make:           "BMW",
		Model:          "530i",
		Year:           2024,
		PricePerDay:    120,
		Seats:          5,
		FuelEfficiency: 28,
		Features:       []string{"4 doors", "automatic", "premium sound", "leather seats", "sunroof"},
	},
	{
		Type:           "van",
		Name:           "Family Van",
		Make:           "Chrysler",
		Model:          "Pacifica",
		Year:           2023,
		PricePerDay:    85,
		Seats:          8,
		FuelEfficiency: 22,
		Features:       []string{"sliding doors", "automatic", "AC", "entertainment system"},
	},
}

// Get returns the catalogue entry for a car type, or nil if unknown.
func Get(carType string) *models.CarInfo {
	for i := range Catalogue {
		if Catalogue[i].Type == strings.ToLower(carType) {
			return &Catalogue[i]
		}
	}
	return nil
}

// Summary renders the fleet as a short plain-text list for prompt building.
func Summary() string {
	var sb strings.Builder
	sb.WriteString("We have the following cars available:\n")
	for _, car := range Catalogue {
		fmt.Fprintf(&sb, "- %s (%d %s %s): $%.0f/day, %d seats, %d MPG\n",
			car.Name, car.Year, car.Make, car.Model, car.PricePerDay, car.Seats, car.FuelEfficiency)
	}
	return sb.String()
}

// TopCars filters and orders the catalogue by the given query. Zero-valued
// query fields are ignored.
func TopCars(q models.CarQuery) []models.CarInfo {
	var matched []models.CarInfo
	for _, car := range Catalogue {
		if !matches(car, q) {
			continue
		}
		matched = append(matched, car)
	}

	switch q.OrderBy {
	case "year":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Year > matched[j].Year })
	default: // price
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].PricePerDay < matched[j].PricePerDay })
	}

	if q.TopN > 0 && len(matched) > q.TopN {
		matched = matched[:q.TopN]
	}
	return matched
}

func matches(car models.CarInfo, q models.CarQuery) bool {
	if q.Type != "" && !strings.EqualFold(car.Type, q.Type) {
		return false
	}
	if len(q.Makes) > 0 && !containsFold(q.Makes, car.Make) {
		return false
	}
	if len(q.Models) > 0 && !containsFold(q.Models, car.Model) {
		return false
	}
	if q.YearGte > 0 && car.Year < q.YearGte {
		return false
	}
	if q.YearLte > 0 && car.Year > q.YearLte {
		return false
	}
	if q.BudgetLow > 0 && car.PricePerDay < q.BudgetLow {
		return false
	}
	if q.BudgetHigh > 0 && car.PricePerDay > q.BudgetHigh {
		return false
	}
	if q.SeatsGte > 0 && car.Seats < q.SeatsGte {
		return false
	}
	if q.FuelEffGte > 0 && car.FuelEfficiency < q.FuelEffGte {
		return false
	}
	for _, want := range q.Features {
		if !containsFold(car.Features, want) {
			return false
		}
	}
	return true
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
