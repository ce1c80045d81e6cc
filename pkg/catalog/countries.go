package catalog

import (
	_ "embed"
	"encoding/json"
	"strings"
	"sync"
)

//go:embed countries.json
var countriesData []byte

var (
	countriesOnce sync.Once
	countryIDs    map[string]int
)

// DefaultCountryFilterID is used when the caller does not say where the
// vehicle is registered. Germany has the broadest catalog coverage.
const DefaultCountryFilterID = 62

// CountryFilterID resolves a country name to the catalog's country filter id.
// Matching is case insensitive; unknown names fall back to the default.
func CountryFilterID(name string) int {
	countriesOnce.Do(func() {
		countryIDs = make(map[string]int)
		var raw map[string]int
		if err := json.Unmarshal(countriesData, &raw); err != nil {
			return
		}
		for k, v := range raw {
			countryIDs[strings.ToLower(strings.TrimSpace(k))] = v
		}
	})

	if id, ok := countryIDs[strings.ToLower(strings.TrimSpace(name))]; ok {
		return id
	}
	return DefaultCountryFilterID
}
