// Package pharmacy holds the pharmacy search result contract and the HTTP
// client for the recommendation backend.
package pharmacy

// Record is the wire shape of one search hit as returned by
// POST /api/direction/search. All fields are strings.
type Record struct {
	PharmacyName    string `json:"pharmacyName"`
	PharmacyAddress string `json:"pharmacyAddress"`
	DirectionURL    string `json:"directionUrl"`
	RoadViewURL     string `json:"roadViewUrl"`
	Distance        string `json:"distance"`
}

// SearchRequest is the body posted to the search endpoint.
type SearchRequest struct {
	Address string `json:"address"`
}

// Result is one ranked pharmacy hit.
//
// Results are never patched after receipt; a new search replaces the
// whole list.
type Result struct {
	Name    string
	Address string
	// DistanceLabel is pre-formatted by the backend (e.g. "0.25 km") and is
	// never parsed or used for ordering.
	DistanceLabel string
	Direction     DirectionRef
	RoadViewURL   string
}

// Record converts the result back to its wire shape, keeping the
// direction reference exactly as it was received.
func (r Result) Record() Record {
	return Record{
		PharmacyName:    r.Name,
		PharmacyAddress: r.Address,
		DirectionURL:    r.Direction.Raw(),
		RoadViewURL:     r.RoadViewURL,
		Distance:        r.DistanceLabel,
	}
}

// Records converts a result list to wire records, preserving order.
func Records(results []Result) []Record {
	records := make([]Record, 0, len(results))
	for _, r := range results {
		records = append(records, r.Record())
	}
	return records
}

// FromRecords ingests wire records in the order received. The direction
// reference of every record is classified once, here.
func FromRecords(records []Record, directHosts []string) []Result {
	results := make([]Result, 0, len(records))
	for _, rec := range records {
		results = append(results, Result{
			Name:          rec.PharmacyName,
			Address:       rec.PharmacyAddress,
			DistanceLabel: rec.Distance,
			Direction:     ParseDirectionRef(rec.DirectionURL, directHosts),
			RoadViewURL:   rec.RoadViewURL,
		})
	}
	return results
}
