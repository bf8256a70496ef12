package finder

import (
	"fmt"

	"github.com/dsg/pharmacy-finder/library/pharmacy"
)

// PlaceholderCount is how many skeleton cards are shown while searching.
const PlaceholderCount = 3

// HeaderSearching is the results header while a request is in flight.
const HeaderSearching = "검색 중..."

// Card is one rendered pharmacy result.
type Card struct {
	Name     string
	Address  string
	Distance string
	// Direction is opened through DirectionResolver on click.
	Direction   pharmacy.DirectionRef
	RoadViewURL string
}

// ResultsView is everything the results region displays.
type ResultsView struct {
	// Visible is false until the first search; nothing is rendered then.
	Visible      bool
	Loading      bool
	Header       string
	Placeholders int
	Cards        []Card
}

// Render is the results rendering contract. It is a pure function of its
// arguments and keeps the order of results.
func Render(hasSearched bool, status Status, query string, results []pharmacy.Result) ResultsView {
	if !hasSearched {
		return ResultsView{}
	}

	if status == StatusSearching {
		return ResultsView{
			Visible:      true,
			Loading:      true,
			Header:       HeaderSearching,
			Placeholders: PlaceholderCount,
		}
	}

	if status == StatusSucceeded && len(results) > 0 {
		cards := make([]Card, 0, len(results))
		for _, r := range results {
			cards = append(cards, Card{
				Name:        r.Name,
				Address:     r.Address,
				Distance:    DistanceText(r.DistanceLabel),
				Direction:   r.Direction,
				RoadViewURL: r.RoadViewURL,
			})
		}
		return ResultsView{
			Visible: true,
			Header:  FoundHeader(query, len(results)),
			Cards:   cards,
		}
	}

	return ResultsView{
		Visible: true,
		Header:  EmptyHeader(query),
	}
}

// FoundHeader is the header above a non-empty result list.
func FoundHeader(query string, n int) string {
	return fmt.Sprintf("%s 주변 약국 %d곳", query, n)
}

// EmptyHeader is the header for an empty or failed search.
func EmptyHeader(query string) string {
	return fmt.Sprintf("%s 주변에 추천 약국이 없습니다.", query)
}

// DistanceText is the distance line of a card.
func DistanceText(label string) string {
	return "거리: " + label
}
