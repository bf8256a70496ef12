// Package postcode models the postal-code picker collaborator: the record a
// picker hands back on completion, and a Kakao local address lookup that
// backs the terminal picker.
package postcode

import "strings"

// DefaultScriptURL is the hosted Daum postcode widget used by the web page.
const DefaultScriptURL = "//t1.daumcdn.net/mapjsapi/bundle/postcode/prod/postcode.v2.js"

// Completion is the record a picker supplies once per open/select cycle.
// Only Address is forwarded to the search.
type Completion struct {
	Address      string `json:"address"`
	AddressType  string `json:"addressType"`
	Bname        string `json:"bname"`
	BuildingName string `json:"buildingName"`
	Zonecode     string `json:"zonecode"`
	JibunAddress string `json:"jibunAddress,omitempty"`
	RoadAddress  string `json:"roadAddress,omitempty"`
}

// FullAddress returns the formatted address that is forwarded downstream.
func (c Completion) FullAddress() string {
	return strings.TrimSpace(c.Address)
}

// Address types reported by the widget.
const (
	AddressTypeRoad  = "R"
	AddressTypeJibun = "J"
)
