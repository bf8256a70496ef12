package pharmacy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDirectionRef(t *testing.T) {
	tests := map[string]struct {
		raw       string
		wantReady bool
		wantURL   string
		wantID    string
	}{
		"backend short link":  {raw: "http://localhost:8080/api/direction/3LM", wantID: "3LM"},
		"legacy short link":   {raw: "https://pharmacy.example.com/dir/9Z2", wantID: "9Z2"},
		"trailing slash":      {raw: "https://pharmacy.example.com/api/direction/9Z2/", wantID: "9Z2"},
		"with query":          {raw: "https://pharmacy.example.com/api/direction/9Z2?utm=1", wantID: "9Z2"},
		"bare id":             {raw: "9Z2", wantID: "9Z2"},
		"empty":               {raw: "", wantID: ""},
		"kakao map":           {raw: "https://map.kakao.com/link/map/참된약국,37.5,127.0", wantReady: true, wantURL: "https://map.kakao.com/link/map/참된약국,37.5,127.0"},
		"kakao map uppercase": {raw: "https://MAP.KAKAO.COM/link/map/A,1,2", wantReady: true, wantURL: "https://MAP.KAKAO.COM/link/map/A,1,2"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ref := ParseDirectionRef(tc.raw, DefaultDirectHosts)
			require.Equal(t, tc.wantReady, ref.IsReady())
			require.Equal(t, tc.wantURL, ref.URL())
			require.Equal(t, tc.wantID, ref.ID())
			require.Equal(t, tc.raw, ref.Raw())
		})
	}
}

func TestResultRecordRoundTripKeepsRawDirection(t *testing.T) {
	records := []Record{
		{PharmacyName: "A", DirectionURL: "http://localhost:8080/api/direction/1"},
		{PharmacyName: "B", DirectionURL: "https://map.kakao.com/link/map/B,1,2"},
	}

	require.Equal(t, records, Records(FromRecords(records, DefaultDirectHosts)))
}
