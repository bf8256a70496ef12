package finder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dsg/pharmacy-finder/library/pharmacy"
)

func TestRenderBeforeFirstSearch(t *testing.T) {
	view := Render(false, StatusIdle, "", nil)
	require.False(t, view.Visible)
	require.Empty(t, view.Header)
	require.Zero(t, view.Placeholders)
	require.Empty(t, view.Cards)
}

func TestRenderSearching(t *testing.T) {
	view := Render(true, StatusSearching, "서울시 강남구", nil)
	require.True(t, view.Visible)
	require.True(t, view.Loading)
	require.Equal(t, "검색 중...", view.Header)
	require.Equal(t, 3, view.Placeholders)
	require.Empty(t, view.Cards)
}

func TestRenderResults(t *testing.T) {
	results := []pharmacy.Result{
		{
			Name:          "참된약국",
			Address:       "서울시 강남구 역삼동 1",
			DistanceLabel: "0.25 km",
			Direction:     pharmacy.Pending("3LM"),
			RoadViewURL:   "https://map.kakao.com/link/roadview/37.5,127.0",
		},
		{
			Name:          "건강약국",
			Address:       "서울시 강남구 역삼동 2",
			DistanceLabel: "0.40 km",
			Direction:     pharmacy.Ready("https://map.kakao.com/link/to/건강약국,37.5,127.0"),
		},
	}

	view := Render(true, StatusSucceeded, "서울시 강남구", results)
	require.True(t, view.Visible)
	require.False(t, view.Loading)
	require.Equal(t, "서울시 강남구 주변 약국 2곳", view.Header)
	require.Zero(t, view.Placeholders)
	require.Len(t, view.Cards, 2)

	require.Equal(t, "참된약국", view.Cards[0].Name)
	require.Equal(t, "거리: 0.25 km", view.Cards[0].Distance)
	require.Equal(t, "3LM", view.Cards[0].Direction.ID())
	require.Equal(t, results[0].RoadViewURL, view.Cards[0].RoadViewURL)
	require.Equal(t, "건강약국", view.Cards[1].Name)
	require.True(t, view.Cards[1].Direction.IsReady())
}

func TestRenderEmptyAndFailed(t *testing.T) {
	for _, status := range []Status{StatusSucceeded, StatusFailed} {
		view := Render(true, status, "없는주소", []pharmacy.Result{})
		require.True(t, view.Visible, status.String())
		require.Equal(t, "없는주소 주변에 추천 약국이 없습니다.", view.Header)
		require.Empty(t, view.Cards)
	}
}
