package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/require"

	"github.com/dsg/pharmacy-finder/internal/finder"
	"github.com/dsg/pharmacy-finder/library/pharmacy"
)

func TestPrintResultsAlignsHangul(t *testing.T) {
	view := finder.Render(true, finder.StatusSucceeded, "서울시 강남구", []pharmacy.Result{
		{Name: "참된약국", Address: "역삼동 1", DistanceLabel: "0.25 km"},
		{Name: "ABC Pharmacy", Address: "역삼동 2", DistanceLabel: "0.40 km"},
	})

	var buf bytes.Buffer
	printResults(&buf, view)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "서울시 강남구 주변 약국 2곳", lines[0])

	col := func(line, marker string) int {
		return runewidth.StringWidth(line[:strings.Index(line, marker)])
	}
	require.Equal(t, col(lines[1], "거리:"), col(lines[2], "거리:"))
}

func TestPrintResultsEmpty(t *testing.T) {
	var buf bytes.Buffer
	printResults(&buf, finder.Render(true, finder.StatusFailed, "없는주소", nil))
	require.Equal(t, "없는주소 주변에 추천 약국이 없습니다.\n", buf.String())

	buf.Reset()
	printResults(&buf, finder.Render(false, finder.StatusIdle, "", nil))
	require.Empty(t, buf.String())
}
