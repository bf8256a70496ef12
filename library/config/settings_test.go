package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dsg/pharmacy-finder/library/pharmacy"
	"github.com/dsg/pharmacy-finder/library/postcode"
)

func mapGetter(root map[string]any) Getter {
	return func(key string) any {
		var current any = root
		for _, part := range strings.Split(key, ".") {
			m, ok := current.(map[string]any)
			if !ok {
				return nil
			}
			if current, ok = m[part]; !ok {
				return nil
			}
		}
		return current
	}
}

func TestFromGetterDefaults(t *testing.T) {
	s := FromGetter(mapGetter(map[string]any{}))

	require.Empty(t, s.Backend.BaseURL)
	require.Zero(t, s.Backend.Timeout)
	require.Equal(t, pharmacy.DefaultDirectHosts, s.Backend.DirectHosts)
	require.True(t, s.DropStaleResponses)
	require.Equal(t, postcode.DefaultKakaoEndpoint, s.Picker.KakaoEndpoint)
	require.Equal(t, postcode.DefaultScriptURL, s.Picker.ScriptURL)
	require.Equal(t, "localhost:8080", s.Web.Listen)
	require.Equal(t, DefaultTitle, s.Web.Title)
	require.Zero(t, s.Web.RatePerSecond)
}

func TestFromGetterValues(t *testing.T) {
	s := FromGetter(mapGetter(map[string]any{
		"settings": map[string]any{
			"backend": map[string]any{
				"base_url":     " http://localhost:8080 ",
				"timeout":      "5s",
				"direct_hosts": []any{"map.kakao.com", " m.map.kakao.com "},
			},
			"finder": map[string]any{"drop_stale_responses": false},
			"picker": map[string]any{"kakao_rest_api_key": "key"},
			"web": map[string]any{
				"listen": "0.0.0.0:3000",
				"cors":   map[string]any{"allowed_origins": "http://a.com, http://b.com"},
				"rate_limit": map[string]any{
					"per_second": 5,
				},
			},
		},
	}))

	require.Equal(t, "http://localhost:8080", s.Backend.BaseURL)
	require.Equal(t, 5*time.Second, s.Backend.Timeout)
	require.Equal(t, []string{"map.kakao.com", "m.map.kakao.com"}, s.Backend.DirectHosts)
	require.False(t, s.DropStaleResponses)
	require.Equal(t, "key", s.Picker.KakaoAPIKey)
	require.Equal(t, "0.0.0.0:3000", s.Web.Listen)
	require.Equal(t, []string{"http://a.com", "http://b.com"}, s.Web.AllowedOrigins)
	require.InDelta(t, 5.0, s.Web.RatePerSecond, 0.0001)
	require.Equal(t, 6, s.Web.RateBurst)
}

func TestFromGetterNumericTimeout(t *testing.T) {
	s := FromGetter(mapGetter(map[string]any{
		"settings": map[string]any{
			"backend": map[string]any{"timeout": 3},
		},
	}))
	require.Equal(t, 3*time.Second, s.Backend.Timeout)
}
