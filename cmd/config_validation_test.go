package cmd

import (
	"strings"
	"testing"
	"time"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/stretchr/testify/require"

	"github.com/dsg/pharmacy-finder/library/config"
)

func validSettings() map[string]any {
	return map[string]any{
		"settings": map[string]any{
			"backend": map[string]any{
				"base_url":     "http://localhost:8080",
				"timeout":      "10s",
				"direct_hosts": []any{"map.kakao.com"},
			},
			"finder": map[string]any{"drop_stale_responses": true},
			"picker": map[string]any{
				"kakao_rest_api_key": "kakao-key",
				"kakao_endpoint":     "https://dapi.kakao.com/v2/local/search/address.json",
			},
			"web": map[string]any{
				"listen": "localhost:3000",
				"cors": map[string]any{
					"allowed_origins": []any{"http://localhost:3000"},
				},
				"rate_limit": map[string]any{"per_second": 5, "burst": 10},
			},
		},
	}
}

// TestValidateStartupConfigWithGetterMissingBaseURL verifies the backend origin is required.
func TestValidateStartupConfigWithGetterMissingBaseURL(t *testing.T) {
	err := validateStartupConfigWithGetter(newMapConfigGetter(map[string]any{}))
	require.Error(t, err)
	require.Contains(t, err.Error(), "settings.backend.base_url is required")
}

// TestValidateStartupConfigWithGetterValidConfig verifies valid explicit configuration passes validation.
func TestValidateStartupConfigWithGetterValidConfig(t *testing.T) {
	err := validateStartupConfigWithGetter(newMapConfigGetter(validSettings()))
	require.NoError(t, err)
}

// TestValidateStartupConfigWithGetterInvalidValues verifies every malformed value is reported.
func TestValidateStartupConfigWithGetterInvalidValues(t *testing.T) {
	cfg := validSettings()
	settings := cfg["settings"].(map[string]any)
	backend := settings["backend"].(map[string]any)
	backend["base_url"] = "ftp://localhost"
	backend["timeout"] = "soon"
	backend["direct_hosts"] = []any{"https://map.kakao.com/link"}
	settings["finder"] = map[string]any{"drop_stale_responses": "maybe", "compose_hangul": "sometimes"}
	web := settings["web"].(map[string]any)
	web["rate_limit"] = map[string]any{"per_second": -1, "burst": 0}
	web["cors"] = map[string]any{"allowed_origins": []any{"localhost"}}

	err := validateStartupConfigWithGetter(newMapConfigGetter(cfg))
	require.Error(t, err)
	for _, key := range []string{
		"settings.backend.base_url must use http or https",
		"settings.backend.timeout",
		"settings.backend.direct_hosts contains invalid host",
		"settings.finder.drop_stale_responses must be a boolean",
		"settings.finder.compose_hangul must be a boolean",
		"settings.web.rate_limit.per_second must be > 0",
		"settings.web.rate_limit.burst must be >= 1",
		"settings.web.cors.allowed_origins contains invalid origin",
	} {
		require.Contains(t, err.Error(), key)
	}
}

// TestValidateStartupConfigWithGetterNumericTimeout verifies timeouts may be given in seconds.
func TestValidateStartupConfigWithGetterNumericTimeout(t *testing.T) {
	cfg := validSettings()
	cfg["settings"].(map[string]any)["backend"].(map[string]any)["timeout"] = 3
	require.NoError(t, validateStartupConfigWithGetter(newMapConfigGetter(cfg)))

	cfg["settings"].(map[string]any)["backend"].(map[string]any)["timeout"] = -3
	require.Error(t, validateStartupConfigWithGetter(newMapConfigGetter(cfg)))
}

// TestValidateStartupConfigWithGetterWildcardOrigin verifies the `*` origin is accepted.
func TestValidateStartupConfigWithGetterWildcardOrigin(t *testing.T) {
	cfg := validSettings()
	cfg["settings"].(map[string]any)["web"].(map[string]any)["cors"] = map[string]any{
		"allowed_origins": "*",
	}
	require.NoError(t, validateStartupConfigWithGetter(newMapConfigGetter(cfg)))
}

// TestValidateStartupConfigWithGetterNil verifies a nil getter is rejected.
func TestValidateStartupConfigWithGetterNil(t *testing.T) {
	require.Error(t, validateStartupConfigWithGetter(nil))
}

// newMapConfigGetter builds a dotted-path getter for nested map-based test configuration.
// It accepts a nested map and returns a getter function compatible with validateStartupConfigWithGetter.
func newMapConfigGetter(root map[string]any) configGetter {
	return func(key string) any {
		if key == "" {
			return nil
		}

		parts := strings.Split(key, ".")
		var current any = root
		for _, part := range parts {
			nextMap, ok := current.(map[string]any)
			if !ok {
				return nil
			}

			next, exists := nextMap[part]
			if !exists {
				return nil
			}
			current = next
		}

		return current
	}
}

// TestValidatedValuesAreRead verifies every value check-config accepts is
// read as configured rather than replaced by a default.
func TestValidatedValuesAreRead(t *testing.T) {
	cfg := validSettings()
	settings := cfg["settings"].(map[string]any)
	settings["backend"].(map[string]any)["timeout"] = 2.5
	settings["finder"] = map[string]any{"drop_stale_responses": "no", "compose_hangul": 1}
	settings["web"].(map[string]any)["rate_limit"] = map[string]any{"per_second": "3", "burst": "7"}

	get := newMapConfigGetter(cfg)
	require.NoError(t, validateStartupConfigWithGetter(get))

	s := config.FromGetter(get)
	require.Equal(t, 2500*time.Millisecond, s.Backend.Timeout)
	require.False(t, s.DropStaleResponses)
	require.True(t, s.ComposeHangul)
	require.InDelta(t, 3.0, s.Web.RatePerSecond, 1e-9)
	require.Equal(t, 7, s.Web.RateBurst)
}

// TestValidateStartupConfigReadsShared verifies check-config validates the
// same source config.Shared reads from.
func TestValidateStartupConfigReadsShared(t *testing.T) {
	original := gconfig.Shared.Get(config.KeyBackendBaseURL)
	t.Cleanup(func() { gconfig.Shared.Set(config.KeyBackendBaseURL, original) })

	gconfig.Shared.Set(config.KeyBackendBaseURL, "ftp://localhost")
	err := validateStartupConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "settings.backend.base_url must use http or https")

	gconfig.Shared.Set(config.KeyBackendBaseURL, "http://localhost:8080")
	require.NoError(t, validateStartupConfig())
	require.Equal(t, "http://localhost:8080", config.Shared().Backend.BaseURL)
}
