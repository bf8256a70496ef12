package config

import (
	"strings"
	"time"

	gconfig "github.com/Laisky/go-config/v2"

	"github.com/dsg/pharmacy-finder/library/pharmacy"
	"github.com/dsg/pharmacy-finder/library/postcode"
)

// Keys of the settings file.
const (
	KeyBackendBaseURL     = "settings.backend.base_url"
	KeyBackendTimeout     = "settings.backend.timeout"
	KeyBackendDirectHosts = "settings.backend.direct_hosts"
	KeyDropStaleResponses = "settings.finder.drop_stale_responses"
	KeyComposeHangul      = "settings.finder.compose_hangul"
	KeyKakaoAPIKey        = "settings.picker.kakao_rest_api_key"
	KeyKakaoEndpoint      = "settings.picker.kakao_endpoint"
	KeyPostcodeScriptURL  = "settings.picker.postcode_script_url"
	KeyWebListen          = "settings.web.listen"
	KeyWebCORSOrigins     = "settings.web.cors.allowed_origins"
	KeyWebRatePerSecond   = "settings.web.rate_limit.per_second"
	KeyWebRateBurst       = "settings.web.rate_limit.burst"
	KeyWebTitle           = "settings.web.title"
)

// DefaultTitle is the page title of the web front.
const DefaultTitle = "약국 추천 서비스"

// Backend is the pharmacy backend section.
type Backend struct {
	BaseURL string
	// Timeout is zero unless configured; zero means no timeout.
	Timeout     time.Duration
	DirectHosts []string
}

// Picker is the address picker section.
type Picker struct {
	KakaoAPIKey   string
	KakaoEndpoint string
	ScriptURL     string
}

// Web is the web front section.
type Web struct {
	Listen         string
	AllowedOrigins []string
	// RatePerSecond <= 0 disables the limiter.
	RatePerSecond float64
	RateBurst     int
	Title         string
}

// Settings is the typed view of the loaded configuration.
type Settings struct {
	Backend            Backend
	DropStaleResponses bool
	// ComposeHangul composes typed addresses to NFC before they are posted.
	// Off unless configured; the backend then receives the typed bytes.
	ComposeHangul bool
	Picker        Picker
	Web           Web
}

// Getter returns the raw value of a dotted key, or nil when unset.
type Getter func(key string) any

// Shared reads Settings from gconfig.Shared.
func Shared() Settings {
	return FromGetter(func(key string) any {
		return gconfig.Shared.Get(key)
	})
}

// FromGetter reads Settings through get, filling defaults for unset keys.
// Malformed values fall back to defaults; check-config reports them.
func FromGetter(get Getter) Settings {
	s := Settings{
		Backend: Backend{
			BaseURL:     stringValue(get(KeyBackendBaseURL), ""),
			Timeout:     durationValue(get(KeyBackendTimeout)),
			DirectHosts: stringsValue(get(KeyBackendDirectHosts), pharmacy.DefaultDirectHosts),
		},
		DropStaleResponses: boolValue(get(KeyDropStaleResponses), true),
		ComposeHangul:      boolValue(get(KeyComposeHangul), false),
		Picker: Picker{
			KakaoAPIKey:   stringValue(get(KeyKakaoAPIKey), ""),
			KakaoEndpoint: stringValue(get(KeyKakaoEndpoint), postcode.DefaultKakaoEndpoint),
			ScriptURL:     stringValue(get(KeyPostcodeScriptURL), postcode.DefaultScriptURL),
		},
		Web: Web{
			Listen:         stringValue(get(KeyWebListen), "localhost:8080"),
			AllowedOrigins: stringsValue(get(KeyWebCORSOrigins), nil),
			RatePerSecond:  floatValue(get(KeyWebRatePerSecond), 0),
			RateBurst:      intValue(get(KeyWebRateBurst), 0),
			Title:          stringValue(get(KeyWebTitle), DefaultTitle),
		},
	}

	if s.Web.RatePerSecond > 0 && s.Web.RateBurst <= 0 {
		s.Web.RateBurst = int(s.Web.RatePerSecond) + 1
	}
	return s
}

func stringValue(raw any, fallback string) string {
	v, err := ParseStrictString(raw)
	if err != nil || strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}

func boolValue(raw any, fallback bool) bool {
	v, ok := ParseStrictBool(raw)
	if !ok {
		return fallback
	}
	return v
}

func intValue(raw any, fallback int) int {
	v, err := ParseStrictInt(raw)
	if err != nil {
		return fallback
	}
	return v
}

func floatValue(raw any, fallback float64) float64 {
	v, err := ParseStrictFloat(raw)
	if err != nil {
		return fallback
	}
	return v
}

func durationValue(raw any) time.Duration {
	if raw == nil {
		return 0
	}
	d, err := ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}

func stringsValue(raw any, fallback []string) []string {
	if raw == nil {
		return fallback
	}
	v, err := ParseStringList(raw)
	if err != nil || len(v) == 0 {
		return fallback
	}
	return v
}
