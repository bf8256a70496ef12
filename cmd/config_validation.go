package cmd

import (
	"fmt"
	"net/url"
	"strings"

	errors "github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/spf13/cobra"

	"github.com/dsg/pharmacy-finder/library/config"
)

// configGetter retrieves raw configuration values by dotted key path.
type configGetter = config.Getter

var checkConfigCMD = &cobra.Command{
	Use:   "check-config",
	Short: "validate the settings file",
	Long:  `load the settings file and print every problem found`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := gconfig.Shared.BindPFlags(cmd.Flags()); err != nil {
			return errors.Wrap(err, "bind pflags")
		}
		setupSettings(cmd.Context())
		setupLogger(cmd.Context())

		if err := validateStartupConfig(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "configuration ok")
		return nil
	},
}

func init() {
	rootCMD.AddCommand(checkConfigCMD)
}

// validateStartupConfig validates startup configuration from the shared config source.
// It returns an error when any configured value is malformed or violates constraints.
func validateStartupConfig() error {
	return validateStartupConfigWithGetter(func(key string) any {
		return gconfig.Shared.Get(key)
	})
}

// validateStartupConfigWithGetter validates startup configuration via a key-value getter.
// It accepts a value getter and returns nil when all configured values are valid.
func validateStartupConfigWithGetter(get configGetter) error {
	if get == nil {
		return errors.New("config getter is nil")
	}

	validationErrs := make([]string, 0)

	validateBackendConfig(get, &validationErrs)
	validateFinderConfig(get, &validationErrs)
	validatePickerConfig(get, &validationErrs)
	validateWebConfig(get, &validationErrs)

	if len(validationErrs) == 0 {
		return nil
	}

	return errors.Errorf("invalid configuration:\n - %s", strings.Join(validationErrs, "\n - "))
}

// validateBackendConfig validates the pharmacy backend section.
func validateBackendConfig(get configGetter, errs *[]string) {
	if get(config.KeyBackendBaseURL) == nil {
		appendValidationError(errs, "%s is required", config.KeyBackendBaseURL)
	} else {
		validateOptionalHTTPURL(get, config.KeyBackendBaseURL, errs)
	}

	validateOptionalDuration(get, config.KeyBackendTimeout, errs)
	validateOptionalHostList(get, config.KeyBackendDirectHosts, errs)
}

func validateFinderConfig(get configGetter, errs *[]string) {
	validateOptionalBool(get, config.KeyDropStaleResponses, errs)
	validateOptionalBool(get, config.KeyComposeHangul, errs)
}

// validatePickerConfig validates the address picker section.
// An empty API key is allowed; the terminal picker then stays "not ready".
func validatePickerConfig(get configGetter, errs *[]string) {
	validateOptionalURL(get, config.KeyKakaoEndpoint, errs)
	validateOptionalStringNonEmpty(get, config.KeyPostcodeScriptURL, errs)
}

// validateWebConfig validates the web front section.
func validateWebConfig(get configGetter, errs *[]string) {
	validateOptionalStringNonEmpty(get, config.KeyWebListen, errs)
	validateOptionalStringNonEmpty(get, config.KeyWebTitle, errs)
	validateOptionalFloatPositive(get, config.KeyWebRatePerSecond, errs)
	validateOptionalIntMin(get, config.KeyWebRateBurst, 1, errs)

	raw := get(config.KeyWebCORSOrigins)
	if raw == nil {
		return
	}
	origins, err := config.ParseStringList(raw)
	if err != nil {
		appendValidationError(errs, "%s must be a list of origins", config.KeyWebCORSOrigins)
		return
	}
	for _, origin := range origins {
		if origin == "*" {
			continue
		}
		parsed, err := url.Parse(origin)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			appendValidationError(errs, "%s contains invalid origin %q", config.KeyWebCORSOrigins, origin)
		}
	}
}

// validateOptionalHTTPURL validates an optionally configured absolute http(s) URL key.
func validateOptionalHTTPURL(get configGetter, key string, errs *[]string) {
	before := len(*errs)
	validateOptionalURL(get, key, errs)
	if len(*errs) != before {
		return
	}

	value, _ := config.ParseStrictString(get(key))
	parsed, _ := url.Parse(strings.TrimSpace(value))
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		appendValidationError(errs, "%s must use http or https", key)
	}
}

// validateOptionalDuration accepts a Go duration string or a number of seconds.
func validateOptionalDuration(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	if _, err := config.ParseDuration(raw); err != nil {
		appendValidationError(errs, "%s must be a non-negative duration like `5s` or seconds", key)
	}
}

// validateOptionalHostList validates a list of bare hosts.
func validateOptionalHostList(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	hosts, err := config.ParseStringList(raw)
	if err != nil {
		appendValidationError(errs, "%s must be a list of hosts", key)
		return
	}
	for _, host := range hosts {
		if !isValidHost(host) {
			appendValidationError(errs, "%s contains invalid host %q", key, host)
		}
	}
}

// validateOptionalBool validates an optionally configured boolean key.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalBool(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	if _, ok := config.ParseStrictBool(raw); !ok {
		appendValidationError(errs, "%s must be a boolean", key)
	}
}

// validateOptionalIntMin validates an optionally configured integer key with a minimum constraint.
// It accepts a getter, the key, a minimum value, and an error collector pointer and appends validation errors.
func validateOptionalIntMin(get configGetter, key string, min int, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := config.ParseStrictInt(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be an integer", key)
		return
	}

	if value < min {
		appendValidationError(errs, "%s must be >= %d", key, min)
	}
}

// validateOptionalFloatPositive validates an optionally configured positive float key.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalFloatPositive(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := config.ParseStrictFloat(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be a float", key)
		return
	}

	if value <= 0 {
		appendValidationError(errs, "%s must be > 0", key)
	}
}

// validateOptionalURL validates an optionally configured absolute URL key.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalURL(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := config.ParseStrictString(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be a string URL", key)
		return
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		appendValidationError(errs, "%s must not be empty", key)
		return
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		appendValidationError(errs, "%s must be a valid absolute URL", key)
	}
}

// validateOptionalStringNonEmpty validates an optionally configured non-empty string key.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalStringNonEmpty(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := config.ParseStrictString(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be a string", key)
		return
	}

	if strings.TrimSpace(value) == "" {
		appendValidationError(errs, "%s must not be empty", key)
	}
}

// isValidHost validates a host string without scheme or path components.
// It accepts a host string and returns true when the host is syntactically acceptable.
func isValidHost(host string) bool {
	trimmed := strings.TrimSpace(host)
	if trimmed == "" {
		return false
	}
	if strings.Contains(trimmed, "://") || strings.Contains(trimmed, "/") {
		return false
	}
	return true
}

// appendValidationError appends a formatted validation error to the collector.
// It accepts an error slice pointer, a format string, and format arguments, and has no return value.
func appendValidationError(errs *[]string, format string, args ...any) {
	if errs == nil {
		return
	}
	*errs = append(*errs, fmt.Sprintf(format, args...))
}
