package config

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
)

// ParseStrictBool parses a value as boolean using strict conversion rules.
// It accepts a raw value and returns the parsed boolean and whether parsing succeeded.
func ParseStrictBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case int:
		return v != 0, true
	case int64:
		return v != 0, true
	case float64:
		if math.Trunc(v) != v {
			return false, false
		}
		return int64(v) != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		default:
			return false, false
		}
	default:
		return false, false
	}
}

// ParseStrictInt parses a value as a strict integer.
func ParseStrictInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if math.Trunc(v) != v {
			return 0, errors.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, errors.New("empty integer string")
		}
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, errors.Wrap(err, "atoi")
		}
		return parsed, nil
	default:
		return 0, errors.Errorf("unsupported int type %T", value)
	}
}

// ParseStrictFloat parses a value as a strict floating-point number.
func ParseStrictFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, errors.New("empty float string")
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, errors.Wrap(err, "parse float")
		}
		return parsed, nil
	default:
		return 0, errors.Errorf("unsupported float type %T", value)
	}
}

// ParseStrictString parses a value as a strict string.
func ParseStrictString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", errors.Errorf("unsupported string type %T", value)
	}
}

// ParseDuration accepts a Go duration string like "5s" or a number of
// seconds. Negative durations are rejected.
func ParseDuration(value any) (time.Duration, error) {
	var d time.Duration
	switch v := value.(type) {
	case time.Duration:
		d = v
	case string, []byte:
		text, _ := ParseStrictString(v)
		parsed, err := time.ParseDuration(strings.TrimSpace(text))
		if err != nil {
			return 0, errors.Wrap(err, "parse duration")
		}
		d = parsed
	default:
		secs, err := ParseStrictFloat(value)
		if err != nil {
			return 0, errors.Errorf("unsupported duration type %T", value)
		}
		d = time.Duration(secs * float64(time.Second))
	}

	if d < 0 {
		return 0, errors.Errorf("negative duration %s", d)
	}
	return d, nil
}

// ParseStringList parses a YAML list or a comma separated string, dropping
// blank items.
func ParseStringList(value any) ([]string, error) {
	var items []string
	switch v := value.(type) {
	case []string:
		items = v
	case []any:
		for _, item := range v {
			s, err := ParseStrictString(item)
			if err != nil {
				return nil, errors.Wrap(err, "list item")
			}
			items = append(items, s)
		}
	case string:
		items = strings.Split(v, ",")
	default:
		return nil, errors.Errorf("unsupported list type %T", value)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, nil
}
