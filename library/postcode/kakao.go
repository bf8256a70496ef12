package postcode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	"github.com/dsg/pharmacy-finder/library/log"
)

// DefaultKakaoEndpoint is the Kakao local address search API.
const DefaultKakaoEndpoint = "https://dapi.kakao.com/v2/local/search/address.json"

const (
	httpRequestTimeout = 10 * time.Second
	defaultPageSize    = 10
	logBodyLimit       = 4096
)

// Option configures the Lookup instance.
type Option func(*Lookup)

// WithHTTPClient overrides the HTTP client used to call Kakao.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Lookup) {
		if client != nil {
			l.client = client
		}
	}
}

// WithEndpoint overrides the Kakao address search endpoint, primarily for testing.
func WithEndpoint(endpoint string) Option {
	return func(l *Lookup) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			l.endpoint = trimmed
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger logSDK.Logger) Option {
	return func(l *Lookup) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithPageSize sets how many candidates are requested (Kakao allows 1-30).
func WithPageSize(size int) Option {
	return func(l *Lookup) {
		if size >= 1 && size <= 30 {
			l.pageSize = size
		}
	}
}

// Lookup finds address candidates through Kakao local address search.
type Lookup struct {
	apiKey   string
	client   *http.Client
	endpoint string
	pageSize int
	logger   logSDK.Logger
}

// NewKakaoLookup builds a Lookup authorised with a Kakao REST API key.
func NewKakaoLookup(apiKey string, opts ...Option) *Lookup {
	l := &Lookup{
		apiKey:   strings.TrimSpace(apiKey),
		client:   &http.Client{Timeout: httpRequestTimeout},
		endpoint: DefaultKakaoEndpoint,
		pageSize: defaultPageSize,
		logger:   log.Logger.Named("kakao_address"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Ready reports whether the lookup has credentials to run.
func (l *Lookup) Ready() bool {
	return l != nil && l.apiKey != ""
}

// Search returns candidates for query, best match first.
func (l *Lookup) Search(ctx context.Context, query string) ([]Completion, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, errors.New("address query cannot be empty")
	}
	if !l.Ready() {
		return nil, errors.New("kakao rest api key is not configured")
	}

	endpoint, err := url.Parse(l.endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid kakao endpoint %q", l.endpoint)
	}
	params := endpoint.Query()
	params.Set("query", trimmed)
	params.Set("size", strconv.Itoa(l.pageSize))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "create kakao request")
	}
	req.Header.Set("Authorization", "KakaoAK "+l.apiKey)
	req.Header.Set("Accept", "application/json")

	startAt := time.Now()
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send kakao request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read kakao response body")
	}

	truncated := string(body)
	if len(truncated) > logBodyLimit {
		truncated = truncated[:logBodyLimit]
	}
	l.logger.Debug("kakao address search",
		zap.String("query", trimmed),
		zap.Int("status", resp.StatusCode),
		zap.Duration("cost", time.Since(startAt)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("kakao returned status %d: %s", resp.StatusCode, truncated)
	}

	var payload kakaoResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrap(err, "unmarshal kakao response")
	}

	candidates := make([]Completion, 0, len(payload.Documents))
	for _, doc := range payload.Documents {
		if c, ok := doc.completion(); ok {
			candidates = append(candidates, c)
		}
	}

	return candidates, nil
}

// kakaoResponse models the subset of fields required from the Kakao response.
type kakaoResponse struct {
	Documents []kakaoDocument `json:"documents"`
}

type kakaoDocument struct {
	AddressName string `json:"address_name"`
	AddressType string `json:"address_type"`
	Address     *struct {
		AddressName string `json:"address_name"`
		Region3     string `json:"region_3depth_name"`
	} `json:"address"`
	RoadAddress *struct {
		AddressName  string `json:"address_name"`
		BuildingName string `json:"building_name"`
		ZoneNo       string `json:"zone_no"`
		Region3      string `json:"region_3depth_name"`
	} `json:"road_address"`
}

func (d kakaoDocument) completion() (Completion, bool) {
	name := strings.TrimSpace(d.AddressName)
	if name == "" {
		return Completion{}, false
	}

	c := Completion{Address: name, AddressType: AddressTypeJibun}
	if strings.HasPrefix(d.AddressType, "ROAD") {
		c.AddressType = AddressTypeRoad
	}
	if d.Address != nil {
		c.JibunAddress = d.Address.AddressName
		c.Bname = d.Address.Region3
	}
	if d.RoadAddress != nil {
		c.RoadAddress = d.RoadAddress.AddressName
		c.BuildingName = d.RoadAddress.BuildingName
		c.Zonecode = d.RoadAddress.ZoneNo
		if c.Bname == "" {
			c.Bname = d.RoadAddress.Region3
		}
	}

	return c, true
}
