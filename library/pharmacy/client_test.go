package pharmacy

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return client
}

func TestNewClientValidatesBaseURL(t *testing.T) {
	for _, raw := range []string{"", "   ", "localhost:8080", "ftp://example.com", "http://"} {
		_, err := NewClient(raw)
		require.Error(t, err, raw)
	}

	_, err := NewClient("https://pharmacy.example.com/")
	require.NoError(t, err)
}

func TestSearchByAddressPostsExactAddress(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/direction/search", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req SearchRequest
		require.NoError(t, json.Unmarshal(raw, &req))
		require.Equal(t, "서울시 강남구", req.Address)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"pharmacyName":"참된약국","pharmacyAddress":"서울시 강남구 역삼동 1","directionUrl":"http://localhost:8080/api/direction/3LM","roadViewUrl":"https://map.kakao.com/link/roadview/37.5,127.0","distance":"250m"}]`))
	})

	results, err := client.SearchByAddress(context.Background(), "서울시 강남구")
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.Len(t, results, 1)
	require.Equal(t, "참된약국", results[0].Name)
	require.Equal(t, "서울시 강남구 역삼동 1", results[0].Address)
	require.Equal(t, "250m", results[0].DistanceLabel)
	require.Equal(t, "https://map.kakao.com/link/roadview/37.5,127.0", results[0].RoadViewURL)
	require.False(t, results[0].Direction.IsReady())
	require.Equal(t, "3LM", results[0].Direction.ID())
}

func TestSearchByAddressPreservesOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"pharmacyName":"C","distance":"3.00 km"},
			{"pharmacyName":"A","distance":"1.00 km"},
			{"pharmacyName":"B","distance":"2.00 km"}
		]`))
	})

	results, err := client.SearchByAddress(context.Background(), "addr")
	require.NoError(t, err)
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	require.Equal(t, []string{"C", "A", "B"}, names)
}

func TestSearchByAddressEmptyList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	results, err := client.SearchByAddress(context.Background(), "없는주소")
	require.NoError(t, err)
	require.NotNil(t, results)
	require.Empty(t, results)
}

func TestSearchByAddressFailures(t *testing.T) {
	tests := map[string]struct {
		handler http.HandlerFunc
		check   func(error) bool
	}{
		"server error": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"boom"}`))
			},
			check: IsServer,
		},
		"malformed json": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[{"pharmacyName":`))
			},
			check: IsDecode,
		},
		"object instead of list": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"pharmacyName":"A"}`))
			},
			check: IsDecode,
		},
		"null body": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`null`))
			},
			check: IsDecode,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, tc.handler)
			results, err := client.SearchByAddress(context.Background(), "addr")
			require.Error(t, err)
			require.True(t, tc.check(err), err.Error())
			require.NotNil(t, results)
			require.Empty(t, results)
		})
	}
}

func TestSearchByAddressTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient(url)
	require.NoError(t, err)

	results, err := client.SearchByAddress(context.Background(), "addr")
	require.Error(t, err)
	require.True(t, IsTransport(err))
	require.Empty(t, results)
}

func TestSearchByAddressTimeout(t *testing.T) {
	stop := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-stop:
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(stop) })

	client, err := NewClient(server.URL,
		WithHTTPClient(server.Client()),
		WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	startAt := time.Now()
	results, err := client.SearchByAddress(context.Background(), "서울시 강남구")
	require.Error(t, err)
	require.True(t, IsTransport(err), err.Error())
	require.NotNil(t, results)
	require.Empty(t, results)
	require.Less(t, time.Since(startAt), 5*time.Second)
}

func TestSearchByAddressRejectsBlank(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	results, err := client.SearchByAddress(context.Background(), "  \t")
	require.ErrorIs(t, err, ErrEmptyAddress)
	require.Empty(t, results)
}

func TestResolveDirectionURL(t *testing.T) {
	tests := map[string]struct {
		body    string
		status  int
		want    string
		wantErr bool
	}{
		"plain text":  {body: "https://map.kakao.com/link/map/참된약국,37.5,127.0", want: "https://map.kakao.com/link/map/참된약국,37.5,127.0"},
		"json string": {body: `"https://map.kakao.com/link/map/A,1,2"`, want: "https://map.kakao.com/link/map/A,1,2"},
		"json object": {body: `{"url":"https://map.kakao.com"}`, wantErr: true},
		"not a url":   {body: "hello", wantErr: true},
		"empty body":  {body: "", wantErr: true},
		"not found":   {body: "missing", status: http.StatusNotFound, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(t, "/api/direction/9Z2", r.URL.Path)
				if tc.status != 0 {
					w.WriteHeader(tc.status)
				}
				_, _ = w.Write([]byte(tc.body))
			})

			got, err := client.ResolveDirectionURL(context.Background(), "9Z2")
			if tc.wantErr {
				require.Error(t, err)
				require.True(t, IsResolution(err))
				require.Empty(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestResolveDirectionURLMissingID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.ResolveDirectionURL(context.Background(), "")
	require.Error(t, err)
	require.True(t, IsResolution(err))
	require.ErrorIs(t, err, ErrEmptyDirectionID)
}

func TestClientKeepsBasePath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL+"/backend/", WithHTTPClient(server.Client()))
	require.NoError(t, err)

	_, err = client.SearchByAddress(context.Background(), "addr")
	require.NoError(t, err)
	require.Equal(t, "/backend/api/direction/search", gotPath)
}
