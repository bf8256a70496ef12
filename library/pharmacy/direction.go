package pharmacy

import (
	"net"
	"net/url"
	"strings"
)

// DefaultDirectHosts lists map hosts whose URLs can be opened as-is.
var DefaultDirectHosts = []string{"map.kakao.com"}

// DirectionKind tells whether a DirectionRef can be opened directly.
type DirectionKind int

const (
	// DirectionPending must be exchanged for a URL through the resolver.
	DirectionPending DirectionKind = iota
	// DirectionReady is a URL that can be opened as-is.
	DirectionReady
)

// String returns the kind name used in logs.
func (k DirectionKind) String() string {
	switch k {
	case DirectionReady:
		return "ready"
	default:
		return "pending"
	}
}

// DirectionRef is either Ready(url) or Pending(id).
type DirectionRef struct {
	kind DirectionKind
	url  string
	id   string
	raw  string
}

// Ready builds a reference that opens url directly.
func Ready(rawURL string) DirectionRef {
	return DirectionRef{kind: DirectionReady, url: rawURL, raw: rawURL}
}

// Pending builds a reference that needs resolving by id.
func Pending(id string) DirectionRef {
	return DirectionRef{kind: DirectionPending, id: id, raw: id}
}

// ParseDirectionRef classifies a received directionUrl.
//
// http(s) URLs on one of directHosts are Ready. Anything else is Pending,
// with the final non-empty path segment as id; an empty or unusable value
// yields Pending with an empty id.
func ParseDirectionRef(raw string, directHosts []string) DirectionRef {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DirectionRef{kind: DirectionPending, raw: raw}
	}

	tail := trimmed
	if u, err := url.Parse(trimmed); err == nil {
		if (u.Scheme == "http" || u.Scheme == "https") && isDirectHost(u.Host, directHosts) {
			ref := Ready(trimmed)
			ref.raw = raw
			return ref
		}
		tail = u.Path
	}

	tail = strings.TrimRight(tail, "/")
	if idx := strings.LastIndex(tail, "/"); idx >= 0 {
		tail = tail[idx+1:]
	}

	return DirectionRef{kind: DirectionPending, id: tail, raw: raw}
}

func isDirectHost(host string, directHosts []string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)
	for _, candidate := range directHosts {
		if strings.EqualFold(strings.TrimSpace(candidate), host) {
			return true
		}
	}
	return false
}

// Kind reports whether the reference is ready or pending.
func (r DirectionRef) Kind() DirectionKind { return r.kind }

// IsReady is true when URL can be opened without resolving.
func (r DirectionRef) IsReady() bool { return r.kind == DirectionReady }

// URL returns the ready URL, empty for pending references.
func (r DirectionRef) URL() string { return r.url }

// ID returns the id to resolve, empty for ready references.
func (r DirectionRef) ID() string { return r.id }

// Raw returns the value as received from the backend.
func (r DirectionRef) Raw() string { return r.raw }

func (r DirectionRef) String() string {
	if r.IsReady() {
		return "ready(" + r.url + ")"
	}
	return "pending(" + r.id + ")"
}
