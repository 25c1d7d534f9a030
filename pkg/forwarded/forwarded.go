// Package forwarded resolves the client's connection metadata (IP, host,
// port, protocol) from reverse-proxy forwarding headers, honoring them
// only when the immediate peer is a trusted proxy. It understands both
// the RFC 7239 Forwarded field and the legacy X-Forwarded-* fields.
package forwarded

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Config configures a Resolver. The trust list is explicit construction
// input; nothing is read from ambient process state.
type Config struct {
	// Proxies lists the trusted immediate peers: exact IP addresses,
	// CIDR prefixes, or the marker "local" for loopback and private
	// (RFC 1918 / ULA) addresses.
	Proxies []string
}

// Peer is the resolved client connection metadata. Consumers treat it as
// opaque request metadata and do not re-validate trust.
type Peer struct {
	IP    string
	Host  string
	Port  string
	Proto string
}

// Resolver decides whether forwarding headers may be trusted and
// extracts the client metadata from them.
type Resolver struct {
	exact    []netip.Addr
	prefixes []netip.Prefix
	local    bool
	log      zerolog.Logger
}

// New creates a Resolver. The global zerolog logger is used if logger is
// nil. An unparsable trust list entry is an error: a half-configured
// trust list must not fail open.
func New(config Config, logger *zerolog.Logger) (*Resolver, error) {
	log := zlog.Logger
	if logger != nil {
		log = *logger
	}
	rs := &Resolver{log: log}
	for _, entry := range config.Proxies {
		if entry == "local" {
			rs.local = true
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid proxy prefix %q: %w", entry, err)
			}
			rs.prefixes = append(rs.prefixes, prefix)
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy address %q: %w", entry, err)
		}
		rs.exact = append(rs.exact, addr)
	}
	return rs, nil
}

// Trusted reports whether addr is on the trust list.
func (rs *Resolver) Trusted(addr netip.Addr) bool {
	addr = addr.Unmap()
	if rs.local && (addr.IsLoopback() || addr.IsPrivate()) {
		return true
	}
	for _, a := range rs.exact {
		if a == addr {
			return true
		}
	}
	for _, p := range rs.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Resolve produces the client metadata for a request. Forwarding headers
// from an untrusted peer are logged and ignored, silently degrading to
// the direct connection metadata.
func (rs *Resolver) Resolve(r *http.Request) Peer {
	peer := directPeer(r)
	hasForwarding := r.Header.Get("Forwarded") != "" ||
		r.Header.Get("X-Forwarded-For") != ""
	if !hasForwarding {
		return peer
	}
	addrPort, err := netip.ParseAddrPort(r.RemoteAddr)
	if err != nil || !rs.Trusted(addrPort.Addr()) {
		rs.log.Debug().
			Str("peer", r.RemoteAddr).
			Msg("Ignoring forwarding headers from untrusted peer")
		return peer
	}
	if fwd := r.Header.Get("Forwarded"); fwd != "" {
		applyForwarded(&peer, fwd)
		return peer
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if client, _, found := strings.Cut(xff, ","); found || client != "" {
			peer.IP = strings.TrimSpace(client)
		}
	}
	if host := r.Header.Get("X-Forwarded-Host"); host != "" {
		peer.Host = host
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		peer.Proto = proto
	}
	return peer
}

func directPeer(r *http.Request) Peer {
	peer := Peer{Host: r.Host, Proto: "http"}
	if r.TLS != nil {
		peer.Proto = "https"
	}
	if addrPort, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		peer.IP = addrPort.Addr().Unmap().String()
		peer.Port = fmt.Sprintf("%d", addrPort.Port())
	} else {
		peer.IP = r.RemoteAddr
	}
	return peer
}

// §  RFC 7239, 4: Forwarded = 1#forwarded-element
// §               forwarded-element = [ forwarded-pair ] *( ";" [ forwarded-pair ] )
// §               forwarded-pair    = token "=" value
//
// The first element describes the hop closest to the client.
func applyForwarded(peer *Peer, header string) {
	element, _, _ := strings.Cut(header, ",")
	for _, pair := range strings.Split(element, ";") {
		name, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.Trim(strings.TrimSpace(value), `"`)
		switch name {
		case "for":
			ip, port := splitForValue(value)
			if ip != "" {
				peer.IP = ip
			}
			if port != "" {
				peer.Port = port
			}
		case "host":
			peer.Host = value
		case "proto":
			peer.Proto = value
		}
	}
}

// splitForValue splits a node identifier like "192.0.2.43:47011" or
// "[2001:db8::1]:4711" into address and optional port. Obfuscated
// identifiers ("unknown", "_hidden") are returned as-is without a port.
func splitForValue(value string) (ip, port string) {
	if strings.HasPrefix(value, "[") {
		end := strings.IndexByte(value, ']')
		if end < 0 {
			return value, ""
		}
		ip = value[1:end]
		if rest := value[end+1:]; strings.HasPrefix(rest, ":") {
			port = rest[1:]
		}
		return ip, port
	}
	if host, p, found := strings.Cut(value, ":"); found {
		return host, p
	}
	return value, ""
}

type contextKey struct{}

// Middleware resolves the client metadata for every request and makes it
// available via FromContext.
func (rs *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		peer := rs.Resolve(r)
		ctx := context.WithValue(r.Context(), contextKey{}, peer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the Peer resolved by Middleware, if any.
func FromContext(ctx context.Context) (Peer, bool) {
	peer, ok := ctx.Value(contextKey{}).(Peer)
	return peer, ok
}
