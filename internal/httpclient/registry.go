package httpclient

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrUnknownAdapter is returned by Lookup for unregistered names.
var ErrUnknownAdapter = errors.New("unknown client adapter")

// Options configure adapter construction.
type Options struct {
	Timeout time.Duration // per-request timeout, 0 keeps the transport default
}

// Adapter describes one registered client implementation.
type Adapter struct {
	Name        string
	Kind        Kind // kind used when a variant does not declare one
	Description string
	build       func(Options) Factory
}

// Factory returns a factory bound to opts.
func (a Adapter) Factory(opts Options) Factory {
	return a.build(opts)
}

var adapters = map[string]Adapter{
	"nethttp": {
		Name:        "nethttp",
		Kind:        KindBlocking,
		Description: "net/http client, keep-alive connection reused per worker",
		build:       func(o Options) Factory { return newNetHTTPFactory(o, false, false) },
	},
	"nethttp-fresh": {
		Name:        "nethttp-fresh",
		Kind:        KindBlocking,
		Description: "net/http client, new session and connection per request",
		build:       func(o Options) Factory { return newNetHTTPFactory(o, true, false) },
	},
	"nethttp-async": {
		Name:        "nethttp-async",
		Kind:        KindSuspending,
		Description: "net/http client, context-bound requests",
		build:       func(o Options) Factory { return newNetHTTPFactory(o, false, true) },
	},
	"h2c": {
		Name:        "h2c",
		Kind:        KindSuspending,
		Description: "x/net/http2 client over cleartext TCP",
		build:       newH2CFactory,
	},
	"rawtcp": {
		Name:        "rawtcp",
		Kind:        KindBlocking,
		Description: "hand-framed HTTP/1.1 over a persistent TCP connection",
		build:       newRawTCPFactory,
	},
}

// Lookup returns the adapter registered under name.
func Lookup(name string) (Adapter, error) {
	a, ok := adapters[name]
	if !ok {
		return Adapter{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownAdapter, name, Names())
	}
	return a, nil
}

// Names lists registered adapters in lexical order.
func Names() []string {
	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Adapters lists registered adapters in lexical order.
func Adapters() []Adapter {
	names := Names()
	out := make([]Adapter, 0, len(names))
	for _, name := range names {
		out = append(out, adapters[name])
	}
	return out
}
