// Package httpclient provides the timed client adapters benchmarked by reqbench.
//
// Every adapter satisfies the same small contract:
//
//	factory := adapter.Factory(httpclient.Options{Timeout: 5 * time.Second})
//	client, err := factory(ctx) // acquire sessions and connections
//	defer client.Close()        // always release
//	status := client.Get(ctx, "http://127.0.0.1:8000")
//
// Get never returns transport errors. A refused connection, a timeout or a
// malformed response yields [StatusTransportFailure] so the caller applies a
// single policy to every non-200 status.
//
// # Adapters
//
// Registered adapters are listed by [Names] and resolved with [Lookup]:
//   - nethttp: net/http with one keep-alive connection per worker
//   - nethttp-fresh: net/http with a new session per request
//   - nethttp-async: net/http bound to the caller's context
//   - h2c: HTTP/2 cleartext through golang.org/x/net/http2
//   - rawtcp: HTTP/1.1 framed by hand on a persistent TCP connection
//
// # Kinds
//
// A [Kind] tells the runner how to schedule workers. [KindBlocking] clients
// keep their OS thread busy for the whole request; [KindSuspending] clients
// yield at the network wait and observe cancellation.
package httpclient
