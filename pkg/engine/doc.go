// Package engine implements the stateful mock API simulation engine.
//
// The engine stands in for a real backend during test authoring and
// exploration. It accepts (method, path, body, headers) tuples and returns
// deterministic HTTP-shaped responses while maintaining session-lifetime
// state: the shipment collection, the bounded webhook event log, and the
// fixed-window rate counter.
//
// Dispatch evaluates an ordered route table with strict precedence:
// artificial latency first, then the rate-limit gate for the /limited path
// family, then canned error endpoints, configured scenario routes, auth
// endpoints, the gateway proxy, webhook endpoints, the /secure bearer gate,
// resource CRUD, and finally a catch-all 404. Exact-path routes always sit
// before prefix routes, so later rules can assume earlier ones already
// filtered out error, auth, and throttling cases.
//
// Dispatch never returns an error: every input, including malformed paths,
// resolves to a structured Response.
//
// All shared state lives on one Engine instance; there are no package-level
// singletons, so tests can create isolated engines freely.
package engine
