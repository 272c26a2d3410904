// Package engine talks to the editing engine over its standard streams.
//
// Messages are line-delimited JSON objects. A Client multiplexes outbound
// notifications and requests over the engine's stdin and demultiplexes its
// stdout: responses complete the matching Call, notifications are decoded
// and queued on Notifications. The engine's stderr is copied to the log.
//
// Requests are matched to responses by id only; responses may arrive in any
// order. A request the engine never answers leaves its Call blocked for as
// long as the engine keeps running.
//
// Protocol violations (a response for an unknown id, a response with both or
// neither of result and error) and an unexpected end of the engine's output
// are fatal and delivered once on Err.
package engine
