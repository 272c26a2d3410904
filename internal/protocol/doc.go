// Package protocol defines the wire messages exchanged with the editing
// engine.
//
// The engine speaks a JSON-RPC-like protocol: one JSON object per line over
// the child process's stdin and stdout. There are three message shapes:
//
//   - Request:      {"id": <uint>, "method": <string>, "params": <object>}
//   - Response:     {"id": <uint>, "result": <any>} or {"id": <uint>, "error": <any>}
//   - Notification: {"method": <string>, "params": <object>}
//
// Decode classifies a raw line into one of these shapes and validates its
// structure. DecodeNotification turns an inbound notification into one of
// the typed Inbound values (Update, ScrollTo, DefStyle, ...), so that
// loosely-typed JSON never leaves this package.
package protocol
