// Package protocol defines the messages exchanged with a highlight worker
// and the codec used to put them on the wire.
//
// A worker receives [Request] messages and eventually answers each one
// with a [Response] carrying the same ID.
package protocol
