// Package worker connects to highlight workers.
//
// A [Client] is a shared handle to a worker.
// Requests are sent to it with [Client.Send],
// and every response the worker produces is broadcast
// to all listeners registered with [Client.Subscribe].
// Listeners pick out the responses they're interested in
// by their correlation ID.
//
// The worker itself is reached through a [Transport]:
// it may run in-process ([Local]),
// as a child process ([StartProcess]),
// or remotely over a websocket ([Dial]).
// [Server] implements the other end of the latter two.
package worker
