// Package chatserver implements the relaychat TCP server.
//
// Every client connection runs in its own goroutine:
//
//	accept -> handshake -> register -> gated read loop -> deregister
//
// All traffic uses the length-prefixed frames of package frame. The
// handshake authenticates with a stored session token or a username and
// password, registering unknown names on first use. After that every frame
// a client sends is relayed as "<username>: <message>\n" to all other
// authenticated clients.
//
// The Gate pauses and resumes relaying for all clients at once. A paused
// server stops reading from clients; messages stay queued in the socket
// buffers until the gate opens again.
package chatserver
