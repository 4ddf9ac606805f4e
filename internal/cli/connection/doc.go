// Package connection holds the client side of the relaychat protocols.
//
//   - chat.go: framed TCP chat session (receive and send loops)
//   - input.go: line input with hidden password entry on terminals
//   - socket.go: admin client for the server's Unix socket
package connection
