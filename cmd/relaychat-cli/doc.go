// Command relaychat-cli is the client for relaychat-server.
//
// Usage:
//
//	relaychat-cli [--host 127.0.0.1] [--port 9090]
//	relaychat-cli admin --socket /run/relaychat.sock pause
//
// Without a command it connects to the chat server, prints every message
// the server sends and sends each line typed on stdin. Passwords are read
// without echo when stdin is a terminal.
package main
