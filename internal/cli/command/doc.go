// Package command defines the relaychat-cli commands.
//
// Running the tool without a command opens a chat session with the server
// given by --host and --port. The admin command sends console commands to
// a running server over its local control socket.
package command
