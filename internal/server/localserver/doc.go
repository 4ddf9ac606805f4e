// Package localserver provides the local management socket.
//
// It listens on a Unix domain socket and runs admin console commands sent
// one per line, so a detached server can be driven without a terminal:
//
//	echo status | nc -U /run/relaychat/admin.sock
//
// Every command is answered with its output, or "ok" when it prints
// nothing, followed by an empty line. Access is controlled by the socket
// file permissions (0600).
package localserver
