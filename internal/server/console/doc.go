// Package console provides the relaychat admin console.
//
// Commands, one per line:
//
//	exit               stop the server
//	pause              stop relaying messages
//	unpause            resume relaying messages
//	show-logs          print the event log
//	clear-logs         empty the event log
//	clear-credentials  delete every credential and session token
//	status             print address, members, pause state and store counts
//	history            print the commands entered so far
//	help               list commands
//
// The same Executor serves the interactive REPL on stdin and the local
// management socket.
package console
