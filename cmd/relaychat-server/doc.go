// Command relaychat-server runs the relaychat chat server.
//
// Clients connect over TCP, authenticate with a session token or a
// username and password, and every message they send is relayed to all
// other authenticated clients. An admin console on stdin and an optional
// Unix socket accept pause, unpause, show-logs, clear-logs,
// clear-credentials, status and exit.
//
// Usage:
//
//	relaychat-server [-config file.yaml] [-port 9090] [-version]
package main
