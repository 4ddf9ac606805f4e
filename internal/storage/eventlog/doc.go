// Package eventlog implements the append-only server event log.
//
// Each record is one line: an RFC 3339 timestamp, the event name and
// optional key=value fields. Message contents and secrets are never
// recorded, only authentication outcomes and byte counts.
//
// The log can be shown and truncated from the admin console.
package eventlog
