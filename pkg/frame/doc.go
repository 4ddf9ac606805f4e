// Package frame implements the relaychat wire envelope.
//
// Every message on a relaychat connection is a frame:
//
//	<4 ASCII decimal digits, zero padded><payload bytes>
//
// The length prefix limits a payload to MaxPayload (9999) bytes. The same
// envelope is used for server prompts, client responses, chat messages and
// relayed messages.
package frame
