// Package cli provides the interactive inkpost command-line client.
//
// It wires configuration and the HTTP API client into a REPL. Typical flow:
// register or log in, browse the feed, then create or edit posts with an
// optional image upload.
//
// Commands:
//   - register / login / logout
//   - posts [page], post <id>
//   - create, edit <id>, upload <file>
//   - help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
