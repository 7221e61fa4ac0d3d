// Package cli provides the interactive Ember command-line client.
//
// It wires configuration, the local and journal databases, the services and
// an interactive REPL. Typical flow: register or log in, turn a session
// recording or transcript into an entry, then list and read entries.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See NewApp and runREPL for details.
package cli
