// Command folio is the CLI companion to foliod. It talks to the daemon over
// the JSON-RPC Unix socket and renders catalog state for the terminal.
package main
