// Package cli provides the interactive receiptscan command-line client.
//
// It wires configuration, the durable credential store, the GraphQL
// dispatcher and the application core (session manager, upload pipeline,
// paginated listing) into an interactive REPL.
//
// Key features:
//   - Register / Login / Logout against the receipt service
//   - Scan: upload a receipt image for server-side extraction
//   - List / Filter / Page through stored receipts
//   - Show a single receipt, export extracted text
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
