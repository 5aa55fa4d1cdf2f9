// Package driving provides interfaces for external actors (primary/inbound ports).
//
// The CLI and MCP adapters drive the application through these
// interfaces; they never reach into services directly.
package driving
