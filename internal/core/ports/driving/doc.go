// Package driving provides interfaces for application entry points
// (primary/inbound ports): the CLI, the TUI and the MCP server.
package driving
