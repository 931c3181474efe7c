// Package mcp exposes aria consoles to MCP clients over stdio or SSE.
package mcp
