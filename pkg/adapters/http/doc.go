// Package http serves aria consoles over a small JSON API with server-sent events.
package http
