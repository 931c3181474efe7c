/*
Package session keeps one console per session ID for multi-client surfaces.

Consoles share nothing: each ID gets its own engine, transcript and busy flag. The
Manager serializes creation per ID with reference-counted locks, so two requests for
the same new ID build exactly one console and locks for finished IDs are reclaimed.
*/
package session
