// Command showcase serves a component story catalog.
//
// Usage:
//
//	showcase serve --stories ./stories --port 6006
//	showcase list --stories ./stories [--group Button] [--json]
//
// Every flag falls back to its environment variable (see the config package).
package main
