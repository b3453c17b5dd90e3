// Package http exposes the story catalog over a JSON API.
//
// Routes:
//
//	GET  /                        service status
//	GET  /health                  catalog size and last pass
//	GET  /api/groups              group summaries
//	GET  /api/groups/:title       one group with its entries
//	GET  /api/entries[?group=]    entry summaries
//	GET  /api/entries/:id         one entry (?render=true to render)
//	POST /api/entries/:id/render  render with {"args": {...}} overrides
//	GET  /api/stats               catalog statistics and metrics
//	POST /api/reload              run a reload cycle
package http
