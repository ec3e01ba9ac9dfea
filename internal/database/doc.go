// Package database provides the SQLite crawl archive for schoolscan.
//
// This package implements the CrawlDB, which stores:
//   - Page records captured by the crawler, one row per (site, URL)
//   - Crawl runs with their per-site counters
//
// The archive is a side-store: the pipeline's source of truth is the
// JSON batch files, and losing the archive only loses the ability to
// skip recently crawled sites and inspect past runs.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
