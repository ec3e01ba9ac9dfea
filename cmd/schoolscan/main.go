// Package main provides the entry point for the schoolscan CLI.
//
// schoolscan collects data about international schools in Japan: it
// crawls school websites into page records, aggregates them into
// per-school records, scrapes the school-directory listings, and merges
// bilingual exports.
//
// Usage:
//
//	schoolscan crawl --seeds urls.json
//	schoolscan aggregate -i scraped_output.json
//	schoolscan directory --details
//
// See --help for all available options.
package main

// main is the entry point for schoolscan.
func main() {
	Execute()
}
