// Package directory scrapes the international-school directory site.
//
// The directory publishes one listing page per region, each holding a
// stack of school cards (name, description, curriculum, language, age
// range, fees). Scraper walks the configured region list and turns the
// cards into model.SchoolCard values.
//
// Each school also has its own detail page with collapsible Q&A panels
// (admissions, fees, school day, ...). Enricher fetches those pages and
// fills in the cards' Details sections, saving progress periodically so
// an interrupted run can resume without re-fetching.
//
// The directory site throttles aggressively, so both passes pace
// themselves: listings a couple of seconds apart, detail pages far
// slower with retry backoff on failures.
package directory
