// Package config provides configuration structures and utilities for
// schoolscan. It defines the crawl, aggregation, and enrichment options,
// the seeds-file and YAML config-file loaders, and the directory
// locations covered by the directory command.
package config
