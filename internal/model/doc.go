// Package model defines the core data structures used throughout schoolscan.
//
// This package contains the following main types:
//   - PageRecord: Represents one fetched page with extracted text and links
//   - SchoolRecord: The per-site aggregate built from a group of PageRecords
//   - SchoolCard: One directory listing entry for a school
//   - BilingualRecord: The merged English/Japanese view of one school
//   - StructuredData: The fixed nested schema describing a school
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, aggregate, directory, report) need
// to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for output files and
// database storage. JSON field names follow the export format consumed by
// downstream tooling, so struct tags are part of the contract here.
package model
