// Package aggregate folds raw page records and bilingual card exports
// into one normalized record per school.
//
// # Architecture
//
// Two folders share the grouping machinery but produce different
// shapes. Aggregator consumes crawled PageRecords and emits
// SchoolRecords (source snapshot, header unions, deduplicated
// sub-pages, link set). Merger consumes the English and Japanese card
// exports of the school directory and emits BilingualRecords with
// per-language field slots.
//
// Design decision: site keys are derived by an injectable KeyFunc
// rather than inline string slicing because:
//  1. Two incompatible derivations exist (composite-id prefix for
//     crawler output, URL slug for directory exports) and both are
//     needed
//  2. Mixing records keyed under different strategies in one run
//     produces garbage groups, so the strategy must be a visible,
//     explicit choice
//
// Design decision: the Merger routes a card's unsuffixed fields by the
// language of the export it came from, instead of writing every card's
// fields to a fixed slot. Folding is order-independent across
// languages that way: a Japanese card can never blank out or overwrite
// the English text, and vice versa.
//
// # Folding rules
//
//   - The source snapshot follows the earliest non-empty scrapedAt in
//     the group; the fixed-width timestamp layout makes plain string
//     comparison order-correct.
//   - Header levels and links union with first-seen order preserved.
//   - Sub-pages are skipped when blank, when more than 10% of their
//     characters fall outside the allowed alphabet, or when their data
//     duplicates a stored entry verbatim.
//   - Staff lists deduplicate on the (name, role) pair.
package aggregate
