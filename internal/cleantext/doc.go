// Package cleantext decides whether scraped text is usable.
//
// School sites in scope publish in English and Japanese, so the filter
// accepts printable ASCII plus the Japanese Unicode blocks and rejects
// text dominated by anything else — binary garbage decoded as text,
// mojibake from wrong charset handling, or pages in unrelated scripts.
package cleantext
