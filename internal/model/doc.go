// Package model defines the data structures shared by the crawler, the
// generation engine, the report writers and the run-history database.
//
//   - Page: one fetched document and the text and links parsed from it
//   - CrawlStats: counters describing the seed-word crawl
//   - StageStats: counters for one transformation stage
//   - RunReport: the summary of one generation run
//
// The types live in their own package so crawler, collector, report and
// database can share them without import cycles. All of them serialize to
// JSON, which is also the format stored in the history database.
package model
