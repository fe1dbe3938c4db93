// Package wordsource builds the frozen seed vocabulary of a run.
//
// Seed words come from two origins: base words given by the user and words
// harvested from crawled pages. Crawled text is tokenized, and a token is
// admitted only if it is on neither exclusion list and the language
// detector places it in one of the target languages. A token whose
// language cannot be detected is rejected. Both origins are normalized
// the same way: trimmed, lowercased, between 3 and 14 runes long, and
// deduplicated.
package wordsource
