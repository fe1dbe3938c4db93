// Package pipeline turns a frozen seed vocabulary into password candidates.
//
// A Pipeline is an ordered list of stages. Each Stage lazily produces
// candidates from the seed slice as an iter.Seq[string]; nothing is
// materialized, so the consumer decides how far each stage runs. Stages
// hold only their construction-time inputs (symbols, separators, numeric
// patterns and a Rand) and can be iterated any number of times.
//
// The default pipeline runs, in order:
//
//	basic_variation   lower, Capitalized, UPPER
//	word_merging      Capitalize(w1) + separator + w2 for ordered pairs
//	number_mixing     numeric suffixes with a random symbol before or after
//	advanced_patterns long random numbers, years and symbol wrapping
package pipeline
