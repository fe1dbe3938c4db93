// Package collector drains a transformation pipeline into a wordlist.
//
// The Controller pulls candidates stage by stage, rejects those shorter than
// the minimum length or already written, and writes every accepted candidate
// to a LineWriter before looking at the next one. Generation stops once the
// output holds the target number of lines, when every stage is exhausted, or
// when the context is cancelled. In the last case the partial Result is
// returned together with the context error, and the output file is a valid
// wordlist of everything accepted so far.
package collector
