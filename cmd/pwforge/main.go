// Package main provides the entry point for the pwforge CLI.
//
// pwforge builds password candidate wordlists from base words and from
// words harvested by crawling websites in a target language.
//
// Usage:
//
//	pwforge generate -b jambo -b pesa -o passwords.txt
//	pwforge generate -u https://example.co.ke -d 2 -m 50000
//
// See --help for all available options.
package main

func main() {
	Execute()
}
