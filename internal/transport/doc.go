// Package transport builds the HTTP clients used to crawl seed pages.
//
// A Client connects directly by default. It can instead dial through an
// external SOCKS5 proxy (--proxy) or through an embedded Tor daemon started
// with tornago (--tor). Every request carries the configured User-Agent.
// Per-site cookies and headers from the configuration file are added by
// the client returned from ForSite.
package transport
