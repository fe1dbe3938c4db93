package model

// CrawlStats counts what happened while harvesting seed words from URLs.
type CrawlStats struct {
	// SeedURLs is the number of valid seed URLs crawled.
	SeedURLs int `json:"seed_urls"`

	// InvalidURLs is the number of seed URLs skipped as malformed.
	InvalidURLs int `json:"invalid_urls"`

	// PagesFetched counts pages answered with 200 OK.
	PagesFetched int `json:"pages_fetched"`

	// PageErrors counts fetches that failed or returned a non-200 status.
	PageErrors int `json:"page_errors"`

	// DuplicatePages counts pages whose content was already seen.
	DuplicatePages int `json:"duplicate_pages"`

	// Tokens is the number of distinct tokens examined.
	Tokens int `json:"tokens"`

	// Excluded counts tokens found in the slang or breach lists.
	Excluded int `json:"excluded"`

	// WrongLanguage counts tokens rejected by language detection.
	WrongLanguage int `json:"wrong_language"`

	// Accepted counts tokens admitted as seed words.
	Accepted int `json:"accepted"`

	// EXIFImages counts images whose metadata was read.
	EXIFImages int `json:"exif_images"`

	// EXIFWords counts seed words that came from image metadata.
	EXIFWords int `json:"exif_words"`
}
