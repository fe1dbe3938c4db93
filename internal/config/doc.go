// Package config provides configuration structures and utilities for pwforge.
// It defines the generation options (target count, minimum length, symbol
// alphabet), the seed-word crawl settings, and report and history preferences.
package config
