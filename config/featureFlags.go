package config

import (
	"os"
	"strings"
)

// StrictConversionFactorConfirm requires the caller to confirm heuristic
// default conversion factors (e.g. "250 g per bag") before an ingredient save
// is accepted. The defaults are UX suggestions, not physical truths.
//
// Set via env:
// - STRICT_CONVERSION_FACTOR_CONFIRM=true
func StrictConversionFactorConfirm() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("STRICT_CONVERSION_FACTOR_CONFIRM")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// DisableCatalogCache turns off Redis caching of the per-shop ingredient
// catalog. Useful when debugging stale-read reports.
//
// Set via env:
// - DISABLE_CATALOG_CACHE=true
func DisableCatalogCache() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("DISABLE_CATALOG_CACHE")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
