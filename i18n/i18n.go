// Package i18n normalizes the locale codes under which profile text is stored.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale is supplied.
const DefaultLocale = "en_US"

// NormalizeLocale converts a BCP 47 tag or POSIX style code to the stored form
// "ll" or "ll_RR" ("en-us" -> "en_US", "fr" -> "fr").
func NormalizeLocale(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("i18n: empty locale")
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("i18n: parse locale %q: %w", raw, err)
	}
	base, _ := tag.Base()
	region, conf := tag.Region()
	if conf != language.Exact {
		return base.String(), nil
	}
	return base.String() + "_" + region.String(), nil
}

// ValidLocale reports whether raw can be normalized.
func ValidLocale(raw string) bool {
	_, err := NormalizeLocale(raw)
	return err == nil
}

// LocaleOrDefault normalizes raw, falling back to fallback when raw is empty.
func LocaleOrDefault(raw, fallback string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		raw = fallback
	}
	if strings.TrimSpace(raw) == "" {
		raw = DefaultLocale
	}
	return NormalizeLocale(raw)
}
