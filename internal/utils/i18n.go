package utils

// Minimal server-side i18n for fixed keys. The course content itself is
// authored in Polish and served as-is; the server only translates the few
// labels it owns.

var translations = map[string]map[string]string{
	"pl": {
		"health.ok":   "ok",
		"band.low":    "Niski wynik",
		"band.medium": "Średni wynik",
		"band.high":   "Wysoki wynik",
	},
	"en": {
		"health.ok":   "ok",
		"band.low":    "Low score",
		"band.medium": "Medium score",
		"band.high":   "High score",
	},
}

// T returns the translated string for key in locale; falls back to Polish.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := translations["pl"]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}
