package wordseed

import "strings"

// RTLLanguages contains language codes that use right-to-left text
// direction. Generated units holding a translation in one of these
// languages get dir="rtl" so they render correctly inside LTR text.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
}

// LanguageNames maps language codes to human-readable names, used by the
// smart-translation provider when building prompts.
var LanguageNames = map[string]string{
	"zh_CN": "Simplified Chinese",
	"zh_TW": "Traditional Chinese",
	"ja_JP": "Japanese",
	"ko_KR": "Korean",
	"es_ES": "Spanish",
	"fr_FR": "French",
	"de_DE": "German",
	"it_IT": "Italian",
	"pt_BR": "Brazilian Portuguese",
	"ru_RU": "Russian",
	"ar_SA": "Arabic",
	"he_IL": "Hebrew",
	"hi_IN": "Hindi",
	"vi_VN": "Vietnamese",
	"en_US": "English",
}

// ShortCodeToLocale expands bare language codes to their default locale.
var ShortCodeToLocale = map[string]string{
	"zh": "zh_CN",
	"ja": "ja_JP",
	"ko": "ko_KR",
	"es": "es_ES",
	"fr": "fr_FR",
	"de": "de_DE",
	"it": "it_IT",
	"pt": "pt_BR",
	"ru": "ru_RU",
	"ar": "ar_SA",
	"he": "he_IL",
	"hi": "hi_IN",
	"vi": "vi_VN",
	"en": "en_US",
}

// GetLanguageName returns the human-readable name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(langCode string) string {
	if name, ok := LanguageNames[langCode]; ok {
		return name
	}
	if locale, ok := ShortCodeToLocale[langCode]; ok {
		if name, ok := LanguageNames[locale]; ok {
			return name
		}
	}
	return langCode
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(langCode string) string {
	base := strings.Split(langCode, "_")[0]
	base = strings.ToLower(base)

	if RTLLanguages[base] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(langCode string) bool {
	return GetDirection(langCode) == "rtl"
}

// NormalizeLocale converts a language code to the standard format
// (e.g., "zh-CN" → "zh_CN").
func NormalizeLocale(langCode string) string {
	return strings.ReplaceAll(langCode, "-", "_")
}

// ToHTMLLang converts a locale code to HTML lang attribute format
// (e.g., "zh_CN" → "zh-CN").
func ToHTMLLang(langCode string) string {
	return strings.ReplaceAll(langCode, "_", "-")
}
