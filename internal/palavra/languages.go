package palavra

import "strings"

// Language is one entry of the fixed language set.
type Language struct {
	Code        string `yaml:"code" json:"code"`
	DisplayName string `yaml:"name" json:"name"`
	Flag        string `yaml:"flag" json:"flag"`
}

// Languages is the static set offered as native/target languages.
var Languages = []Language{
	{Code: "en", DisplayName: "English", Flag: "🇬🇧"},
	{Code: "pt-PT", DisplayName: "Portuguese (Portugal)", Flag: "🇵🇹"},
	{Code: "es", DisplayName: "Spanish", Flag: "🇪🇸"},
	{Code: "fr", DisplayName: "French", Flag: "🇫🇷"},
	{Code: "de", DisplayName: "German", Flag: "🇩🇪"},
	{Code: "it", DisplayName: "Italian", Flag: "🇮🇹"},
	{Code: "nl", DisplayName: "Dutch", Flag: "🇳🇱"},
	{Code: "ru", DisplayName: "Russian", Flag: "🇷🇺"},
	{Code: "ja", DisplayName: "Japanese", Flag: "🇯🇵"},
	{Code: "ko", DisplayName: "Korean", Flag: "🇰🇷"},
	{Code: "zh", DisplayName: "Chinese (Mandarin)", Flag: "🇨🇳"},
}

// FindLanguage resolves a language by code or display name, case-insensitively.
func FindLanguage(codeOrName string) (Language, bool) {
	s := strings.TrimSpace(codeOrName)
	for _, l := range Languages {
		if strings.EqualFold(l.Code, s) || strings.EqualFold(l.DisplayName, s) {
			return l, true
		}
	}
	return Language{}, false
}

// LanguageIndex returns the index of code in Languages, or -1.
func LanguageIndex(code string) int {
	for i, l := range Languages {
		if strings.EqualFold(l.Code, code) {
			return i
		}
	}
	return -1
}

// Variant is a regional-variant hint threaded into the definition request.
type Variant string

const (
	VariantNone               Variant = ""
	VariantEuropeanPortuguese Variant = "pt-PT"
)

// VariantFor returns the variant hint for a target language name.
// Any Portuguese target is steered to European Portuguese.
func VariantFor(targetLanguageName string) Variant {
	if strings.Contains(strings.ToLower(targetLanguageName), "portug") {
		return VariantEuropeanPortuguese
	}
	return VariantNone
}

// IsChinese reports whether a language name refers to Chinese.
func IsChinese(languageName string) bool {
	n := strings.ToLower(languageName)
	return strings.Contains(n, "chinese") || strings.Contains(n, "mandarin")
}
