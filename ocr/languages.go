package ocr

// DefaultLanguage is the language code used when the caller does not pick one.
const DefaultLanguage = "eng"

// Language pairs a Tesseract traineddata code with its display name.
type Language struct {
	Code string
	Name string
}

// supportedLanguages is the fixed catalogue offered by the pipeline. Codes
// outside this set are passed through to the engine untouched; whether they
// work depends on the trained data installed.
var supportedLanguages = []Language{
	{Code: "eng", Name: "English"},
	{Code: "spa", Name: "Spanish"},
	{Code: "fra", Name: "French"},
	{Code: "deu", Name: "German"},
	{Code: "ita", Name: "Italian"},
	{Code: "por", Name: "Portuguese"},
	{Code: "rus", Name: "Russian"},
	{Code: "jpn", Name: "Japanese"},
	{Code: "chi_sim", Name: "Chinese (Simplified)"},
	{Code: "chi_tra", Name: "Chinese (Traditional)"},
	{Code: "kor", Name: "Korean"},
	{Code: "ara", Name: "Arabic"},
	{Code: "hin", Name: "Hindi"},
}

// Languages returns the supported language catalogue in display order.
func Languages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// IsSupported reports whether code is part of the fixed catalogue.
func IsSupported(code string) bool {
	for _, l := range supportedLanguages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// DisplayName returns the human-readable name for code, or the code itself
// when it is not in the catalogue.
func DisplayName(code string) string {
	for _, l := range supportedLanguages {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}
