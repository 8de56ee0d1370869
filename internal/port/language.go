package port

// LanguageDetector guesses the language of a user query. The keyword
// heuristic is the default implementation; the interface exists so it
// can be swapped for a proper classifier.
type LanguageDetector interface {
	// DetectLanguage returns a language code, falling back to the
	// default language when unsure.
	DetectLanguage(text string) string
}
