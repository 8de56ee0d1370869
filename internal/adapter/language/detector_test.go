package language

import "testing"

func TestKeywordDetector(t *testing.T) {
	detector := NewKeywordDetector()

	tests := []struct {
		text string
		want string
	}{
		{"Was ist die Initiative X?", "de"},
		{"Worum geht es bei der Abstimmung?", "de"},
		{"Qu'est-ce que l'initiative?", "fr"},
		{"Quelle est la votation de novembre?", "fr"},
		{"Che cosa chiede l'iniziativa?", "it"},
		{"Quali sono gli argomenti?", "it"},
		{"", "de"},
		{"random text without indicators", "de"},
	}

	for _, tt := range tests {
		if got := detector.DetectLanguage(tt.text); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}
