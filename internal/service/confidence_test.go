package service

import "testing"

func TestPhraseClassifier(t *testing.T) {
	c := NewPhraseClassifier()

	cases := []struct {
		name      string
		answer    string
		uncertain bool
	}{
		{"direct answer", "El motor usa aceite 10W40.", false},
		{"no se phrase", "Lo siento, no lo sé.", true},
		{"no information", "No tengo información sobre ese tema en los documentos.", true},
		{"mixed case", "NO HAY INFORMACIÓN al respecto.", true},
		{"not mentioned", "Ese dato no se menciona en el texto.", true},
		{"unrelated negative", "El documento niega esa afirmación.", false},
		// Known misfire: the phrase appears inside a quoted statement.
		{"quoted phrase", "El autor escribe: \"desconozco el origen de la palabra\".", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.IsUncertain(tc.answer); got != tc.uncertain {
				t.Errorf("IsUncertain(%q) = %v, want %v", tc.answer, got, tc.uncertain)
			}
		})
	}
}
