package service

import "strings"

// ConfidenceClassifier decides whether a draft answer failed to find
// its footing in the retrieved documents.
type ConfidenceClassifier interface {
	IsUncertain(answer string) bool
}

// Phrases that signal the model did not find an answer in the
// documents. Matching is a plain substring test on the lower-cased
// answer; an answer quoting one of these will misfire.
var defaultUncertaintyPhrases = []string{
	"no sé",
	"no lo sé",
	"no tengo información",
	"no puedo encontrar",
	"no está disponible",
	"no hay información",
	"no se menciona",
	"no se proporciona",
	"desconozco",
	"no conozco",
	"no dispongo",
}

// PhraseClassifier flags answers containing any of a fixed phrase list.
type PhraseClassifier struct {
	phrases []string
}

// NewPhraseClassifier creates a classifier with the default phrase list.
func NewPhraseClassifier() *PhraseClassifier {
	return &PhraseClassifier{phrases: defaultUncertaintyPhrases}
}

// IsUncertain reports whether the answer contains an uncertainty phrase.
func (c *PhraseClassifier) IsUncertain(answer string) bool {
	lower := strings.ToLower(answer)
	for _, phrase := range c.phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
