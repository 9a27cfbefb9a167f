package conversation

import "strings"

// Signal is the closed set of intents the state machine reacts to.
type Signal string

const (
	SignalText    Signal = "text"
	SignalCancel  Signal = "cancel"
	SignalConfirm Signal = "confirm"
	SignalAffirm  Signal = "affirm"
	SignalDecline Signal = "decline"
)

// IsAffirmative reports whether the owner agreed to run the analysis.
func (s Signal) IsAffirmative() bool {
	return s == SignalConfirm || s == SignalAffirm
}

// IntentClassifier maps a raw message to a Signal.
type IntentClassifier interface {
	Classify(text string) Signal
}

// KeywordClassifier matches the whole trimmed, lower-cased message against fixed keyword sets.
type KeywordClassifier struct {
	keywords map[string]Signal
}

func NewKeywordClassifier() *KeywordClassifier {
	k := &KeywordClassifier{keywords: map[string]Signal{}}
	k.add(SignalCancel, "cancel", "exit", "quit", "выйти", "выход", "отмена")
	k.add(SignalConfirm, "yes", "ready", "да", "готово", "готов")
	k.add(SignalAffirm, "конечно", "проведи", "анализ", "sure", "go")
	k.add(SignalDecline, "no", "нет", "not yet")
	return k
}

func (k *KeywordClassifier) add(s Signal, words ...string) {
	for _, w := range words {
		k.keywords[w] = s
	}
}

func (k *KeywordClassifier) Classify(text string) Signal {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.TrimRight(normalized, "!.")
	if s, ok := k.keywords[normalized]; ok {
		return s
	}
	return SignalText
}
