// Package detector identifies the language of a translation text. The
// result is advisory: the align command reports it alongside the alignment
// output so a caller can spot a translation filed under the wrong language,
// but a mismatch never blocks alignment.
package detector

import (
	lingua "github.com/pemistahl/lingua-go"
)

// candidateLanguages are the target languages the study application produces
// translations in. Restricting the detector to this set keeps it small and
// markedly more accurate on short verse-length texts than detecting against
// every language lingua knows.
var candidateLanguages = []lingua.Language{
	lingua.English,
	lingua.Spanish,
	lingua.Portuguese,
	lingua.Italian,
	lingua.French,
	lingua.German,
	lingua.Latin,
}

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector over the application's candidate target languages.
// Construction is expensive; reuse the instance.
func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(candidateLanguages...).
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the ISO 639-1 code of the detected language.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return lang.IsoCode639_1().String(), true
}
