package importer

import "strings"

// PartOfSpeechOther is used when an abbreviation is missing or unknown
const PartOfSpeechOther = "other"

var partsOfSpeech = map[string]string{
	"pron.":        "pronoun",
	"pron":         "pronoun",
	"pronoun":      "pronoun",
	"adj.":         "adjective",
	"adj":          "adjective",
	"adjective":    "adjective",
	"v.":           "verb",
	"v":            "verb",
	"verb":         "verb",
	"n.":           "noun",
	"n":            "noun",
	"noun":         "noun",
	"adv.":         "adverb",
	"adv":          "adverb",
	"adverb":       "adverb",
	"prep.":        "preposition",
	"prep":         "preposition",
	"preposition":  "preposition",
	"conj.":        "conjunction",
	"conj":         "conjunction",
	"conjunction":  "conjunction",
	"part.":        "particle",
	"part":         "particle",
	"particle":     "particle",
	"num.":         "numeral",
	"num":          "numeral",
	"numeral":      "numeral",
	"m.":           "measure_word",
	"m":            "measure_word",
	"mw.":          "measure_word",
	"mw":           "measure_word",
	"measure word": "measure_word",
	"measure_word": "measure_word",
	"interj.":      "interjection",
	"interj":       "interjection",
	"interjection": "interjection",
}

// NormalizePartOfSpeech maps dictionary abbreviations like "pron." to a
// canonical name
func NormalizePartOfSpeech(pos string) string {
	if p, ok := partsOfSpeech[strings.ToLower(strings.TrimSpace(pos))]; ok {
		return p
	}
	return PartOfSpeechOther
}
