package corpus

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

// englishStopwords is the default stopword set. The web-noise entries at
// the bottom matter for SERP text, which is full of UI chrome words.
var englishStopwords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "across": {}, "after": {}, "again": {},
	"against": {}, "all": {}, "almost": {}, "along": {}, "already": {},
	"also": {}, "although": {}, "always": {}, "am": {}, "among": {}, "an": {},
	"and": {}, "another": {}, "any": {}, "anyone": {}, "anything": {},
	"are": {}, "around": {}, "as": {}, "at": {},

	"back": {}, "be": {}, "became": {}, "because": {}, "become": {},
	"been": {}, "before": {}, "behind": {}, "being": {}, "below": {},
	"beside": {}, "besides": {}, "best": {}, "between": {}, "beyond": {},
	"both": {}, "but": {}, "by": {},

	"can": {}, "cannot": {}, "could": {},

	"did": {}, "do": {}, "does": {}, "doing": {}, "done": {}, "down": {},
	"during": {},

	"each": {}, "either": {}, "else": {}, "enough": {}, "even": {},
	"ever": {}, "every": {}, "everything": {},

	"few": {}, "find": {}, "for": {}, "from": {}, "further": {},

	"get": {}, "got": {},

	"had": {}, "has": {}, "have": {}, "having": {}, "he": {}, "her": {},
	"here": {}, "hers": {}, "him": {}, "his": {}, "how": {}, "however": {},

	"i": {}, "if": {}, "in": {}, "indeed": {}, "into": {}, "is": {},
	"it": {}, "its": {}, "itself": {},

	"just": {},

	"last": {}, "learn": {}, "least": {}, "less": {}, "like": {},

	"made": {}, "make": {}, "many": {}, "may": {}, "maybe": {}, "me": {},
	"might": {}, "more": {}, "most": {}, "much": {}, "must": {}, "my": {},

	"need": {}, "neither": {}, "never": {}, "new": {}, "next": {}, "no": {},
	"none": {}, "nor": {}, "not": {}, "nothing": {}, "now": {},

	"of": {}, "off": {}, "often": {}, "on": {}, "once": {}, "one": {},
	"only": {}, "onto": {}, "or": {}, "other": {}, "our": {}, "out": {},
	"over": {}, "own": {},

	"per": {}, "perhaps": {},

	"rather": {},

	"same": {}, "see": {}, "seem": {}, "several": {}, "she": {},
	"should": {}, "since": {}, "so": {}, "some": {}, "something": {},
	"still": {}, "such": {},

	"take": {}, "than": {}, "that": {}, "the": {}, "their": {}, "them": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"those": {}, "through": {}, "thus": {}, "to": {}, "too": {},
	"top": {}, "toward": {},

	"under": {}, "until": {}, "up": {}, "upon": {}, "us": {}, "use": {},
	"used": {}, "using": {},

	"very": {}, "via": {},

	"was": {}, "we": {}, "well": {}, "were": {}, "what": {}, "when": {},
	"where": {}, "whether": {}, "which": {}, "while": {}, "who": {},
	"whose": {}, "why": {}, "will": {}, "with": {}, "within": {},
	"without": {}, "would": {},

	"yet": {}, "you": {}, "your": {}, "yours": {},

	// SERP/UI noise
	"click": {}, "website": {}, "site": {}, "page": {}, "pages": {},
	"home": {}, "search": {}, "results": {}, "online": {}, "free": {},
	"shop": {}, "buy": {}, "www": {}, "com": {},
}

var spanishStopwords = buildStopwordSet(
	"de la que el en y a los del se las por un para con no una su al lo",
	"como mas pero sus le ya o este si porque esta entre cuando muy sin",
	"sobre tambien me hasta hay donde quien desde todo nos durante todos",
	"uno les ni contra otros ese eso ante ellos e esto mi antes algunos",
	"que unos yo otro otras otra el tanto esa estos mucho quienes nada",
	"muchos cual poco ella estar estas algunas algo nosotros",
)

var frenchStopwords = buildStopwordSet(
	"de la le les des en un une du et a au aux ce ces cette dans est il",
	"elle ils elles je tu nous vous ne pas plus par pour avec sans sous",
	"sur si son sa ses leur leurs mon ma mes ton ta tes notre nos votre",
	"vos qui que quoi dont ou mais donc or ni car tres tout tous toute",
	"toutes autre autres meme aussi comme etre avoir fait faire peut",
)

var germanStopwords = buildStopwordSet(
	"der die das den dem des ein eine einer eines einem einen und oder",
	"aber auch auf aus bei bis durch fur gegen in ist im mit nach nicht",
	"noch nur ob oder seit sich sie so uber um und unter vom von vor",
	"war was wenn wie wir zu zum zur als am an er es ich ihr man mehr",
	"kann konnen haben hat sein sind werden wird wurde dass",
)

func buildStopwordSet(lines ...string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, line := range lines {
		for _, w := range strings.Fields(line) {
			set[w] = struct{}{}
		}
	}
	return set
}

// stopwordSets keys the pluggable stopword policy by detected language.
var stopwordSets = map[lingua.Language]map[string]struct{}{
	lingua.English: englishStopwords,
	lingua.Spanish: spanishStopwords,
	lingua.French:  frenchStopwords,
	lingua.German:  germanStopwords,
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.English, lingua.Spanish, lingua.French, lingua.German).
			Build()
	})
	return detector
}

// DetectLanguage guesses the dominant language of the corpus text so the
// tokenizer can pick a matching stopword set. Detection runs over a
// bounded sample; anything unrecognized falls back to English.
func DetectLanguage(texts []string) lingua.Language {
	var sample strings.Builder
	for _, t := range texts {
		if sample.Len() > 4000 {
			break
		}
		sample.WriteString(t)
		sample.WriteString(" ")
	}
	if strings.TrimSpace(sample.String()) == "" {
		return lingua.English
	}

	lang, ok := languageDetector().DetectLanguageOf(sample.String())
	if !ok {
		return lingua.English
	}
	if _, supported := stopwordSets[lang]; !supported {
		return lingua.English
	}
	return lang
}

// Tokenizer lowercases, splits, and stopword-filters record text. The
// stopword set is fixed at construction, so a job tokenizes consistently.
type Tokenizer struct {
	stopwords map[string]struct{}
}

// NewTokenizer builds a tokenizer for the given language. Unsupported
// languages get the English set.
func NewTokenizer(lang lingua.Language) *Tokenizer {
	set, ok := stopwordSets[lang]
	if !ok {
		set = englishStopwords
	}
	return &Tokenizer{stopwords: set}
}

// Tokenize splits text into lowercased terms, dropping stopwords,
// single-rune tokens, and purely numeric tokens.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		token := current.String()
		current.Reset()
		if utf8.RuneCountInString(token) < 2 {
			return
		}
		if isNumeric(token) {
			return
		}
		if _, stop := t.stopwords[token]; stop {
			return
		}
		tokens = append(tokens, token)
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
