package textutils

var spanishStopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "al", "algo", "algun", "alguna", "algunas", "alguno", "algunos",
		"ante", "antes", "aqui", "asi", "aun", "bajo", "bien", "cada", "casi",
		"como", "con", "contra", "cual", "cuando", "de", "del", "desde",
		"donde", "dos", "el", "ella", "ellas", "ello", "ellos", "en", "entre",
		"era", "es", "esa", "esas", "ese", "eso", "esos", "esta", "estas",
		"este", "esto", "estos", "fue", "fui", "ha", "hay", "hasta", "la",
		"las", "le", "les", "lo", "los", "mas", "me", "mi", "mis", "mucho",
		"muy", "nada", "ni", "no", "nos", "nosotros", "o", "otra", "otro",
		"para", "pero", "poco", "por", "porque", "que", "se", "sea", "ser",
		"si", "sin", "sobre", "su", "sus", "tambien", "te", "ti", "todo",
		"todos", "tu", "tus", "un", "una", "unas", "uno", "unos", "vos", "y",
		"ya", "yo",
	} {
		spanishStopwords[w] = struct{}{}
	}
}

// DiminutiveSuffixes lists common Spanish diminutive endings. Matching does
// not stem them; category keyword lists carry diminutive forms explicitly.
var DiminutiveSuffixes = []string{
	"ito", "ita", "itos", "itas",
	"cito", "cita", "citos", "citas",
	"illo", "illa", "illos", "illas",
}

// IsStopword reports whether a normalized word is a Spanish stopword.
func IsStopword(word string) bool {
	_, ok := spanishStopwords[word]
	return ok
}
