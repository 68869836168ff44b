package expenseparser

// The amount grammar, scanned left to right over a normalized message:
//
//	match  := ['$'] spaces ['-' spaces] number spaces ['$']
//	number := d{1,3} ('.' ddd)+ [',' d{1,2}]   thousands, optional decimals
//	        | d+ ',' d{1,2}                   comma decimals
//	        | d+ '.' d{1,2}                   dot decimals
//	        | d+                              plain integer
//
// Alternatives are tried in order and the first one that fits wins. After a
// match the scan resumes where the match ended, so matches never overlap.
// A sign-prefixed number is consumed but never becomes a candidate.

type rawMatch struct {
	start  int
	end    int
	number string
	signed bool
}

func scanMatches(text string) []rawMatch {
	var matches []rawMatch
	for i := 0; i < len(text); {
		m, ok := matchAt(text, i)
		if !ok {
			i++
			continue
		}
		matches = append(matches, m)
		i = m.end
	}
	return matches
}

func matchAt(text string, i int) (rawMatch, bool) {
	j := i
	if j < len(text) && text[j] == '$' {
		j++
	}
	j = skipSpaces(text, j)

	signed := false
	if j < len(text) && text[j] == '-' {
		signed = true
		j = skipSpaces(text, j+1)
	}

	numEnd, ok := matchNumber(text, j)
	if !ok {
		return rawMatch{}, false
	}

	k := skipSpaces(text, numEnd)
	if k < len(text) && text[k] == '$' {
		k++
	}

	return rawMatch{start: i, end: k, number: text[j:numEnd], signed: signed}, true
}

// matchNumber returns the end of the number starting at j.
func matchNumber(text string, j int) (int, bool) {
	runEnd := digitsFrom(text, j)
	if runEnd == j {
		return 0, false
	}

	if runEnd-j <= 3 {
		k := runEnd
		groups := 0
		for k+3 < len(text) && text[k] == '.' && digitsFrom(text[:k+4], k+1) == k+4 {
			k += 4
			groups++
		}
		if groups > 0 {
			if end, ok := decimalTail(text, k, ','); ok {
				k = end
			}
			return k, true
		}
	}

	if end, ok := decimalTail(text, runEnd, ','); ok {
		return end, true
	}
	if end, ok := decimalTail(text, runEnd, '.'); ok {
		return end, true
	}
	return runEnd, true
}

// decimalTail matches sep followed by one or two digits at k.
func decimalTail(text string, k int, sep byte) (int, bool) {
	if k+1 >= len(text) || text[k] != sep || !isDigit(text[k+1]) {
		return 0, false
	}
	end := k + 2
	if end < len(text) && isDigit(text[end]) {
		end++
	}
	return end, true
}

func digitsFrom(text string, j int) int {
	for j < len(text) && isDigit(text[j]) {
		j++
	}
	return j
}

func skipSpaces(text string, j int) int {
	for j < len(text) && (text[j] == ' ' || text[j] == '\t') {
		j++
	}
	return j
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
