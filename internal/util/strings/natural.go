package strings

import "unicode"

// NaturalCompareFold compares a and b using natural ordering, ignoring case.
// Runs of digits compare by numeric value, so "Foo2" sorts before "Foo10".
// It returns -1, 0 or 1.
func NaturalCompareFold(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	i, j := 0, 0

	for i < len(ra) && j < len(rb) {
		ca, cb := ra[i], rb[j]

		if unicode.IsDigit(ca) && unicode.IsDigit(cb) {
			ei := digitRunEnd(ra, i)
			ej := digitRunEnd(rb, j)
			if c := compareDigits(ra[i:ei], rb[j:ej]); c != 0 {
				return c
			}
			i, j = ei, ej
			continue
		}

		la, lb := unicode.ToLower(ca), unicode.ToLower(cb)
		if la != lb {
			if la < lb {
				return -1
			}
			return 1
		}
		i++
		j++
	}

	switch {
	case len(ra)-i < len(rb)-j:
		return -1
	case len(ra)-i > len(rb)-j:
		return 1
	}
	return 0
}

// NaturalLessFold reports whether a sorts before b under NaturalCompareFold.
func NaturalLessFold(a, b string) bool {
	return NaturalCompareFold(a, b) < 0
}

func digitRunEnd(r []rune, start int) int {
	end := start
	for end < len(r) && unicode.IsDigit(r[end]) {
		end++
	}
	return end
}

// compareDigits compares two digit runs by numeric value without overflow.
func compareDigits(a, b []rune) int {
	a = trimLeadingZeros(a)
	b = trimLeadingZeros(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for k := range a {
		if a[k] != b[k] {
			if a[k] < b[k] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func trimLeadingZeros(r []rune) []rune {
	for len(r) > 1 && r[0] == '0' {
		r = r[1:]
	}
	return r
}
