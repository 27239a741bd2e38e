package compat

import "unicode/utf16"

const pairSeparator = "::"

// pairKey joins the two names in UTF-16 code unit order so that the key,
// and everything derived from it, is independent of argument order.
func pairKey(nameA, nameB string) string {
	if lessUTF16(nameB, nameA) {
		nameA, nameB = nameB, nameA
	}
	return nameA + pairSeparator + nameB
}

func lessUTF16(a, b string) bool {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return len(ua) < len(ub)
}

// stableHash is DJB2 over UTF-16 code units with 32-bit signed wraparound,
// returned as its absolute value. The result lies in [0, 2^31].
func stableHash(s string) int64 {
	var hash int32 = 5381
	for _, c := range utf16.Encode([]rune(s)) {
		hash = (hash << 5) + hash + int32(c)
	}
	h := int64(hash)
	if h < 0 {
		h = -h
	}
	return h
}

// shr is a 32-bit arithmetic right shift. For h == 2^31 the value wraps to
// math.MinInt32 before shifting and the result is negative.
func shr(h int64, n uint) int64 {
	return int64(int32(h) >> n)
}

// deriveScore maps seed into [lo, hi]. The remainder keeps the sign of the
// seed, so a negative seed can land below lo.
func deriveScore(seed int64, lo, hi int) int {
	return lo + int(seed%int64(hi-lo+1))
}

// pick returns seed mod n for indexing a fixed list.
func pick(seed int64, n int) int {
	i := int(seed % int64(n))
	if i < 0 {
		// Only reachable when a shifted 2^31 seed went negative.
		i += n
	}
	return i
}

func pairSeed(a, b Profile) int64 {
	return stableHash(pairKey(a.Name, b.Name))
}
