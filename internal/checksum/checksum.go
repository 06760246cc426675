package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// ShortLength is the prefix length used when a fingerprint is displayed.
const ShortLength = 12

// Of returns the hex SHA-256 of the normalized statement.
func Of(sql string) string {
	hash := sha256.Sum256([]byte(Normalize(sql)))
	return hex.EncodeToString(hash[:])
}

// Combine fingerprints an ordered list of fingerprints. Order matters.
func Combine(sums ...string) string {
	h := sha256.New()
	for _, s := range sums {
		h.Write([]byte(s))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Short truncates a fingerprint for display.
func Short(sum string) string {
	if len(sum) <= ShortLength {
		return sum
	}
	return sum[:ShortLength]
}

type scanState int

const (
	stateCode scanState = iota
	stateLineComment
	stateBlockComment
	stateLiteral // '...' or "..."
)

// Normalize drops -- and /* */ comments (block comments nest, as in
// PostgreSQL) and collapses whitespace runs outside literals to one space.
// Quoted literals and identifiers are copied unchanged.
func Normalize(sql string) string {
	var b strings.Builder
	b.Grow(len(sql))

	state := stateCode
	depth := 0
	var quote byte
	pendingSpace := false

	emit := func(ch byte) {
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteByte(ch)
	}

	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		var next byte
		if i+1 < len(sql) {
			next = sql[i+1]
		}

		switch state {
		case stateCode:
			switch {
			case ch == '-' && next == '-':
				state = stateLineComment
				pendingSpace = true
				i++
			case ch == '/' && next == '*':
				state = stateBlockComment
				depth = 1
				pendingSpace = true
				i++
			case ch == '\'' || ch == '"':
				state = stateLiteral
				quote = ch
				emit(ch)
			case ch < unicode.MaxASCII && unicode.IsSpace(rune(ch)):
				pendingSpace = true
			default:
				emit(ch)
			}

		case stateLineComment:
			if ch == '\n' {
				state = stateCode
			}

		case stateBlockComment:
			switch {
			case ch == '/' && next == '*':
				depth++
				i++
			case ch == '*' && next == '/':
				depth--
				i++
				if depth == 0 {
					state = stateCode
				}
			}

		case stateLiteral:
			b.WriteByte(ch)
			if ch == quote {
				// a doubled quote is an escaped quote, not the end
				if next == quote {
					b.WriteByte(next)
					i++
				} else {
					state = stateCode
				}
			}
		}
	}

	return b.String()
}
