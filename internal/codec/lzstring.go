package codec

import (
	"strings"
	"unicode/utf16"
)

const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/="

// LZString implements the lz-string compressToBase64/decompressFromBase64
// pair. The algorithm works on UTF-16 code units, so strings are converted
// on the way in and out.
type LZString struct{}

// NewLZString returns the save-file codec.
func NewLZString() *LZString {
	return &LZString{}
}

// Encode compresses s and renders it in the 6-bit alphabet, padded with '='
// to a multiple of four characters.
func (c *LZString) Encode(s string) (string, error) {
	out := compress(utf16.Encode([]rune(s)), 6, func(v int) byte { return base64Alphabet[v] })
	switch len(out) % 4 {
	case 1:
		out = append(out, "==="...)
	case 2:
		out = append(out, "=="...)
	case 3:
		out = append(out, '=')
	}
	return string(out), nil
}

// Decode reverses Encode. Surrounding whitespace is ignored.
func (c *LZString) Decode(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &DecodeError{Offset: -1, Reason: "empty input"}
	}

	values := make([]int, len(text))
	for i := 0; i < len(text); i++ {
		v := strings.IndexByte(base64Alphabet, text[i])
		if v < 0 {
			return "", &DecodeError{Offset: i, Reason: "character outside base64 alphabet"}
		}
		values[i] = v
	}

	units, err := decompress(values, 32)
	if err != nil {
		return "", err
	}
	if len(units) == 0 {
		return "", &DecodeError{Offset: -1, Reason: "empty result"}
	}
	return string(utf16.Decode(units)), nil
}

// bitWriter packs codes LSB-first into characters of bitsPerChar bits.
type bitWriter struct {
	out         []byte
	bitsPerChar int
	char        func(int) byte
	val         int
	position    int
}

func (w *bitWriter) writeBit(bit int) {
	w.val = (w.val << 1) | bit
	if w.position == w.bitsPerChar-1 {
		w.position = 0
		w.out = append(w.out, w.char(w.val))
		w.val = 0
	} else {
		w.position++
	}
}

func (w *bitWriter) write(value, numBits int) {
	for i := 0; i < numBits; i++ {
		w.writeBit(value & 1)
		value >>= 1
	}
}

func (w *bitWriter) flush() {
	for {
		w.val <<= 1
		if w.position == w.bitsPerChar-1 {
			w.out = append(w.out, w.char(w.val))
			return
		}
		w.position++
	}
}

// pairKey identifies the dictionary phrase formed by an existing phrase
// code followed by one more code unit.
type pairKey struct {
	prefix int
	unit   uint16
}

func compress(units []uint16, bitsPerChar int, char func(int) byte) []byte {
	w := &bitWriter{bitsPerChar: bitsPerChar, char: char}

	chars := make(map[uint16]int)
	pending := make(map[uint16]bool)
	pairs := make(map[pairKey]int)

	dictSize := 3
	numBits := 2
	enlargeIn := 2

	// The current phrase is tracked by its dictionary code. phraseUnit is
	// only meaningful while the phrase is a single code unit.
	phrase := -1
	single := false
	var phraseUnit uint16

	grow := func() {
		enlargeIn--
		if enlargeIn == 0 {
			enlargeIn = 1 << numBits
			numBits++
		}
	}

	emit := func() {
		if single && pending[phraseUnit] {
			if phraseUnit < 256 {
				w.write(0, numBits)
				w.write(int(phraseUnit), 8)
			} else {
				w.write(1, numBits)
				w.write(int(phraseUnit), 16)
			}
			grow()
			delete(pending, phraseUnit)
		} else {
			w.write(phrase, numBits)
		}
		grow()
	}

	for _, u := range units {
		if _, ok := chars[u]; !ok {
			chars[u] = dictSize
			dictSize++
			pending[u] = true
		}

		if phrase < 0 {
			phrase, single, phraseUnit = chars[u], true, u
			continue
		}

		key := pairKey{prefix: phrase, unit: u}
		if code, ok := pairs[key]; ok {
			phrase, single = code, false
			continue
		}

		emit()
		pairs[key] = dictSize
		dictSize++
		phrase, single, phraseUnit = chars[u], true, u
	}

	if phrase >= 0 {
		emit()
	}

	w.write(2, numBits)
	w.flush()
	return w.out
}

// bitReader consumes 6-bit values MSB-first within each character.
type bitReader struct {
	values   []int
	reset    int
	val      int
	position int
	index    int
}

func (r *bitReader) next() int {
	if r.index >= len(r.values) {
		r.index++
		return 0
	}
	v := r.values[r.index]
	r.index++
	return v
}

func (r *bitReader) read(numBits int) int {
	bits := 0
	for power := 1; power != 1<<numBits; power <<= 1 {
		resb := r.val & r.position
		r.position >>= 1
		if r.position == 0 {
			r.position = r.reset
			r.val = r.next()
		}
		if resb > 0 {
			bits |= power
		}
	}
	return bits
}

func decompress(values []int, reset int) ([]uint16, error) {
	r := &bitReader{values: values, reset: reset, position: reset}
	r.val = r.next()

	dictionary := make([][]uint16, 3, 64)
	enlargeIn := 4
	dictSize := 4
	numBits := 3

	var first []uint16
	switch r.read(2) {
	case 0:
		first = []uint16{uint16(r.read(8))}
	case 1:
		first = []uint16{uint16(r.read(16))}
	case 2:
		return nil, nil
	default:
		return nil, &DecodeError{Offset: 0, Reason: "invalid stream header"}
	}
	dictionary = append(dictionary, first)

	w := first
	result := append([]uint16(nil), first...)

	for {
		if r.index > len(values) {
			return nil, &DecodeError{Offset: len(values), Reason: "truncated stream"}
		}

		code := r.read(numBits)
		switch code {
		case 0, 1:
			width := 8
			if code == 1 {
				width = 16
			}
			dictionary = append(dictionary, []uint16{uint16(r.read(width))})
			dictSize++
			code = dictSize - 1
			enlargeIn--
		case 2:
			return result, nil
		}

		if enlargeIn == 0 {
			enlargeIn = 1 << numBits
			numBits++
		}

		var entry []uint16
		switch {
		case code < len(dictionary) && code >= 3:
			entry = dictionary[code]
		case code == dictSize:
			entry = make([]uint16, 0, len(w)+1)
			entry = append(entry, w...)
			entry = append(entry, w[0])
		default:
			return nil, &DecodeError{Offset: r.index - 1, Reason: "reference to unknown dictionary entry"}
		}
		result = append(result, entry...)

		phrase := make([]uint16, 0, len(w)+1)
		phrase = append(phrase, w...)
		phrase = append(phrase, entry[0])
		dictionary = append(dictionary, phrase)
		dictSize++
		enlargeIn--

		w = entry

		if enlargeIn == 0 {
			enlargeIn = 1 << numBits
			numBits++
		}
	}
}
