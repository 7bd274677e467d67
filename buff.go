package copybook

import (
	"bytes"
	"unicode/utf8"
)

// lineBuilder assembles a record of a known length by writing field values at
// their positions. Positions are codepoint indices once a multibyte character
// has been written and byte indices before that.
type lineBuilder struct {
	data []byte

	// codepointIndices[n] is the byte offset of the n-th codepoint in data.
	// It stays nil while data is pure ASCII.
	codepointIndices []int
}

// newLineBuilder makes a lineBuilder of length n filled with fillChar.
func newLineBuilder(n, capacity int, fillChar byte) *lineBuilder {
	if capacity < n {
		capacity = n
	}
	data := make([]byte, n, capacity)
	if n > 0 {
		data[0] = fillChar
		for filled := 1; filled < n; filled *= 2 {
			copy(data[filled:], data[:filled])
		}
	}
	return &lineBuilder{data: data}
}

// WriteValue writes value into the line starting at codepoint start.
func (b *lineBuilder) WriteValue(start int, value rawValue) {
	if value.len() == 0 {
		return
	}
	if !b.hasMultiByteChar() && !value.hasMultiByteChar() {
		copy(b.data[start:], value.data)
		return
	}

	if !b.hasMultiByteChar() && value.hasMultiByteChar() {
		b.initializeIndices()
	}

	end := start + value.len() - 1

	byteStart := b.codepointIndices[start]
	byteEnd := b.byteEndIndex(end)
	writeSpan := b.data[byteStart : byteEnd+1]

	// The span currently occupied may be narrower or wider in bytes than the
	// value being written.
	byteDiff := value.byteLen() - len(writeSpan)
	if byteDiff != 0 {
		b.adjustByteSpan(end, byteDiff)
		byteEnd = b.byteEndIndex(end)
	}

	copy(b.data[byteStart:byteEnd+1], value.data)

	if byteDiff != 0 || value.hasMultiByteChar() {
		b.correctIndices(start, value)
	}
}

func (b *lineBuilder) String() string {
	return string(b.data)
}

func (b *lineBuilder) initializeIndices() {
	b.codepointIndices = make([]int, len(b.data))
	for i := range b.codepointIndices {
		b.codepointIndices[i] = i
	}
}

func (b *lineBuilder) correctIndices(start int, value rawValue) {
	firstIndex := b.byteEndIndex(start-1) + 1

	if !value.hasMultiByteChar() {
		for i := 0; i < value.len(); i++ {
			b.codepointIndices[start+i] = firstIndex + i
		}
		return
	}

	for i, s := range value.codepointIndices {
		b.codepointIndices[start+i] = firstIndex + s
	}
}

func (b *lineBuilder) adjustByteSpan(end, diff int) {
	byteEnd := b.byteEndIndex(end)

	switch {
	case diff < 0:
		copy(b.data[byteEnd+diff:], b.data[byteEnd:])
		b.data = b.data[:len(b.data)+diff]
	case diff > 0:
		b.data = append(b.data, bytes.Repeat([]byte{spaceChar}, diff)...)
		copy(b.data[byteEnd+diff:], b.data[byteEnd:])
	}

	for i := end + 1; i < len(b.codepointIndices); i++ {
		b.codepointIndices[i] += diff
	}
}

func (b *lineBuilder) byteEndIndex(end int) int {
	if b.codepointIndices == nil {
		return end
	}
	if end == len(b.codepointIndices)-1 {
		return len(b.data) - 1
	}
	return b.codepointIndices[end+1] - 1
}

func (b *lineBuilder) hasMultiByteChar() bool {
	return b.codepointIndices != nil
}

// rawValue is a slice of record text. When codepoint indexing is in use and
// the text contains multibyte characters, codepointIndices maps codepoint
// positions to byte offsets.
type rawValue struct {
	data             string
	codepointIndices []int
}

func newRawValue(data string, useCodepointIndices bool) rawValue {
	value := rawValue{data: data}
	if !useCodepointIndices {
		return value
	}
	bytesIdx := findFirstMultiByteChar(data)
	if bytesIdx == len(data) {
		return value
	}
	codepointIndices := make([]int, bytesIdx, len(data))
	for i := 0; i < bytesIdx; i++ {
		codepointIndices[i] = i
	}
	for bytesIdx < len(data) {
		_, size := utf8.DecodeRuneInString(data[bytesIdx:])
		codepointIndices = append(codepointIndices, bytesIdx)
		bytesIdx += size
	}
	value.codepointIndices = codepointIndices
	return value
}

func (v rawValue) len() int {
	if v.codepointIndices == nil {
		return len(v.data)
	}
	return len(v.codepointIndices)
}

func (v rawValue) byteLen() int {
	return len(v.data)
}

func (v rawValue) hasMultiByteChar() bool {
	return v.codepointIndices != nil
}

func (v rawValue) byteStartIndex(start int) int {
	if v.codepointIndices == nil {
		return start
	}
	if start == len(v.codepointIndices) {
		return len(v.data)
	}
	return v.codepointIndices[start]
}

func (v rawValue) byteEndIndex(end int) int {
	if v.codepointIndices == nil {
		return end
	}
	if end == len(v.codepointIndices)-1 {
		return len(v.data) - 1
	}
	return v.codepointIndices[end+1] - 1
}

// slice returns the codepoints in the inclusive interval [start, end].
func (v rawValue) slice(start, end int) rawValue {
	if end < start {
		return rawValue{}
	}
	d := v.data[v.byteStartIndex(start) : v.byteEndIndex(end)+1]
	return newRawValue(d, v.hasMultiByteChar())
}

// findFirstMultiByteChar returns the index of the first byte belonging to a
// multibyte character, or len(data) when there is none.
func findFirstMultiByteChar(data string) int {
	for i := 0; i < len(data); i++ {
		if data[i]&0x80 == 0x80 {
			return i
		}
	}
	return len(data)
}
