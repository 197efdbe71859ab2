// Package srcpos converts the byte offsets carried by ast.SourceArea into
// human-facing line/column positions. Grounded on the teacher's
// internal/sourcemap/position.go: a LineIndex scans the source once for line
// boundaries, then answers offset<->line/column queries with a binary
// search instead of rescanning.
package srcpos

import "sort"

// LineIndex maps byte offsets within source to 1-based line/column pairs.
type LineIndex struct {
	source     string
	lineStarts []int // byte offset of the first character of each line
}

// NewLineIndex scans source for line boundaries (\n, \r, \r\n) and builds
// the offset index used by ByteOffsetToLineColumn.
func NewLineIndex(source string) *LineIndex {
	lineStarts := []int{0}
	for i := 0; i < len(source); i++ {
		switch source[i] {
		case '\n':
			lineStarts = append(lineStarts, i+1)
		case '\r':
			if i+1 < len(source) && source[i+1] == '\n' {
				i++
			}
			lineStarts = append(lineStarts, i+1)
		}
	}
	return &LineIndex{source: source, lineStarts: lineStarts}
}

// LineCount reports the number of lines in the indexed source.
func (idx *LineIndex) LineCount() int { return len(idx.lineStarts) }

// ByteOffsetToLineColumn converts a 0-based byte offset into a 1-based
// line and column (column counted in bytes, not runes).
func (idx *LineIndex) ByteOffsetToLineColumn(offset int) (line, col int) {
	line = sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	return line + 1, offset - idx.lineStarts[line] + 1
}

// ByteOffsetToLineColumnUTF16 is like ByteOffsetToLineColumn but reports the
// column in UTF-16 code units, the unit the Language Server Protocol uses.
func (idx *LineIndex) ByteOffsetToLineColumnUTF16(offset int) (line, col int) {
	line, byteCol := idx.ByteOffsetToLineColumn(offset)
	lineStart := idx.lineStarts[line-1]
	col = utf8ToUTF16Column(idx.source[lineStart:], byteCol-1)
	return line, col + 1
}

func utf8ToUTF16Column(s string, byteOffset int) int {
	units := 0
	for i := 0; i < byteOffset && i < len(s); {
		r := s[i]
		switch {
		case r < 0x80:
			i++
			units++
		case r < 0xE0:
			i += 2
			units++
		case r < 0xF0:
			i += 3
			units++
		default:
			i += 4
			units += 2 // surrogate pair
		}
	}
	return units
}

// LineColumnToByteOffset is the inverse of ByteOffsetToLineColumn.
func (idx *LineIndex) LineColumnToByteOffset(line, col int) int {
	if line < 1 {
		line = 1
	}
	if line > len(idx.lineStarts) {
		line = len(idx.lineStarts)
	}
	return idx.lineStarts[line-1] + col - 1
}
