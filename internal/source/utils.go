package source

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"

	"fortio.org/safecast"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizeCRLF turns every \r\n into \n; a lone \r stays.
// The input is returned unchanged when there is nothing to replace.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, []byte("\r\n")) {
		return content, false
	}
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), true
}

func removeBOM(content []byte) ([]byte, bool) {
	rest, found := bytes.CutPrefix(content, utf8BOM)
	return rest, found
}

// buildLineIndex records the offset of every '\n'.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for off := 0; ; {
		i := bytes.IndexByte(content[off:], '\n')
		if i < 0 {
			return out
		}
		out = append(out, mustU32(off+i))
		off += i + 1
	}
}

// toLineCol converts a byte offset to 1-based line and column.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// число переводов строк строго до off
	n := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	if n == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	return LineCol{Line: mustU32(n + 1), Col: off - lineIdx[n-1]}
}

// normalizePath gives one spelling per path on every platform.
func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

func mustU32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("offset %d: %w", n, err))
	}
	return v
}
