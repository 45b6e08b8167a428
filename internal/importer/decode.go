package importer

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// exportCharset is an encoding that bank and POS exports are seen in.
type exportCharset int

const (
	charsetUTF8 exportCharset = iota
	charsetUTF8BOM
	charsetUTF16LE
	charsetUTF16BE
	charsetWindows1252
	charsetLatin9
)

const sniffLen = 4096

// decodeExport returns r decoded to UTF-8, judging the charset from the
// first sniffLen bytes.
func decodeExport(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch sniffCharset(head) {
	case charsetUTF8BOM:
		_, _ = br.Discard(3)
		return br, nil
	case charsetUTF16LE:
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case charsetUTF16BE:
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	case charsetWindows1252:
		return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
	case charsetLatin9:
		return transform.NewReader(br, charmap.ISO8859_15.NewDecoder()), nil
	}

	return br, nil
}

// sniffCharset checks, in order: a BOM, a BOM-less UTF-16 header (what
// spreadsheet "Unicode text" exports look like), valid UTF-8, then chardet.
// Anything left is read as Windows-1252, the code page of most desktop
// banking exports.
func sniffCharset(head []byte) exportCharset {
	switch {
	case bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}):
		return charsetUTF8BOM
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}):
		return charsetUTF16LE
	case bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		return charsetUTF16BE
	}

	if cs, ok := interleavedNUL(head); ok {
		return cs
	}

	if utf8.Valid(trimPartialRune(head)) {
		return charsetUTF8
	}

	if res, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		switch res.Charset {
		case "UTF-8":
			return charsetUTF8
		case "ISO-8859-15":
			return charsetLatin9
		}
	}

	return charsetWindows1252
}

// interleavedNUL spots UTF-16 text without a BOM: an ASCII header puts a
// NUL in every other byte.
func interleavedNUL(head []byte) (exportCharset, bool) {
	n := min(len(head), 64) &^ 1
	if n < 8 {
		return 0, false
	}

	var evenNUL, oddNUL int

	for i := 0; i < n; i += 2 {
		if head[i] == 0 {
			evenNUL++
		}

		if head[i+1] == 0 {
			oddNUL++
		}
	}

	pairs := n / 2

	switch {
	case evenNUL == 0 && oddNUL*4 >= pairs*3:
		return charsetUTF16LE, true
	case oddNUL == 0 && evenNUL*4 >= pairs*3:
		return charsetUTF16BE, true
	}

	return 0, false
}

// trimPartialRune drops a multi-byte rune cut off by the sniff window.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}

		if !utf8.FullRune(b[i:]) {
			return b[:i]
		}

		break
	}

	return b
}
