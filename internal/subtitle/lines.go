package subtitle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// input text encoding handling
type Encoding string

const (
	// honor a BOM, otherwise sniff the charset of non UTF-8 input
	EncodingAuto Encoding = "auto"
	// honor a BOM, otherwise read bytes as UTF-8
	EncodingUTF8 Encoding = "utf-8"
)

const (
	sniffSize     = 64 * 1024
	maxLineLength = 1024 * 1024
)

func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(EncodingAuto):
		return EncodingAuto, nil
	case string(EncodingUTF8), "utf8":
		return EncodingUTF8, nil
	default:
		return "", fmt.Errorf("invalid encoding %q: use auto or utf-8", s)
	}
}

// LineReader yields the decoded lines of one subtitle file. Lines that are
// not valid UTF-8 after decoding are dropped. The sequences returned by
// All and Lines share one scanner and can be consumed only once.
type LineReader struct {
	scanner *bufio.Scanner
	charset string
	err     error
}

func NewLineReader(r io.Reader, enc Encoding) (*LineReader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	head, err := br.Peek(sniffSize)
	if err != nil && !errors.Is(err, io.EOF) &&
		!errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	charset := "UTF-8"
	var fallback transform.Transformer = encoding.Nop.NewDecoder()

	if enc == EncodingAuto && !hasBOM(head) && !looksLikeUTF8(head) {
		name, decoder := detectCharset(head)
		if decoder != nil {
			charset = name
			fallback = decoder.NewDecoder()
		}
	}

	scanner := bufio.NewScanner(
		transform.NewReader(br, unicode.BOMOverride(fallback)),
	)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	return &LineReader{scanner: scanner, charset: charset}, nil
}

func (lr *LineReader) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lr.Lines() {
			if !yield(line) {
				return
			}
		}
	}
}

// Lines yields each readable line with its 1-based position in the input.
// Dropped lines still count, so numbers match what an editor shows.
func (lr *LineReader) Lines() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		n := 0
		for lr.scanner.Scan() {
			n++
			line := lr.scanner.Text()
			if !utf8.ValidString(line) {
				continue
			}
			if !yield(n, line) {
				return
			}
		}
		if err := lr.scanner.Err(); err != nil {
			lr.err = fmt.Errorf("error reading subtitle file: %w", err)
		}
	}
}

// error that stopped iteration, if any
func (lr *LineReader) Err() error {
	return lr.err
}

// charset the input was decoded from when no BOM was present
func (lr *LineReader) Charset() string {
	return lr.charset
}

func hasBOM(b []byte) bool {
	switch {
	case len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF:
		return true
	case len(b) >= 2 && b[0] == 0xFF && b[1] == 0xFE:
		return true
	case len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF:
		return true
	}
	return false
}

// looksLikeUTF8 reports whether the sniffed bytes read as UTF-8 with a few
// broken lines rather than as a legacy charset: well-formed multi-byte runes
// must at least match the bytes that fail to decode.
func looksLikeUTF8(b []byte) bool {
	b = trimPartialRune(b)

	multi, invalid := 0, 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		switch {
		case r == utf8.RuneError && size == 1:
			invalid++
		case size > 1:
			multi++
		}
		b = b[size:]
	}

	return invalid == 0 || multi >= invalid
}

// drops a trailing rune cut off by the sniff window
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			break
		}
	}
	return b
}

func detectCharset(sample []byte) (string, encoding.Encoding) {
	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return "", nil
	}

	switch result.Charset {
	case "GB-18030":
		return result.Charset, simplifiedchinese.GB18030
	case "Big5":
		return result.Charset, traditionalchinese.Big5
	case "Shift_JIS":
		return result.Charset, japanese.ShiftJIS
	case "EUC-JP":
		return result.Charset, japanese.EUCJP
	case "EUC-KR":
		return result.Charset, korean.EUCKR
	case "ISO-8859-1":
		return result.Charset, charmap.ISO8859_1
	case "windows-1252":
		return result.Charset, charmap.Windows1252
	case "UTF-16LE":
		return result.Charset, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case "UTF-16BE":
		return result.Charset, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	default:
		return "", nil
	}
}
