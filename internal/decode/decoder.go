// Package decode turns raw ERP export bytes into header-labelled rows.
//
// Exports arrive in a legacy Korean code page (EUC-KR by default), comma
// separated, with the column labels on the first line. The decoder is
// deliberately lenient about row shape: short rows are padded, long rows are
// truncated, and blank lines are dropped. The only hard failure is text that
// is not valid under the declared encoding, reported as a *DecodeError.
package decode

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/korean"
)

// DefaultEncoding is the code page the ERP system exports in.
const DefaultEncoding = "euc-kr"

// Options controls how a source file is decoded.
type Options struct {
	// Encoding is a WHATWG encoding label such as "euc-kr" or "utf-8".
	Encoding string

	// Delimiter separates fields. Zero means ','.
	Delimiter rune
}

// DefaultOptions returns the options matching a stock ERP export.
func DefaultOptions() Options {
	return Options{Encoding: DefaultEncoding, Delimiter: ','}
}

// DecodeError reports bytes that are not valid text under the declared encoding.
type DecodeError struct {
	Encoding string
	Line     int // 1-indexed line of the first undecodable character
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("encoding error: input is not valid %s text: %v", e.Encoding, e.Err)
	}
	return fmt.Sprintf("encoding error: input is not valid %s text (line %d)", e.Encoding, e.Line)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrUnknownEncoding is returned when Options.Encoding names no known code page.
var ErrUnknownEncoding = errors.New("unknown encoding")

// LookupEncoding resolves an encoding label. An empty label means DefaultEncoding.
func LookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, DefaultEncoding) {
		return korean.EUCKR, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// Decode reads the whole of r and splits it into rows keyed by the first
// line's labels. A nil reader or empty input yields an empty table.
func Decode(r io.Reader, opts Options) (*Table, error) {
	if r == nil {
		return emptyTable(), nil
	}

	enc, err := LookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return DecodeBytes(raw, enc, encodingName(opts.Encoding), opts.Delimiter)
}

// DecodeBytes decodes an in-memory buffer with an already resolved encoding.
func DecodeBytes(raw []byte, enc encoding.Encoding, name string, delim rune) (*Table, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return emptyTable(), nil
	}

	text, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, &DecodeError{Encoding: name, Err: err}
	}
	// x/text decoders substitute U+FFFD for byte sequences they cannot map.
	if i := bytes.IndexRune(text, utf8.RuneError); i >= 0 {
		return nil, &DecodeError{Encoding: name, Line: bytes.Count(text[:i], []byte{'\n'}) + 1}
	}
	text = bytes.TrimPrefix(text, []byte("\ufeff"))

	return parseRecords(bytes.NewReader(text), delim)
}

func parseRecords(r io.Reader, delim rune) (*Table, error) {
	cr := csv.NewReader(r)
	if delim != 0 {
		cr.Comma = delim
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return emptyTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid csv header: %w", err)
	}

	header := NewHeader(first)
	table := &Table{Header: header}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		if isBlank(record) {
			continue
		}
		line, _ := cr.FieldPos(0)
		table.Rows = append(table.Rows, newRow(header, record, line))
	}

	return table, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func encodingName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultEncoding
	}
	return strings.ToLower(name)
}
