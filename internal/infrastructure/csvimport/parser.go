// Package csvimport parses lead CSV files: strict RFC 4180 quoting, UTF-8
// with optional BOM, header aliasing to canonical lead fields, and per-row
// rejection so one bad row never sinks the file.
package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parser reads a lead CSV file row by row
type Parser struct {
	headers    []string
	headerMap  map[string]int
	currentRow int
	dataRows   int
	reader     *csv.Reader
}

// ParserOption is a functional option for Parser configuration
type ParserOption func(*csv.Reader)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(r *csv.Reader) {
		r.Comma = d
	}
}

// NewParser creates a parser from a reader. The stream must be UTF-8; a
// leading BOM is stripped. Quoting is strict: stray quotes reject the row.
func NewParser(r io.Reader, opts ...ParserOption) (*Parser, error) {
	buf := bufio.NewReader(r)

	head, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	// UTF-8 BOM: 0xEF, 0xBB, 0xBF
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	if err := validateUTF8(buf); err != nil {
		return nil, err
	}

	reader := csv.NewReader(buf)
	reader.Comma = ','
	reader.LazyQuotes = false
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // header decides; enforced per row afterwards

	for _, opt := range opts {
		opt(reader)
	}

	return &Parser{
		headerMap: make(map[string]int),
		reader:    reader,
	}, nil
}

// ParseFromBytes creates a parser from a byte slice
func ParseFromBytes(data []byte, opts ...ParserOption) (*Parser, error) {
	return NewParser(bytes.NewReader(data), opts...)
}

func validateUTF8(r *bufio.Reader) error {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file for encoding validation: %w", err)
	}
	if len(content) == 0 {
		return ErrEmptyFile
	}
	// The window may end mid-rune, so allow up to three truncated trailing
	// bytes before calling the content invalid.
	trimmed := content
	for i := 0; i < utf8.UTFMax-1 && len(trimmed) > 0; i++ {
		if utf8.Valid(trimmed) {
			return nil
		}
		trimmed = trimmed[:len(trimmed)-1]
	}
	if !utf8.Valid(trimmed) {
		return ErrInvalidEncoding
	}
	return nil
}

// ParseHeader reads the header row. Header names are trimmed and lowercased;
// an empty header cell rejects the whole file.
func (p *Parser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		header := strings.ToLower(trimSpaces(h))
		if header == "" {
			return ErrEmptyHeaderName
		}
		p.headers[i] = header
		p.headerMap[header] = i
	}

	if len(p.headers) == 0 {
		return ErrMissingHeader
	}

	// From here on, every data row must match the header width. The csv
	// reader keeps going after a width error, which is what lets us reject
	// just the row.
	p.reader.FieldsPerRecord = len(p.headers)
	p.currentRow = 1

	return nil
}

// Headers returns the normalized header names
func (p *Parser) Headers() []string {
	return p.headers
}

// HasHeader checks if a normalized header exists
func (p *Parser) HasHeader(name string) bool {
	_, ok := p.headerMap[name]
	return ok
}

// Row represents a parsed CSV data row
type Row struct {
	LineNumber int
	Data       map[string]string
	RawFields  []string
}

// Get returns the value for a column by normalized header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow reads the next data row. io.EOF signals the end of the file. A
// *RowError means this row was rejected but reading can continue.
func (p *Parser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}

	p.currentRow++

	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			reason := "malformed row"
			if errors.Is(parseErr.Err, csv.ErrFieldCount) {
				reason = fmt.Sprintf("expected %d columns, got %d", len(p.headers), len(record))
			} else if errors.Is(parseErr.Err, csv.ErrQuote) || errors.Is(parseErr.Err, csv.ErrBareQuote) {
				reason = "malformed quoting"
			}
			return nil, NewRowError(parseErr.Line, "", reason)
		}
		return nil, fmt.Errorf("error reading row %d: %w", p.currentRow, err)
	}

	p.dataRows++

	row := &Row{
		LineNumber: p.currentRow,
		Data:       make(map[string]string, len(p.headers)),
		RawFields:  record,
	}
	for i, header := range p.headers {
		if i < len(record) {
			row.Data[header] = trimSpaces(record[i])
		} else {
			row.Data[header] = ""
		}
	}

	return row, nil
}

// DataRows returns the number of data rows successfully read so far
func (p *Parser) DataRows() int {
	return p.dataRows
}

// trimSpaces trims ASCII whitespace plus the non-breaking spaces that
// spreadsheet exports like to sprinkle in
func trimSpaces(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF' || r == '\u00A0'
	})
}
