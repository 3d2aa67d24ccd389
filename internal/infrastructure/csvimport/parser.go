package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Parser reads header-mapped CSV rows. It strips a UTF-8 BOM and rejects
// non-UTF-8 input before any row is produced.
type Parser struct {
	delimiter rune
	headers   []string
	headerMap map[string]int
	reader    *csv.Reader
	line      int
}

// ParserOption configures a Parser
type ParserOption func(*Parser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(p *Parser) {
		p.delimiter = d
	}
}

// NewParser creates a parser from a reader and consumes the header row.
func NewParser(r io.Reader, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		delimiter: ',',
		headerMap: make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}

	buf := bufio.NewReader(r)
	head, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = buf.Discard(3)
	}
	if sample, err := buf.Peek(4096); err == nil || err == io.EOF {
		if !utf8.Valid(sample) {
			return nil, ErrInvalidEncoding
		}
	}

	p.reader = csv.NewReader(buf)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1

	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	p.headers = make([]string, len(record))
	for i, h := range record {
		h = strings.TrimSpace(h)
		p.headers[i] = h
		p.headerMap[h] = i
	}
	p.line = 1

	return p, nil
}

// ParseBytes creates a parser from a byte slice
func ParseBytes(data []byte, opts ...ParserOption) (*Parser, error) {
	return NewParser(bytes.NewReader(data), opts...)
}

// MissingHeaders returns the required headers the file does not carry
func (p *Parser) MissingHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if _, ok := p.headerMap[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one parsed data row keyed by header name
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the trimmed value of a column
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty reports whether every column is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow reads the next non-header row. Empty rows are returned as-is;
// callers skip them via IsEmpty.
func (p *Parser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	p.line++
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("error reading row %d: %w", p.line, err)
	}

	row := &Row{
		LineNumber: p.line,
		Data:       make(map[string]string, len(p.headers)),
	}
	for i, header := range p.headers {
		if i < len(record) {
			row.Data[header] = strings.TrimSpace(record[i])
		} else {
			row.Data[header] = ""
		}
	}
	return row, nil
}

// ReadAll reads every remaining non-empty row
func (p *Parser) ReadAll() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
