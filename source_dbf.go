package main

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
)

const (
	dbfHeaderSize    = 32
	dbfFieldDescSize = 32
	dbfFieldTerm     = 0x0D
)

// dbfHeader is the fixed 32-byte dBase III/IV header (spec.md §4.1).
type dbfHeader struct {
	recordCount    uint32
	headerLength   uint16
	recordLength   uint16
	languageDriver byte
}

type dbfField struct {
	name    string
	typ     string // single-character type tag
	length  byte
	decimal byte
}

// dbfReader implements SourceReader for the legacy dBase fixed-layout
// record format (spec.md §4.1).
type dbfReader struct {
	rc        *RunContext
	path      string
	f         *os.File
	br        *bufio.Reader
	header    dbfHeader
	fields    []dbfField
	enc       encoding.Encoding
	emitted   int64
	tableName string
}

func newDBFReader(path string, rc *RunContext) (*dbfReader, error) {
	base := filepath.Base(path)
	tableName := strings.TrimSuffix(base, filepath.Ext(base))
	return &dbfReader{rc: rc, path: path, tableName: tableName}, nil
}

func (r *dbfReader) RowsEmitted() int64 { return r.emitted }

func (r *dbfReader) Describe(ctx context.Context) (Table, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return Table{}, SourceFormatError(r.tableName, fmt.Errorf("open %s: %w", r.path, err))
	}
	r.f = f
	r.br = bufio.NewReaderSize(f, 64*1024)

	raw := make([]byte, dbfHeaderSize)
	if _, err := io.ReadFull(r.br, raw); err != nil {
		r.Close()
		return Table{}, SourceFormatError(r.tableName, fmt.Errorf("read header: %w", err))
	}

	r.header = dbfHeader{
		recordCount:    binary.LittleEndian.Uint32(raw[4:8]),
		headerLength:   binary.LittleEndian.Uint16(raw[8:10]),
		recordLength:   binary.LittleEndian.Uint16(raw[10:12]),
		languageDriver: raw[29],
	}
	if r.header.recordLength == 0 {
		r.Close()
		return Table{}, SourceFormatError(r.tableName, fmt.Errorf("malformed header: zero record length"))
	}
	r.enc = resolveDBFEncoding(r.header.languageDriver)
	if r.rc != nil && r.rc.Encoding != nil {
		r.enc = r.rc.Encoding // command-file override takes precedence over the header byte
	}

	// Field descriptor array: 32 bytes each, terminated by 0x0D.
	fieldBytesTotal := int(r.header.headerLength) - dbfHeaderSize - 1
	if fieldBytesTotal <= 0 || fieldBytesTotal%dbfFieldDescSize != 0 {
		r.Close()
		return Table{}, SourceFormatError(r.tableName, fmt.Errorf("malformed header: field descriptor region size %d", fieldBytesTotal))
	}
	numFields := fieldBytesTotal / dbfFieldDescSize

	cols := make([]Column, 0, numFields)
	for i := 0; i < numFields; i++ {
		fd := make([]byte, dbfFieldDescSize)
		if _, err := io.ReadFull(r.br, fd); err != nil {
			r.Close()
			return Table{}, SourceFormatError(r.tableName, fmt.Errorf("read field descriptor %d: %w", i, err))
		}
		name := strings.TrimRight(string(fd[0:11]), "\x00")
		field := dbfField{
			name:    name,
			typ:     string(fd[11]),
			length:  fd[16],
			decimal: fd[17],
		}
		r.fields = append(r.fields, field)
		cols = append(cols, Column{
			SourceName: field.name,
			PGName:     pgColumnName(field.name),
			SourceType: field.typ,
			Length:     int64(field.length),
			Scale:      int64(field.decimal),
			Nullable:   true,
			OrdinalPos: i + 1,
		})
	}

	// Consume and validate the 0x0D terminator.
	term := make([]byte, 1)
	if _, err := io.ReadFull(r.br, term); err != nil || term[0] != dbfFieldTerm {
		r.Close()
		return Table{}, SourceFormatError(r.tableName, fmt.Errorf("malformed header: missing field terminator"))
	}

	return Table{
		SourceName: r.tableName,
		PGName:     pgColumnName(r.tableName),
		Columns:    cols,
	}, nil
}

// Iter streams exactly header.recordCount rows, in field order, stopping
// early (without error) if ctx is canceled.
func (r *dbfReader) Iter(ctx context.Context, rowsCh chan<- Row) error {
	defer close(rowsCh)

	recBuf := make([]byte, r.header.recordLength)
	for i := uint32(0); i < r.header.recordCount; i++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if _, err := io.ReadFull(r.br, recBuf); err != nil {
			return SourceFormatError(r.tableName, fmt.Errorf("truncated record %d of %d: %w", i, r.header.recordCount, err))
		}

		row := make(Row, len(r.fields))
		offset := 1 // skip the 1-byte deletion flag
		for fi, fld := range r.fields {
			raw := recBuf[offset : offset+int(fld.length)]
			offset += int(fld.length)

			if fld.typ == "C" {
				decoded, err := decodeDBFText(raw, r.enc)
				if err != nil {
					return SourceFormatError(r.tableName, fmt.Errorf("decode field %s: %w", fld.name, err))
				}
				row[fi] = decoded
			} else {
				row[fi] = string(raw)
			}
		}

		select {
		case rowsCh <- row:
			r.emitted++
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

func (r *dbfReader) Close() error {
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

// pgColumnName applies the identifier-case policy: lowercase, since DBF
// field names carry no casing information worth preserving beyond that.
func pgColumnName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
