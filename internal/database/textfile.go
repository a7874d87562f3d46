package database

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"deedfind/internal/types"
)

const delimiter = "|"

// ReadDeedFile loads a |-delimited deed file with a header row.
func ReadDeedFile(path string) ([]types.DeedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := ReadDeeds(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// ReadDeeds parses |-delimited deed rows. The header names the deed fields
// (municipalityTitleDeed, hajryPlotNumber, mazaya, title, referenceDeed,
// buildingNo) in any order; unknown columns are ignored. Row order is kept.
func ReadDeeds(r io.Reader) ([]types.DeedRecord, error) {
	var records []types.DeedRecord
	err := readDelimited(r, func(record map[string]string) {
		var d types.DeedRecord
		for _, f := range types.Fields {
			d = d.Set(f, record[f.String()])
		}
		records = append(records, d)
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// readDelimited iterates through a |-delimited stream with a header row,
// calling fn for each record in file order.
func readDelimited(r io.Reader, fn func(record map[string]string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // allow very long lines

	// Read header row
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return err
		}
		return ErrEmptyFile
	}
	header := strings.Split(strings.TrimSpace(scanner.Text()), delimiter)
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if !knowsAnyField(header) {
		return fmt.Errorf("%w: %q", ErrNoKnownColumns, header)
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, delimiter)
		rec := make(map[string]string, len(header))
		for j, h := range header {
			if j < len(cols) {
				rec[h] = strings.TrimSpace(cols[j])
			}
		}
		fn(rec)
	}
	return scanner.Err()
}

func knowsAnyField(header []string) bool {
	for _, h := range header {
		for _, f := range types.Fields {
			if h == f.String() {
				return true
			}
		}
	}
	return false
}

// WriteDeeds writes records in the format ReadDeeds accepts.
func WriteDeeds(w io.Writer, records []types.DeedRecord) error {
	bw := bufio.NewWriter(w)

	names := make([]string, len(types.Fields))
	for i, f := range types.Fields {
		names[i] = f.String()
	}
	if _, err := fmt.Fprintln(bw, strings.Join(names, delimiter)); err != nil {
		return err
	}

	cols := make([]string, len(types.Fields))
	for n, d := range records {
		for i, f := range types.Fields {
			v := d.Get(f)
			if strings.Contains(v, delimiter) || strings.ContainsAny(v, "\r\n") {
				return fmt.Errorf("record %d field %s: %w", n+1, f, ErrDelimiterInValue)
			}
			cols[i] = v
		}
		if _, err := fmt.Fprintln(bw, strings.Join(cols, delimiter)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
