package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/podium-optique/podium/internal/common"
	"github.com/podium-optique/podium/internal/model"
)

// CSVResult summarizes one CSV import pass.
type CSVResult struct {
	Items   []model.CatalogItem
	Skipped int
}

// ReadCSVFile parses a supplier CSV export. The field separator is
// sniffed from the header line; supplier exports use either commas or
// semicolons.
func ReadCSVFile(path string, progress func(done int)) (*CSVResult, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadCSV(f, progress)
}

// ReadCSV parses catalog rows from a reader. Rows that cannot be parsed
// are skipped and counted, never fatal; a catalog import should survive
// the odd malformed line.
func ReadCSV(r io.Reader, progress func(done int)) (*CSVResult, error) {
	buffered := bufio.NewReader(r)

	separator, err := sniffSeparator(buffered)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(buffered)
	reader.Comma = separator
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols, err := MapHeader(header)
	if err != nil {
		return nil, err
	}

	result := &CSVResult{}
	line := 1
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		line++
		if readErr != nil {
			common.LogError(readErr, "Skipping malformed catalog row", common.Fields{"line": line})
			result.Skipped++
			continue
		}
		if isEmptyRecord(record) {
			continue
		}

		item, parseErr := ParseRecord(cols, record)
		if parseErr != nil {
			common.LogError(parseErr, "Skipping invalid catalog row", common.Fields{"line": line})
			result.Skipped++
			continue
		}

		result.Items = append(result.Items, item)
		if progress != nil {
			progress(len(result.Items))
		}
	}

	if len(result.Items) == 0 {
		return nil, fmt.Errorf("no catalog rows found")
	}

	common.LogInfo("Parsed catalog file", common.Fields{
		"items":   len(result.Items),
		"skipped": result.Skipped,
	})
	return result, nil
}

// sniffSeparator inspects the header line without consuming it.
func sniffSeparator(r *bufio.Reader) (rune, error) {
	peek, err := r.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return 0, fmt.Errorf("failed to inspect catalog file: %w", err)
	}
	if len(peek) == 0 {
		return 0, fmt.Errorf("catalog file is empty")
	}

	firstLine := string(peek)
	if i := strings.IndexByte(firstLine, '\n'); i >= 0 {
		firstLine = firstLine[:i]
	}

	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		return ';', nil
	}
	return ',', nil
}

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
