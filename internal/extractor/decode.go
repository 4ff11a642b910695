package extractor

import (
	"bufio"
	"bytes"
	"io"
)

// Decode reads extractor output, one JSON object per line.
//
// Reading stops at the first empty line, the first line that fails to
// decode, or the end of the stream. None of these is an error: everything
// decoded up to that point is returned.
func Decode(r io.Reader) []*Record {
	br := bufio.NewReader(r)

	var records []*Record
	for {
		line, readErr := br.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			break
		}

		rec, err := ParseRecord(line)
		if err != nil {
			break
		}
		records = append(records, rec)

		if readErr != nil {
			break
		}
	}

	return records
}
