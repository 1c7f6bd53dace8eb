package sessionparse

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"ccboard/internal/corpuserr"
	"ccboard/internal/logging"
)

// ParseFullContent streams path and returns every decodable record in
// file order, for the detail-view operation (spec §4.5/§4.9
// session_content). Unlike ParseSessionFile it keeps the full decoded
// record rather than folding it into aggregate metadata; a malformed or
// oversized line is skipped exactly as in ParseSessionFile, never
// aborting the read.
func ParseFullContent(path string, maxLineBytes int64) ([]map[string]interface{}, error) {
	log := logging.Get(logging.CategoryParser)
	if maxLineBytes <= 0 {
		maxLineBytes = defaultMaxLineBytes
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, corpuserr.New(corpuserr.Io, path, err)
	}
	defer f.Close()

	reader := bufio.NewReaderSize(f, 64*1024)
	var records []map[string]interface{}

	for {
		line, readErr := readLine(reader, maxLineBytes, log, path)
		if line == nil && readErr == io.EOF {
			break
		}
		if readErr != nil && readErr != errLineTooLong {
			return nil, corpuserr.New(corpuserr.Io, path, readErr)
		}
		if readErr == errLineTooLong || len(line) == 0 {
			continue
		}

		var rec map[string]interface{}
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}
