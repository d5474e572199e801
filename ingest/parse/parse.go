// Package parse extracts candidate question/answer chunks from an uploaded
// document before classification stages them into a draft. Each supported
// format has its own extractor; Detect picks one from a filename's
// extension.
package parse

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Chunk is one extracted, unclassified question/answer candidate.
type Chunk struct {
	Question string
	Answer   string
}

// Format identifies which extractor to run.
type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatPlain Format = "text"
)

// Detect picks a Format from a filename's extension, defaulting to plain
// text for anything unrecognized.
func Detect(filename string) Format {
	switch {
	case strings.HasSuffix(filename, ".json"):
		return FormatJSON
	case strings.HasSuffix(filename, ".csv"):
		return FormatCSV
	default:
		return FormatPlain
	}
}

// Parse dispatches to the extractor for format and returns the chunks it
// found.
func Parse(format Format, r io.Reader) ([]Chunk, error) {
	switch format {
	case FormatJSON:
		return parseJSON(r)
	case FormatCSV:
		return parseCSV(r)
	case FormatPlain:
		return parsePlain(r)
	default:
		return nil, fmt.Errorf("parse: unsupported format %q", format)
	}
}

type jsonRecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func parseJSON(r io.Reader) ([]Chunk, error) {
	var records []jsonRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("parse: decode json: %w", err)
	}
	chunks := make([]Chunk, 0, len(records))
	for _, rec := range records {
		chunks = append(chunks, Chunk{Question: strings.TrimSpace(rec.Question), Answer: strings.TrimSpace(rec.Answer)})
	}
	return chunks, nil
}

func parseCSV(r io.Reader) ([]Chunk, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse: read csv header: %w", err)
	}

	qCol, aCol := columnIndex(header, "question"), columnIndex(header, "answer")
	if qCol < 0 || aCol < 0 {
		return nil, fmt.Errorf("parse: csv must have question and answer columns, got %v", header)
	}

	var chunks []Chunk
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse: read csv row: %w", err)
		}
		if qCol >= len(row) || aCol >= len(row) {
			continue
		}
		chunks = append(chunks, Chunk{Question: strings.TrimSpace(row[qCol]), Answer: strings.TrimSpace(row[aCol])})
	}
	return chunks, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// parsePlain splits on blank lines into blocks, then each block's first
// "Q:"/"A:" prefixed lines (case-insensitive) into a chunk. A block missing
// either prefix is skipped rather than guessed at.
func parsePlain(r io.Reader) ([]Chunk, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("parse: read text: %w", err)
	}

	var chunks []Chunk
	for _, block := range strings.Split(string(raw), "\n\n") {
		var question, answer string
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case hasFoldPrefix(line, "q:") && question == "":
				question = strings.TrimSpace(line[2:])
			case hasFoldPrefix(line, "a:") && answer == "":
				answer = strings.TrimSpace(line[2:])
			}
		}
		if question != "" && answer != "" {
			chunks = append(chunks, Chunk{Question: question, Answer: answer})
		}
	}
	return chunks, nil
}

func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
