package interview

import (
	"fmt"
	"regexp"
	"strings"
)

// QuestionRecord is one generated interview question together with the
// model answer and the key points a good answer should cover. Records are
// immutable once parsed; slice order is interview order.
type QuestionRecord struct {
	Question     string
	SampleAnswer string
	KeyPoints    string
}

var questionMarker = regexp.MustCompile(`Q\d+:`)

const keyPointsLabel = "Key Points:"

// ParseQuestions parses the model's free-text generation response into an
// ordered list of question records.
//
// The text is split on every Q<n>: marker and anything before the first
// marker is discarded. A block needs at least three non-empty lines: the
// question, the sample answer (A<n>: prefix stripped, where n is the
// block's position among accepted blocks) and the key points. Blocks with
// fewer lines are dropped without error; that policy is deliberately
// different from unexpected failures, which abort the whole parse and
// discard all partial results.
func ParseQuestions(raw string) (records []QuestionRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			records = nil
			err = fmt.Errorf("parse questions: %v", r)
		}
	}()

	blocks := questionMarker.Split(raw, -1)
	if len(blocks) > 0 {
		// Preamble before the first Q<n>: marker.
		blocks = blocks[1:]
	}

	for _, block := range blocks {
		lines := nonEmptyLines(block)
		if len(lines) < 3 {
			continue
		}

		n := len(records) + 1
		answerPrefix := fmt.Sprintf("A%d:", n)

		records = append(records, QuestionRecord{
			Question:     lines[0],
			SampleAnswer: strings.TrimSpace(strings.TrimPrefix(lines[1], answerPrefix)),
			KeyPoints:    strings.TrimSpace(strings.TrimPrefix(lines[2], keyPointsLabel)),
		})
	}

	return records, nil
}

func nonEmptyLines(block string) []string {
	raw := strings.Split(strings.TrimSpace(block), "\n")

	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	return lines
}
