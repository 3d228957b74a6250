package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestionsTwoBlocks(t *testing.T) {
	raw := "Q1:\nWhat is X?\nSample.\nKey Points: A, B\n\nQ2:\nWhat is Y?\nSample2.\nKey Points: C"

	records, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "What is X?", records[0].Question)
	assert.Equal(t, "Sample.", records[0].SampleAnswer)
	assert.Equal(t, "A, B", records[0].KeyPoints)

	assert.Equal(t, "What is Y?", records[1].Question)
	assert.Equal(t, "Sample2.", records[1].SampleAnswer)
	assert.Equal(t, "C", records[1].KeyPoints)
}

func TestParseQuestionsStripsAnswerPrefix(t *testing.T) {
	raw := "Q1:\nTell me about yourself.\nA1: I am a Go developer.\nKey Points: background, motivation"

	records, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "I am a Go developer.", records[0].SampleAnswer)
	assert.Equal(t, "background, motivation", records[0].KeyPoints)
}

func TestParseQuestionsDropsShortBlocks(t *testing.T) {
	// A 10-block response with one malformed block yields 9 records.
	raw := ""
	for i := 1; i <= 10; i++ {
		if i == 5 {
			raw += "Q5:\nMalformed question\nA5: only two lines\n\n"
			continue
		}
		raw += "Q0:\nQuestion?\nAnswer.\nKey Points: k\n\n"
	}

	records, err := ParseQuestions(raw)
	require.NoError(t, err)
	assert.Len(t, records, 9)
}

func TestParseQuestionsAnswerPrefixUsesAcceptedPosition(t *testing.T) {
	// Block Q3 becomes the second accepted record after Q2 is dropped, so
	// its A3: prefix does not match the accepted position and survives.
	raw := "Q1:\nFirst?\nA1: first answer\nKey Points: a\n" +
		"Q2:\ndropped\n" +
		"Q3:\nThird?\nA3: third answer\nKey Points: c\n"

	records, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "first answer", records[0].SampleAnswer)
	assert.Equal(t, "A3: third answer", records[1].SampleAnswer)
}

func TestParseQuestionsDiscardsPreamble(t *testing.T) {
	raw := "Here are your tailored questions.\n\nQ1:\nWhat is Go?\nA language.\nKey Points: typed, compiled"

	records, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "What is Go?", records[0].Question)
}

func TestParseQuestionsIgnoresExtraLines(t *testing.T) {
	raw := "Q1:\nQuestion?\nAnswer.\nKey Points: k\nThis trailing line is ignored.\nAnd this one."

	records, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "k", records[0].KeyPoints)
}

func TestParseQuestionsNoMarkers(t *testing.T) {
	records, err := ParseQuestions("The model refused to answer in the requested format.")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseQuestionsNoCountCap(t *testing.T) {
	raw := ""
	for i := 1; i <= 12; i++ {
		raw += "Q1:\nQuestion?\nAnswer.\nKey Points: k\n"
	}

	records, err := ParseQuestions(raw)
	require.NoError(t, err)
	assert.Len(t, records, 12)
}
