package problemgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Problem is a parsed model response.
type Problem struct {
	Text   string
	Answer float64
}

var (
	leadingFence  = regexp.MustCompile("^```[A-Za-z0-9_-]*[ \t]*\n?")
	trailingFence = regexp.MustCompile("\n?```\\s*$")

	// nonFiniteAnswer spots answers JSON cannot represent, e.g. NaN or Infinity.
	nonFiniteAnswer = regexp.MustCompile(`(?i)"answer"\s*:\s*[-+]?(NaN|Infinity|Inf)\b`)
)

const problemSchemaURL = "schema://problem.json"

var problemSchemaDoc = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"problem": map[string]any{
			"type":    "string",
			"pattern": `\S`,
		},
		"answer": map[string]any{
			"type": "number",
		},
	},
	"required": []any{"problem", "answer"},
}

var problemSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(problemSchemaURL, problemSchemaDoc); err != nil {
		panic(fmt.Sprintf("problemgen: add schema: %v", err))
	}
	s, err := c.Compile(problemSchemaURL)
	if err != nil {
		panic(fmt.Sprintf("problemgen: compile schema: %v", err))
	}
	return s
}

// ParseProblem extracts the problem text and numeric answer from a model
// response. Code fences and surrounding prose are tolerated; anything else
// is rejected with a *ParseError.
func ParseProblem(raw string) (Problem, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = leadingFence.ReplaceAllString(cleaned, "")
		cleaned = trailingFence.ReplaceAllString(cleaned, "")
	}

	start := strings.IndexByte(cleaned, '{')
	end := strings.LastIndexByte(cleaned, '}')
	if start < 0 || end < start {
		return Problem{}, parseErr(KindNoJSONFound, raw, nil)
	}
	span := cleaned[start : end+1]

	doc, err := decodeJSON(span)
	if err != nil {
		if nonFiniteAnswer.MatchString(span) {
			return Problem{}, parseErr(KindInvalidAnswerValue, raw, err)
		}
		return Problem{}, parseErr(KindMalformedJSON, raw, err)
	}

	if err := problemSchema.Validate(doc); err != nil {
		return Problem{}, parseErr(KindInvalidShape, raw, err)
	}

	// Validation guarantees the object and field types.
	obj := doc.(map[string]any)
	text := obj["problem"].(string)

	answer, err := toFloat(obj["answer"])
	if err != nil {
		return Problem{}, parseErr(KindInvalidAnswerValue, raw, err)
	}

	return Problem{Text: strings.TrimSpace(text), Answer: answer}, nil
}

// decodeJSON decodes exactly one JSON value, keeping numbers as json.Number
// so the schema and range checks see the literal the model wrote.
func decodeJSON(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return doc, nil
}

func toFloat(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		var err error
		f, err = strconv.ParseFloat(n.String(), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, err
		}
	case float64:
		f = n
	default:
		return 0, fmt.Errorf("answer has type %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("answer %v out of range", v)
	}
	return f, nil
}
