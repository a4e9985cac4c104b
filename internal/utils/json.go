// Package utils holds small helpers shared by the external-collaborator
// boundary: JSON repair for the entity extractor's response (spec.md
// §4.B, §6) and a short text helper for display truncation.
package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	// {'key': -> {"key": , bare keys quoted with single quotes.
	singleQuoteKeyRegex = regexp.MustCompile(`([{,]\s*)'(\w+)'(\s*:)`)

	// {key: -> {"key": , a bare identifier used as an object key.
	unquotedKeyRegex = regexp.MustCompile(`([{,]\s*)([a-zA-Z_]\w*)(\s*:)`)

	// : 'value' -> : "value", handling an escaped single quote inside.
	singleQuoteValueRegex = regexp.MustCompile(`(:\s*)'((?:[^'\\]|\\.)*)'(\s*[,}\]])`)

	// ,} or ,] -> } or ], a trailing comma before the closing bracket.
	trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSONArray pulls the JSON value out of an entity extractor
// response - stripping a markdown code fence and ignoring any trailing
// prose the model added after it - and unmarshals it into T. The
// extractor's contract (spec.md §6) is a strict JSON array of
// `{name, type}` objects, so the repair pass only targets the handful of
// malformed shapes LLMs reliably produce for that narrow output: unquoted
// or single-quoted keys, single-quoted string values, and trailing
// commas. This is not a general JSON repair tool.
func ExtractJSONArray[T any](response string) (T, error) {
	var result T

	cleaned := stripCodeFence(response)
	if cleaned == "" {
		return result, fmt.Errorf("utils: empty extractor response")
	}

	start := strings.IndexAny(cleaned, "[{")
	if start == -1 {
		return result, fmt.Errorf("utils: no JSON array or object found in extractor response")
	}
	body := cleaned[start:]

	if err := json.NewDecoder(strings.NewReader(body)).Decode(&result); err == nil {
		return result, nil
	}

	repaired := repairEntityJSON(body)
	if err := json.NewDecoder(strings.NewReader(repaired)).Decode(&result); err != nil {
		return result, fmt.Errorf("utils: parsing extractor JSON: %w", err)
	}
	return result, nil
}

// repairEntityJSON fixes the malformed-JSON shapes described on
// ExtractJSONArray, in an order where quoting a bare key can reveal a
// single-quoted value to the next pass.
func repairEntityJSON(input string) string {
	result := singleQuoteKeyRegex.ReplaceAllString(input, `$1"$2"$3`)
	result = unquotedKeyRegex.ReplaceAllString(result, `$1"$2"$3`)
	result = singleQuoteValueRegex.ReplaceAllStringFunc(result, unquoteSingleQuotedValue)
	result = trailingCommaRegex.ReplaceAllString(result, `$1`)
	return result
}

func unquoteSingleQuotedValue(match string) string {
	parts := singleQuoteValueRegex.FindStringSubmatch(match)
	if len(parts) != 4 {
		return match
	}
	value := strings.ReplaceAll(parts[2], `\'`, `'`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	return parts[1] + `"` + value + `"` + parts[3]
}

// stripCodeFence removes a leading/trailing markdown code fence
// (```json ... ``` or ``` ... ```), the shape chat-style LLM responses
// reliably wrap JSON in.
func stripCodeFence(response string) string {
	response = strings.TrimSpace(response)
	switch {
	case strings.HasPrefix(response, "```json"):
		response = strings.TrimPrefix(response, "```json")
	case strings.HasPrefix(response, "```"):
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}
