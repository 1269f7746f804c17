// Package jobstatus reshapes the remote search service's
// semi-structured status payloads into flat records.
package jobstatus

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ParseError reports a malformed status payload. It is fatal to the
// expansion call that produced it and nothing else.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse status payload %q: %s", e.Input, e.Reason)
}

// Statistic is one flattened entry of the search-statistics document,
// either a per-location search summary or a per-query detail row.
// JSON field names follow the remote service's casing.
type Statistic struct {
	Name     string `json:"Name,omitempty"`
	Location string `json:"Location,omitempty"`
	Count    int64  `json:"Count"`
	Size     int64  `json:"Size"`
	Query    string `json:"Query,omitempty"`
}

// statisticList tolerates the service delivering either a JSON array
// or a bare object where a list is expected.
type statisticList []Statistic

func (l *statisticList) UnmarshalJSON(data []byte) error {
	var many []Statistic
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}
	var one Statistic
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = statisticList{one}
	return nil
}

type exchangeBinding struct {
	Search  statisticList `json:"Search"`
	Queries statisticList `json:"Queries"`
}

type statisticsDocument struct {
	ExchangeBinding exchangeBinding `json:"ExchangeBinding"`
}

// ExpandStatistics flattens a search-statistics JSON document into a
// single sequence: the per-location search summaries followed by the
// per-query detail rows, in document order.
func ExpandStatistics(raw string) ([]Statistic, error) {
	var doc statisticsDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &ParseError{Input: truncateInput(raw), Reason: err.Error()}
	}
	out := make([]Statistic, 0, len(doc.ExchangeBinding.Search)+len(doc.ExchangeBinding.Queries))
	out = append(out, doc.ExchangeBinding.Search...)
	out = append(out, doc.ExchangeBinding.Queries...)
	return out, nil
}

const (
	pairSeparator  = "; "
	valueSeparator = ": "
)

// ExpandActionResults splits a "Name: Value; Name: Value" success
// blob into one flat record. Field names are title-cased with internal
// whitespace stripped, so "Item Count" becomes "ItemCount". A segment
// without the name/value separator fails the whole call.
func ExpandActionResults(raw string) (map[string]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return map[string]string{}, nil
	}
	record := make(map[string]string)
	for _, segment := range strings.Split(trimmed, pairSeparator) {
		name, value, ok := strings.Cut(segment, valueSeparator)
		if !ok {
			return nil, &ParseError{
				Input:  segment,
				Reason: fmt.Sprintf("missing %q separator", valueSeparator),
			}
		}
		record[fieldName(name)] = value
	}
	return record, nil
}

func fieldName(name string) string {
	// Casers are stateful; build one per call so expansion stays safe
	// for concurrent use.
	caser := cases.Title(language.English)
	return strings.ReplaceAll(caser.String(strings.TrimSpace(name)), " ", "")
}

const maxParseErrorInput = 120

func truncateInput(s string) string {
	if len(s) <= maxParseErrorInput {
		return s
	}
	return s[:maxParseErrorInput] + "…"
}
