package lookup

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/role-scout/internal/model"
)

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// ExtractURLs returns every http(s) URL in text, in order, with trailing
// quotes, commas, brackets, parentheses and spaces removed.
func ExtractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if u := strings.TrimRight(m, `",] )`); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// SplitName returns the first and last whitespace-delimited tokens of
// full. Middle tokens are dropped. Fewer than two tokens reports false.
func SplitName(full string) (first, last string, ok bool) {
	parts := strings.Fields(full)
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[0], parts[len(parts)-1], true
}

// ErrValidationParse is returned when the validation output is not a JSON
// object matching the contract.
var ErrValidationParse = eris.New("lookup: validation output is not valid JSON")

// ParseValidation decodes the validation agent's output. A surrounding
// markdown code fence is tolerated; any other text outside the object is
// rejected.
func ParseValidation(text string) (*model.Validation, error) {
	body := stripFence(strings.TrimSpace(text))
	if !strings.HasPrefix(body, "{") {
		return nil, ErrValidationParse
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	var v model.Validation
	if err := dec.Decode(&v); err != nil {
		return nil, eris.Wrap(ErrValidationParse, err.Error())
	}
	if dec.More() {
		return nil, ErrValidationParse
	}
	if v.ConfirmingURLs == nil {
		v.ConfirmingURLs = []string{}
	}
	return &v, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// Drop the language tag line, e.g. ```json.
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
