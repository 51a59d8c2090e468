package model

import "strings"

// LookupRequest is the (company, role) pair a single lookup resolves.
type LookupRequest struct {
	Company string `json:"company"`
	Role    string `json:"role"`
}

// Normalize trims surrounding whitespace while preserving case for display.
func (r LookupRequest) Normalize() LookupRequest {
	return LookupRequest{
		Company: strings.TrimSpace(r.Company),
		Role:    strings.TrimSpace(r.Role),
	}
}

// Key returns the case-insensitive identity of the request, used for cache
// keys and matching.
func (r LookupRequest) Key() string {
	n := r.Normalize()
	return strings.ToLower(n.Company) + ":" + strings.ToLower(n.Role)
}

// Valid reports whether both company and role are non-blank.
func (r LookupRequest) Valid() bool {
	n := r.Normalize()
	return n.Company != "" && n.Role != ""
}

// ErrorKind classifies a failed lookup.
type ErrorKind string

const (
	ErrorKindNone      ErrorKind = ""
	ErrorKindRateLimit ErrorKind = "rate_limit"
	ErrorKindAuth      ErrorKind = "credential"
	ErrorKindExecution ErrorKind = "execution"
	ErrorKindParse     ErrorKind = "parse"
	ErrorKindNoResult  ErrorKind = "no_result"
	ErrorKindInput     ErrorKind = "input"
)

// Error messages surfaced on failed lookups.
const (
	MsgRateLimit  = "LLM rate limit reached"
	MsgAuth       = "Invalid or missing API key"
	MsgExecution  = "System execution failure"
	MsgParse      = "Validation output parsing failed"
	MsgNoResult   = "No reliable result found"
	MsgBadRequest = "Both 'company' and 'role' are required."
)

// LookupResult is the terminal output of one lookup. It is either an error
// result (Error set) or a resolved result (FirstName and LastName set).
type LookupResult struct {
	FirstName         string    `json:"first_name,omitempty"`
	LastName          string    `json:"last_name,omitempty"`
	Company           string    `json:"company"`
	CurrentTitle      string    `json:"current_title"`
	PrimarySource     string    `json:"primary_source,omitempty"`
	ConfidenceScore   float64   `json:"confidence_score"`
	ValidationSources []string  `json:"validation_sources,omitempty"`
	Attempts          int       `json:"attempts"`
	Cache             bool      `json:"cache"`
	Error             string    `json:"error,omitempty"`
	Kind              ErrorKind `json:"-"`
}

// NewErrorResult builds a failure record echoing the request.
func NewErrorResult(kind ErrorKind, msg, company, role string, attempts int, confidence float64) LookupResult {
	return LookupResult{
		Error:           msg,
		Kind:            kind,
		Company:         company,
		CurrentTitle:    role,
		ConfidenceScore: confidence,
		Attempts:        attempts,
	}
}

// IsError reports whether r is a failure record.
func (r LookupResult) IsError() bool {
	return r.Error != ""
}

// IsResolved reports whether r carries a resolved first and last name.
func (r LookupResult) IsResolved() bool {
	return !r.IsError() && r.FirstName != "" && r.LastName != ""
}

// FullName joins the resolved name parts.
func (r LookupResult) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// BestSource returns the primary source, falling back to the first
// validation source.
func (r LookupResult) BestSource() string {
	if s := strings.TrimSpace(r.PrimarySource); s != "" {
		return s
	}
	for _, s := range r.ValidationSources {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
