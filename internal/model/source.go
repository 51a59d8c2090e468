package model

// Category is the credibility class of a source URL.
type Category string

const (
	CategoryOfficial  Category = "official"
	CategoryWikipedia Category = "wikipedia"
	CategoryNews      Category = "news"
	CategoryLinkedIn  Category = "linkedin"
	CategoryOther     Category = "other"
)

// ScoredSource is a classified URL used while computing confidence.
type ScoredSource struct {
	URL        string   `json:"url"`
	RootDomain string   `json:"root_domain,omitempty"`
	Category   Category `json:"category"`
}

// Validation is the strict JSON contract emitted by the validation
// collaborator.
type Validation struct {
	Validated      bool     `json:"validated"`
	FullName       string   `json:"full_name"`
	ConfirmingURLs []string `json:"confirming_urls"`
	Reasoning      string   `json:"reasoning"`
}

// LookupState names a step of the lookup state machine.
type LookupState string

const (
	StatePending     LookupState = "pending"
	StateResearching LookupState = "researching"
	StateValidating  LookupState = "validating"
	StateResolved    LookupState = "resolved"
	StateCached      LookupState = "resolved_from_cache"
	StateExhausted   LookupState = "exhausted"
	StateFailed      LookupState = "failed"
)

// RoundState holds everything observed during one research+validation round.
// It is discarded once the orchestrator decides to continue or stop.
type RoundState struct {
	Attempt        int
	ResearchText   string
	ValidationText string
	ParsedName     string
	FirstName      string
	LastName       string
	PrimarySource  string
	URLs           []string
	TitleMatch     bool
	CompanyMatch   bool
	Confidence     float64
	Validated      bool
}

// Candidate converts the round into the result it would produce if accepted.
func (s RoundState) Candidate(company, role string) LookupResult {
	return LookupResult{
		FirstName:         s.FirstName,
		LastName:          s.LastName,
		Company:           company,
		CurrentTitle:      role,
		PrimarySource:     s.PrimarySource,
		ConfidenceScore:   s.Confidence,
		ValidationSources: s.URLs,
		Attempts:          s.Attempt + 1,
	}
}
