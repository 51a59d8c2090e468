// Package roles decides whether free text mentions a job title, tolerating
// abbreviations, compound titles and seniority variants.
package roles

import (
	"regexp"
	"strings"
)

// Config is the immutable alias and keyword table a Matcher is built from.
type Config struct {
	// Aliases maps a normalized title to equivalent spellings.
	Aliases map[string][]string `yaml:"aliases" mapstructure:"aliases"`
	// SeniorityKeywords trigger a match when present in both title and text.
	SeniorityKeywords []string `yaml:"seniority_keywords" mapstructure:"seniority_keywords"`
}

// DefaultConfig returns the C-level synonym table plus the founder,
// president and managing director variants.
func DefaultConfig() Config {
	return Config{
		Aliases: map[string][]string{
			"ceo":                       {"chief executive officer", "chief exec officer", "president and ceo"},
			"chief executive officer":   {"ceo"},
			"cto":                       {"chief technology officer", "chief technical officer"},
			"chief technology officer":  {"cto"},
			"cfo":                       {"chief financial officer"},
			"chief financial officer":   {"cfo"},
			"coo":                       {"chief operating officer"},
			"chief operating officer":   {"coo"},
			"cmo":                       {"chief marketing officer"},
			"chief marketing officer":   {"cmo"},
			"cio":                       {"chief information officer"},
			"chief information officer": {"cio"},
			"founder":                   {"co-founder", "cofounder"},
			"president":                 {"president and ceo"},
			"managing director":         {"md"},
		},
		SeniorityKeywords: []string{
			"chief", "head", "director", "manager", "lead", "owner",
			"founder", "co-founder", "president", "partner", "officer",
		},
	}
}

var (
	separators  = regexp.MustCompile(`[&|,]`)
	whitespace  = regexp.MustCompile(`\s+`)
	compoundSep = regexp.MustCompile(`\s+and\s+|\s*&\s*|,|/`)
	wordSplit   = regexp.MustCompile(`[^a-z0-9-]+`)
)

// Normalize lowercases s, turns &, | and , into spaces and collapses
// whitespace.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = separators.ReplaceAllString(s, " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// Matcher implements title matching over a fixed Config.
type Matcher struct {
	aliases   map[string][]string
	seniority []string
}

// NewMatcher copies cfg into a Matcher, normalizing every entry.
func NewMatcher(cfg Config) *Matcher {
	m := &Matcher{aliases: make(map[string][]string, len(cfg.Aliases))}
	for k, vs := range cfg.Aliases {
		key := Normalize(k)
		for _, v := range vs {
			if v = Normalize(v); v != "" {
				m.aliases[key] = append(m.aliases[key], v)
			}
		}
	}
	for _, kw := range cfg.SeniorityKeywords {
		if kw = Normalize(kw); kw != "" {
			m.seniority = append(m.seniority, kw)
		}
	}
	return m
}

// TitleMatches reports whether text mentions designation. It tries, in
// order: a direct substring match, each part of a compound title, alias
// expansion of the whole title and of each word, and finally a seniority
// keyword shared by both.
func (m *Matcher) TitleMatches(designation, text string) bool {
	d := Normalize(designation)
	t := Normalize(text)
	if d == "" || t == "" {
		return false
	}

	if strings.Contains(t, d) {
		return true
	}

	parts := m.parts(designation)
	for _, p := range parts {
		if strings.Contains(t, p) {
			return true
		}
	}

	for _, exp := range m.expansions(d, parts) {
		if strings.Contains(t, exp) {
			return true
		}
	}

	dWords := words(d)
	tWords := words(t)
	for _, kw := range m.seniority {
		if dWords[kw] && tWords[kw] {
			return true
		}
	}
	return false
}

func (m *Matcher) parts(designation string) []string {
	var out []string
	for _, p := range compoundSep.Split(strings.ToLower(designation), -1) {
		if p = Normalize(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (m *Matcher) expansions(d string, parts []string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(key string) {
		for _, a := range m.aliases[key] {
			if !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}

	add(d)
	for _, p := range parts {
		add(p)
		for _, w := range strings.Fields(p) {
			add(w)
		}
	}
	return out
}

func words(s string) map[string]bool {
	out := map[string]bool{}
	for _, w := range wordSplit.Split(s, -1) {
		if w != "" {
			out[w] = true
		}
	}
	return out
}
