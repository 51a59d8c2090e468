package lookup

import (
	"fmt"
	"strings"
)

// QueryVariations returns the three search queries the research agent is
// told to try in order.
func QueryVariations(company, role string) []string {
	return []string{
		fmt.Sprintf("%s of %s full name official website", role, company),
		fmt.Sprintf("%s %s LinkedIn profile", company, role),
		fmt.Sprintf("%s current %s news announcement", company, role),
	}
}

// ResearchInstruction builds the research prompt for a round. Later rounds
// narrow the acceptable sources.
func ResearchInstruction(attempt int, company, role string, queries []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Find the full name of the current %s of %s. ", role, company)

	switch attempt {
	case 0:
		b.WriteString("Use web search if necessary and focus on authoritative sources " +
			"such as the company's official website, LinkedIn, or reputable news outlets. " +
			"Return only the person's full name and one best source URL.")
	case 1:
		b.WriteString("Prioritize the company's official website, Wikipedia, or major business news outlets. " +
			"Avoid unofficial blogs or speculative content. " +
			"Return only the most reliable source.")
	default:
		b.WriteString("Strictly verify using official company domain or Wikipedia. " +
			"If confidence is low, indicate uncertainty.")
	}

	b.WriteString("\n\nTry the following search queries one by one:\n")
	for i, q := range queries {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return b.String()
}

// ValidationInstruction asks the validation agent to confirm the research
// findings and answer with strict JSON.
func ValidationInstruction(company, role, research string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Validate the discovered name for the %s of %s. ", role, company)
	b.WriteString("Search again using the name, company, and role. " +
		"Confirm the name appears in at least 2 credible sources.\n\n")

	if r := strings.TrimSpace(research); r != "" {
		b.WriteString("Research findings:\n")
		b.WriteString(r)
		b.WriteString("\n\n")
	}

	b.WriteString("Return STRICT JSON in the following format:\n" +
		"{\n" +
		"  \"validated\": true or false,\n" +
		"  \"full_name\": \"Exact confirmed full name\",\n" +
		"  \"confirming_urls\": [\"url1\", \"url2\"],\n" +
		"  \"reasoning\": \"Short explanation\"\n" +
		"}\n\n" +
		"Do not include any text outside the JSON.")
	return b.String()
}

// validationQueries seed search context for the validation agent.
func validationQueries(company, role string) []string {
	return []string{
		fmt.Sprintf("%s %s", company, role),
		fmt.Sprintf("%s leadership team", company),
	}
}
