package fishing

import (
	"slices"
	"strings"
)

// Condition clause keywords with a meaning to the eligibility filter.
const (
	ClauseLocationSeason  = "LOCATION_SEASON"
	ClauseWeather         = "WEATHER"
	ClauseLegendaryFamily = "LEGENDARY_FAMILY"
	ClauseQiBeans         = "DROP_QI_BEANS"
	ClauseFestival        = "IS_PASSIVE_FESTIVAL_OPEN"
	ClauseScript          = "SCRIPT"
)

// Condition is a comma-separated list of free-form eligibility clauses such as
// "LOCATION_SEASON Here spring fall, WEATHER Here rain storm".
// Malformed conditions never fail; a missing clause is no constraint.
type Condition string

// Clause returns the first clause containing keyword as a substring.
func (c Condition) Clause(keyword string) (string, bool) {
	if c == "" {
		return "", false
	}
	for _, clause := range strings.Split(string(c), ",") {
		if strings.Contains(clause, keyword) {
			return strings.TrimSpace(clause), true
		}
	}
	return "", false
}

// Has reports whether any clause mentions keyword.
func (c Condition) Has(keyword string) bool {
	_, ok := c.Clause(keyword)
	return ok
}

// Tokens returns the lower-cased space-separated tokens that follow keyword in
// its clause.
func (c Condition) Tokens(keyword string) ([]string, bool) {
	clause, ok := c.Clause(keyword)
	if !ok {
		return nil, false
	}
	fields := strings.Fields(clause)
	for i, f := range fields {
		if strings.Contains(f, keyword) {
			fields = fields[i+1:]
			break
		}
	}
	tokens := make([]string, len(fields))
	for i, f := range fields {
		tokens[i] = strings.ToLower(f)
	}
	return tokens, true
}

// Allows reports whether the clause for keyword lists value, compared
// case-insensitively. A condition without such a clause allows everything.
func (c Condition) Allows(keyword, value string) bool {
	tokens, ok := c.Tokens(keyword)
	if !ok {
		return true
	}
	return slices.Contains(tokens, strings.ToLower(value))
}

// Script returns the hook name and arguments of a SCRIPT clause. The
// arguments keep their original case.
func (c Condition) Script() (hook string, args []string, ok bool) {
	clause, found := c.Clause(ClauseScript)
	if !found {
		return "", nil, false
	}
	fields := strings.Fields(clause)
	for i, f := range fields {
		if strings.Contains(f, ClauseScript) {
			fields = fields[i+1:]
			break
		}
	}
	if len(fields) == 0 {
		return "", nil, false
	}
	return fields[0], fields[1:], true
}
