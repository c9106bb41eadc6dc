package whitelist

import "strings"

type Rule struct {
	Raw     string
	Pattern *Pattern
}

// RuleSet is an immutable, ordered list of compiled rules. A new generation is
// built on every reload and published through Store.
type RuleSet struct {
	generation uint64
	rules      []Rule
}

func NewRuleSet(generation uint64, raws []string) *RuleSet {
	rules := make([]Rule, 0, len(raws))
	for _, raw := range raws {
		rules = append(rules, Rule{Raw: raw, Pattern: Compile(raw)})
	}
	return &RuleSet{generation: generation, rules: rules}
}

// NormalizeHostname strips everything from the first colon, which drops a port
// suffix. An IPv6 literal therefore normalizes to "[" or "" and is denied.
func NormalizeHostname(hostname string) string {
	if i := strings.IndexByte(hostname, ':'); i >= 0 {
		return hostname[:i]
	}
	return hostname
}

// Decide reports whether hostname is admitted. Empty input, an empty host part
// and a nil set all deny.
func (s *RuleSet) Decide(hostname string) bool {
	_, ok := s.Match(hostname)
	return ok
}

// Match returns the first rule accepting hostname.
func (s *RuleSet) Match(hostname string) (Rule, bool) {
	if s == nil || hostname == "" {
		return Rule{}, false
	}
	host := NormalizeHostname(hostname)
	if host == "" {
		return Rule{}, false
	}
	for _, rule := range s.rules {
		if rule.Pattern.Match(host) {
			return rule, true
		}
	}
	return Rule{}, false
}

func (s *RuleSet) Generation() uint64 {
	if s == nil {
		return 0
	}
	return s.generation
}

func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Patterns returns the raw rules in load order.
func (s *RuleSet) Patterns() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.rules))
	for i, rule := range s.rules {
		out[i] = rule.Raw
	}
	return out
}
