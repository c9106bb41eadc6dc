package whitelist

import (
	"regexp"
	"strings"
)

// Wildcard is the only special token in a rule. It matches zero or more of any
// character, dots included.
const Wildcard = "*"

// Pattern is a compiled hostname rule. The zero value never matches.
type Pattern struct {
	raw  string
	expr string
	re   *regexp.Regexp
}

// Compile turns an operator supplied rule into a Pattern. It never fails: if the
// built expression is rejected by the regexp engine the Pattern never matches.
func Compile(rule string) *Pattern {
	expr := BuildExpr(rule)
	re, err := regexp.Compile(expr)
	if err != nil {
		return &Pattern{raw: rule, expr: expr}
	}
	return &Pattern{raw: rule, expr: expr, re: re}
}

// BuildExpr escapes every literal segment of rule, joins the segments with ".*"
// and anchors the result case-insensitively.
func BuildExpr(rule string) string {
	segments := strings.Split(rule, Wildcard)
	for i, seg := range segments {
		segments[i] = regexp.QuoteMeta(seg)
	}
	return "(?i)^" + strings.Join(segments, ".*") + "$"
}

func (p *Pattern) Match(host string) bool {
	if p == nil || p.re == nil {
		return false
	}
	return p.re.MatchString(host)
}

func (p *Pattern) Raw() string {
	return p.raw
}

func (p *Pattern) Expr() string {
	return p.expr
}

// Valid reports whether the pattern compiled. Invalid patterns never match.
func (p *Pattern) Valid() bool {
	return p != nil && p.re != nil
}
