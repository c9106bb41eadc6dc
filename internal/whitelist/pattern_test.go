package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildExpr(t *testing.T) {
	tests := []struct {
		rule string
		want string
	}{
		{rule: "example.com", want: `(?i)^example\.com$`},
		{rule: "*.example.com", want: `(?i)^.*\.example\.com$`},
		{rule: "10.*.*.*", want: `(?i)^10\..*\..*\..*$`},
		{rule: "a+b(c)[d]?", want: `(?i)^a\+b\(c\)\[d\]\?$`},
		{rule: "", want: `(?i)^$`},
		{rule: "*", want: `(?i)^.*$`},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildExpr(tt.rule))
			assert.Equal(t, tt.want, Compile(tt.rule).Expr())
		})
	}
}

func TestPattern_Match(t *testing.T) {
	tests := []struct {
		name string
		rule string
		host string
		want bool
	}{
		{name: "exact", rule: "example.com", host: "example.com", want: true},
		{name: "case insensitive", rule: "example.com", host: "EXAMPLE.com", want: true},
		{name: "exact rejects subdomain", rule: "example.com", host: "play.example.com", want: false},
		{name: "wildcard subdomain", rule: "*.example.com", host: "play.example.com", want: true},
		{name: "wildcard nested subdomain", rule: "*.example.com", host: "a.b.example.com", want: true},
		{name: "wildcard needs the dot", rule: "*.example.com", host: "example.com", want: false},
		{name: "anchored at end", rule: "*.example.com", host: "play.example.com.evil.io", want: false},
		{name: "anchored at start", rule: "example.com", host: "notexample.com", want: false},
		{name: "dot is literal", rule: "10.0.0.1", host: "10x0x0x1", want: false},
		{name: "ip exact", rule: "10.0.0.1", host: "10.0.0.1", want: true},
		{name: "ip wildcard", rule: "10.*.*.*", host: "10.5.200.3", want: true},
		{name: "ip wildcard anchored", rule: "10.*.*.1", host: "10.5.200.3.evil.com", want: false},
		{name: "wildcard is not octet aware", rule: "10.*.*.*", host: "10.5.200.3.evil.com", want: true},
		{name: "wildcard matches empty", rule: "play*.example.com", host: "play.example.com", want: true},
		{name: "metacharacters literal", rule: "a+b.com", host: "aab.com", want: false},
		{name: "metacharacters match themselves", rule: "a+b.com", host: "a+b.com", want: true},
		{name: "regex syntax is inert", rule: "(.*)", host: "anything", want: false},
		{name: "lone star matches anything", rule: "*", host: "whatever.io", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compile(tt.rule).Match(tt.host))
		})
	}
}

func TestCompile_IsTotal(t *testing.T) {
	rules := []string{"", "*", "**", "[", "\\", "(?i", "\xff\xfe", "a\nb", "${host}", "^$"}

	for _, rule := range rules {
		assert.NotPanics(t, func() {
			p := Compile(rule)
			assert.NotNil(t, p)
			p.Match("example.com")
		}, "rule %q", rule)
	}
}

func TestCompile_InvalidUTF8NeverMatches(t *testing.T) {
	p := Compile("\xff.example.com")

	assert.False(t, p.Valid())
	assert.False(t, p.Match("\xff.example.com"))
	assert.False(t, p.Match("example.com"))
	assert.Equal(t, "\xff.example.com", p.Raw())
}

func TestPattern_NilNeverMatches(t *testing.T) {
	var p *Pattern
	assert.False(t, p.Match("example.com"))
	assert.False(t, p.Valid())
}
