// internal/app/assistant/extract/extract.go

// Package extract pulls a referenced campaign name out of free text.
package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rule names of the default set.
const (
	RuleCampaignMarker = "campaign-marker"
	RuleJoinMarker     = "join-marker"
)

// Match is an extracted campaign name and the rule that produced it.
type Match struct {
	Name string
	Rule string
}

// Extractor returns the campaign referenced by text, if any.
type Extractor interface {
	Extract(text string) (Match, bool)
}

// Rule is one named extraction pattern. Group is the index of the capture
// group that holds the name.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Group   int
}

// RuleSet applies its rules in order; the first rule producing a usable
// name wins.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet returns a RuleSet over rules in the given order.
func NewRuleSet(rules ...Rule) *RuleSet {
	return &RuleSet{rules: rules}
}

// nameEnd terminates a captured name at a question phrase, punctuation or
// the end of text.
const nameEnd = `(?:\s+(?:có|gồm|với|được|là|ở đâu|ở|khi nào|bao giờ|bao nhiêu|thế nào|như thế nào|diễn ra|bắt đầu|kết thúc)(?:[\s?.!,]|$)|\s*[?.!,]|\s*$)`

// Default returns the standard campaign-name rules:
//
//  1. "chiến dịch <name>".
//  2. "tham gia|đăng ký [cho tôi] [vào] [chiến dịch] <name>".
//
// Both end the name at a question phrase, punctuation, or the end.
func Default() *RuleSet {
	return NewRuleSet(
		Rule{
			Name:    RuleCampaignMarker,
			Pattern: regexp.MustCompile(`(?i)chiến dịch\s+(.+?)` + nameEnd),
			Group:   1,
		},
		Rule{
			Name:    RuleJoinMarker,
			Pattern: regexp.MustCompile(`(?i)(?:tham gia|đăng ký|đăng kí)\s+(?:cho\s+(?:tôi|mình|em)\s+)?(?:vào\s+)?(?:chiến dịch\s+)?(.+?)` + nameEnd),
			Group:   1,
		},
	)
}

// notNameStart holds words that cannot open a campaign name: pointers back
// to an earlier campaign ("chiến dịch này") and question or function words
// ("tham gia ở đâu").
var notNameStart = map[string]bool{
	"này": true, "đó": true, "ấy": true, "kia": true, "nó": true, "đấy": true,
	"ở": true, "vào": true, "khi": true, "lúc": true, "bao": true, "mấy": true,
	"thế": true, "như": true, "sao": true, "gì": true, "nào": true, "đâu": true,
	"không": true, "được": true, "thì": true, "là": true, "có": true,
	"với": true, "cùng": true, "nhé": true, "nha": true, "ạ": true,
}

// Extract applies the rules to text. The returned name is title-cased for
// display; compare names case-insensitively.
func (rs *RuleSet) Extract(text string) (Match, bool) {
	text = strings.ReplaceAll(text, "\n", " ")
	for _, r := range rs.rules {
		m := r.Pattern.FindStringSubmatch(text)
		if m == nil || r.Group >= len(m) {
			continue
		}
		name := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(m[r.Group]), "?.!,"))
		if !usableName(name) {
			continue
		}
		return Match{Name: titleCase(name), Rule: r.Name}, true
	}
	return Match{}, false
}

// CampaignName is Extract without the rule name.
func (rs *RuleSet) CampaignName(text string) (string, bool) {
	m, ok := rs.Extract(text)
	return m.Name, ok
}

func usableName(name string) bool {
	words := strings.Fields(strings.ToLower(name))
	return len(words) > 0 && !notNameStart[words[0]]
}

// titleCase builds a fresh Caser per call; a Caser is not safe for
// concurrent use.
func titleCase(s string) string {
	return cases.Title(language.Vietnamese).String(s)
}
