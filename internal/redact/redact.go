package redact

import (
	"regexp"
	"strings"
)

const placeholder = "[REDACTED]"

// rule is one kind of secret. When the pattern has a group named "secret",
// only that group is replaced so the surrounding name or URL stays readable.
type rule struct {
	name   string
	re     *regexp.Regexp
	secret int
}

func newRule(name, pattern string) rule {
	re := regexp.MustCompile(pattern)
	return rule{name: name, re: re, secret: re.SubexpIndex("secret")}
}

// Order matters: specific token formats run before the generic assignment
// rules so the reported kind is the precise one.
var rules = []rule{
	newRule("private-key", `-----BEGIN ([A-Z]+ )?PRIVATE KEY-----(?:(?s:.*?)-----END ([A-Z]+ )?PRIVATE KEY-----)?`),
	newRule("jupyter-token", `[?&]token=(?P<secret>[A-Za-z0-9]{16,})`),
	newRule("url-password", `(?i)\b[a-z][a-z0-9+.-]*://[^\s:/@]+:(?P<secret>[^\s@/]+)@`),
	newRule("aws-access-key", `AKIA[0-9A-Z]{16}`),
	newRule("aws-secret-key", `(?i)aws[_-]?secret[_-]?access[_-]?key\s*[:=]\s*["']?(?P<secret>[A-Za-z0-9/+=]{40})`),
	newRule("github-token", `gh[pousr]_[A-Za-z0-9_]{36,}`),
	newRule("huggingface-token", `hf_[A-Za-z0-9]{30,}`),
	newRule("slack-token", `xox[bporas]-[A-Za-z0-9-]{10,}`),
	newRule("anthropic-key", `sk-ant-[A-Za-z0-9_-]{20,}`),
	newRule("openai-key", `sk-(?:proj-)?[A-Za-z0-9_-]{20,}`),
	newRule("google-api-key", `AIza[0-9A-Za-z_-]{35}`),
	newRule("jwt", `eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	newRule("bearer", `(?i)\bBearer\s+(?P<secret>[A-Za-z0-9._~+/-]{20,}=*)`),
	newRule("api-key", `(?i)(api[_-]?key|apikey|api[_-]?secret)["']?\s*[:=]\s*["']?(?P<secret>[A-Za-z0-9/+=_-]{20,})`),
	newRule("quoted-secret", `(?i)(secret|token|password|passwd|pwd|credential)s?["']?\s*[:=]\s*["'](?P<secret>[^"'\s]{8,})["']`),
	newRule("hex-secret", `(?i)(key|secret|token)\s*[:=]\s*(?P<secret>[0-9a-f]{32,})`),
}

func (r rule) apply(text string) (string, int) {
	matches := r.re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, 0
	}
	var b strings.Builder
	last, n := 0, 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if r.secret > 0 && m[2*r.secret] >= 0 {
			start, end = m[2*r.secret], m[2*r.secret+1]
		}
		if text[start:end] == placeholder {
			continue
		}
		b.WriteString(text[last:start])
		b.WriteString(placeholder)
		last = end
		n++
	}
	if n == 0 {
		return text, 0
	}
	b.WriteString(text[last:])
	return b.String(), n
}

// Scrub replaces detected secrets in text with [REDACTED] and returns the
// kinds of secret it found, in rule order.
func Scrub(text string) (string, []string) {
	var found []string
	for _, r := range rules {
		var n int
		text, n = r.apply(text)
		if n > 0 {
			found = append(found, r.name)
		}
	}
	return text, found
}

// Secrets replaces detected secrets in text with [REDACTED].
func Secrets(text string) string {
	out, _ := Scrub(text)
	return out
}

// Texts applies Secrets to every fragment, returning a new slice.
func Texts(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = Secrets(t)
	}
	return out
}
