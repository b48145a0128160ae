package navigation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Action tags understood by the default vocabulary.
const (
	TagShowProjects     = "show_projects"
	TagShowSkills       = "show_skills"
	TagShowResume       = "show_resume"
	TagShowCertificates = "show_certificates"
	TagShowContact      = "show_contact"
)

// Vocabulary maps an action tag to the section it opens.
type Vocabulary map[string]Section

// DefaultVocabulary returns the built-in tag set.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		TagShowProjects:     Projects,
		TagShowSkills:       Skills,
		TagShowResume:       Resume,
		TagShowCertificates: Certificates,
		TagShowContact:      Contact,
	}
}

// Lookup resolves tag, ignoring case and surrounding whitespace.
func (v Vocabulary) Lookup(tag string) (Section, bool) {
	section, ok := v[normalizeTag(tag)]
	return section, ok
}

// Tags returns the known tags sorted for stable output.
func (v Vocabulary) Tags() []string {
	tags := make([]string, 0, len(v))
	for tag := range v {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Validate checks that every tag targets a real section.
func (v Vocabulary) Validate() error {
	for tag, section := range v {
		if normalizeTag(tag) == "" {
			return fmt.Errorf("empty action tag")
		}
		if !section.Valid() {
			return fmt.Errorf("action %q targets unknown section %q", tag, section)
		}
	}
	return nil
}

// Clone returns a normalized copy.
func (v Vocabulary) Clone() Vocabulary {
	out := make(Vocabulary, len(v))
	for tag, section := range v {
		out[normalizeTag(tag)] = section
	}
	return out
}

var actionTagPattern = regexp.MustCompile(`\[\s*action\s*:\s*([A-Za-z0-9_\-]+)\s*\]`)

// FormatTag renders tag the way assistant replies embed it.
func FormatTag(tag string) string {
	return "[action:" + normalizeTag(tag) + "]"
}

// ExtractAction returns the first action tag embedded in text together with
// the text stripped of every tag.
func ExtractAction(text string) (string, string) {
	match := actionTagPattern.FindStringSubmatch(text)
	if match == nil {
		return "", strings.TrimSpace(text)
	}
	cleaned := actionTagPattern.ReplaceAllString(text, "")
	return normalizeTag(match[1]), strings.TrimSpace(collapseBlankLines(cleaned))
}

func collapseBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
