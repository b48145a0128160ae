// Package navigation models the portfolio display sections and the action
// tags that move the view between them.
package navigation

import (
	"fmt"
	"strings"
)

// Section 表示作品集视图当前展示的区块。
type Section string

const (
	Welcome      Section = "welcome"
	Projects     Section = "projects"
	Skills       Section = "skills"
	Resume       Section = "resume"
	Certificates Section = "certificates"
	Contact      Section = "contact"
)

var allSections = []Section{Welcome, Projects, Skills, Resume, Certificates, Contact}

// Sections returns every section in display order.
func Sections() []Section {
	return append([]Section(nil), allSections...)
}

// Valid reports whether s is one of the known sections.
func (s Section) Valid() bool {
	for _, known := range allSections {
		if s == known {
			return true
		}
	}
	return false
}

func (s Section) String() string {
	return string(s)
}

// ParseSection normalizes raw and validates it.
func ParseSection(raw string) (Section, error) {
	s := Section(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown section %q", raw)
	}
	return s, nil
}
