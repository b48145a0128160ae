package ai

import (
	"fmt"
	"strings"

	"github.com/somaarjun/portfolio/backend/internal/assistant"
	"github.com/somaarjun/portfolio/backend/internal/model/portfolio"
	"github.com/somaarjun/portfolio/backend/internal/navigation"
)

// BuildSystemPrompt renders the profile sections around a knowledge base
// generated from doc and the navigation instructions for the vocabulary.
func BuildSystemPrompt(profile *assistant.Profile, doc portfolio.Document) string {
	var b strings.Builder
	p := profile.Prompt

	b.WriteString(strings.TrimSpace(p.Intro))

	writeList(&b, "PERSONALITY & TONE", p.Personality)
	writeList(&b, "CAPABILITIES", p.Capabilities)

	owner := strings.TrimSpace(profile.Owner)
	if owner == "" {
		owner = doc.Name
	}
	writeList(&b, fmt.Sprintf("KNOWLEDGE BASE (%s)", owner), append(knowledgeFromDocument(doc), p.Knowledge...))

	writeList(&b, "GUIDELINES", p.Guidelines)
	writeActions(&b, profile.Vocabulary())

	if closing := strings.TrimSpace(p.Closing); closing != "" {
		b.WriteString("\n\n")
		b.WriteString(closing)
	}
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n\n")
	b.WriteString(title)
	b.WriteString(":")
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		b.WriteString("\n- ")
		b.WriteString(item)
	}
}

func writeActions(b *strings.Builder, vocab navigation.Vocabulary) {
	tags := vocab.Tags()
	if len(tags) == 0 {
		return
	}
	b.WriteString("\n\nNAVIGATION:\nWhen the visitor wants to see a part of the portfolio, end your reply with exactly one action tag on its own line. Available tags:")
	for _, tag := range tags {
		section, _ := vocab.Lookup(tag)
		fmt.Fprintf(b, "\n- %s opens the %s section", navigation.FormatTag(tag), section)
	}
	b.WriteString("\nOmit the tag when no section fits. Never invent other tags.")
}

func knowledgeFromDocument(doc portfolio.Document) []string {
	var facts []string

	if doc.Title != "" {
		fact := doc.Title
		if doc.Experience.Years > 0 {
			fact = fmt.Sprintf("%s with %d+ years of experience", doc.Title, doc.Experience.Years)
		}
		if doc.Location != "" {
			fact += ", based in " + doc.Location
		}
		facts = append(facts, fact)
	}

	if len(doc.Skills) > 0 {
		names := make([]string, 0, len(doc.Skills))
		for _, s := range doc.Skills {
			names = append(names, fmt.Sprintf("%s (%d%%)", s.Name, s.Level))
		}
		facts = append(facts, "Skills: "+strings.Join(names, ", "))
	}

	for _, item := range doc.Experience.Timeline {
		fact := fmt.Sprintf("%s at %s (%s)", item.Position, item.Company, item.Period)
		if len(item.Achievements) > 0 {
			fact += ": " + strings.Join(item.Achievements, "; ")
		}
		facts = append(facts, fact)
	}

	for _, p := range doc.Projects {
		fact := fmt.Sprintf("Project %q [%s, %s]: %s", p.Title, p.Category, p.Status, p.Description)
		if len(p.Technologies) > 0 {
			fact += " Built with " + strings.Join(p.Technologies, ", ") + "."
		}
		facts = append(facts, fact)
	}

	for _, c := range doc.Certificates {
		facts = append(facts, fmt.Sprintf("Certificate: %s by %s (%s)", c.Name, c.Issuer, c.Date))
	}

	if doc.Email != "" {
		facts = append(facts, "Contact email: "+doc.Email)
	}
	return facts
}
