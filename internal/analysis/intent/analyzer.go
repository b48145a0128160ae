// Package intent guesses which portfolio section a visitor is asking about
// when the assistant reply carries no explicit action tag.
package intent

import (
	"strings"
	"unicode"

	"github.com/somaarjun/portfolio/backend/internal/navigation"
)

// Decision 给出推断出的动作标签以及得分。Tag 为空表示没有把握。
type Decision struct {
	Tag   string
	Score int
}

type bucket struct {
	tag      string
	keywords []string
}

// 顺序即平分时的优先级。
var keywordBuckets = []bucket{
	{
		tag: navigation.TagShowProjects,
		keywords: []string{
			"project", "projects", "portfolio", "built", "build", "demo", "demos", "app", "apps",
			"dashboard", "github repo", "case study", "work samples", "what has he made",
		},
	},
	{
		tag: navigation.TagShowSkills,
		keywords: []string{
			"skill", "skills", "tech stack", "technologies", "technology", "languages", "frameworks",
			"proficient", "expertise", "good at", "tools", "python", "tensorflow", "react",
		},
	},
	{
		tag: navigation.TagShowResume,
		keywords: []string{
			"resume", "résumé", "cv", "experience", "career", "background", "worked", "work history",
			"jobs", "employment", "positions", "timeline", "companies",
		},
	},
	{
		tag: navigation.TagShowCertificates,
		keywords: []string{
			"certificate", "certificates", "certification", "certifications", "certified", "credential",
			"credentials", "aws solutions architect", "qualifications",
		},
	},
	{
		tag: navigation.TagShowContact,
		keywords: []string{
			"contact", "reach", "email", "e-mail", "hire", "hiring", "get in touch", "phone", "message him",
			"linkedin", "talk to him", "available",
		},
	},
}

const (
	userWeight  = 3
	replyWeight = 1
	minScore    = userWeight
)

// Analyze scores the visitor's message and, more weakly, the assistant reply
// against the keyword buckets.
func Analyze(userUtterance, reply string) Decision {
	scores := make([]int, len(keywordBuckets))
	addScores(scores, userUtterance, userWeight)
	addScores(scores, reply, replyWeight)

	best := -1
	bestScore := 0
	for i, s := range scores {
		if s > bestScore {
			best = i
			bestScore = s
		}
	}

	if best < 0 || bestScore < minScore {
		return Decision{}
	}
	return Decision{Tag: keywordBuckets[best].tag, Score: bestScore}
}

func addScores(scores []int, text string, weight int) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return
	}
	words := tokenize(normalized)

	for i, b := range keywordBuckets {
		for _, keyword := range b.keywords {
			if matches(normalized, words, keyword) {
				scores[i] += weight
			}
		}
	}
}

// matches treats single words as whole tokens so "cv" does not fire inside
// longer words; phrases fall back to substring search.
func matches(normalized string, words map[string]struct{}, keyword string) bool {
	if strings.ContainsRune(keyword, ' ') {
		return strings.Contains(normalized, keyword)
	}
	_, ok := words[keyword]
	return ok
}

func tokenize(text string) map[string]struct{} {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	words := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		words[strings.Trim(f, "-")] = struct{}{}
	}
	return words
}
