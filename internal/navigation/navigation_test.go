package navigation

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transitions struct {
	mu   sync.Mutex
	log  [][2]Section
	tags []string
}

func (tr *transitions) record(t Transition) {
	tr.mu.Lock()
	tr.log = append(tr.log, [2]Section{t.From, t.To})
	tr.tags = append(tr.tags, t.Tag)
	tr.mu.Unlock()
}

func (tr *transitions) snapshot() [][2]Section {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([][2]Section(nil), tr.log...)
}

func TestParseSection(t *testing.T) {
	s, err := ParseSection(" Skills ")
	require.NoError(t, err)
	assert.Equal(t, Skills, s)

	_, err = ParseSection("blog")
	assert.Error(t, err)
}

func TestDefaultVocabularyCoversEveryNonWelcomeSection(t *testing.T) {
	vocab := DefaultVocabulary()
	require.NoError(t, vocab.Validate())

	targets := map[Section]bool{}
	for _, section := range vocab {
		targets[section] = true
	}
	for _, s := range Sections() {
		if s == Welcome {
			continue
		}
		assert.True(t, targets[s], "no tag opens %s", s)
	}

	got, ok := vocab.Lookup(" SHOW_RESUME ")
	require.True(t, ok)
	assert.Equal(t, Resume, got)
}

func TestVocabularyValidateRejectsUnknownSection(t *testing.T) {
	vocab := Vocabulary{"show_blog": Section("blog")}
	assert.Error(t, vocab.Validate())
}

func TestExtractAction(t *testing.T) {
	tag, text := ExtractAction("Here are his skills.\n\n[action: show_skills]")
	assert.Equal(t, TagShowSkills, tag)
	assert.Equal(t, "Here are his skills.", text)

	tag, text = ExtractAction("No navigation needed.")
	assert.Empty(t, tag)
	assert.Equal(t, "No navigation needed.", text)

	tag, text = ExtractAction("[action:show_projects] Projects first. [action:show_contact]")
	assert.Equal(t, TagShowProjects, tag)
	assert.Equal(t, "Projects first.", text)
}

func TestFormatTagRoundTrip(t *testing.T) {
	tag, _ := ExtractAction("ok " + FormatTag("Show_Contact"))
	assert.Equal(t, TagShowContact, tag)
}

func TestRouterStartsOnWelcome(t *testing.T) {
	r := NewRouter(nil, 0)
	assert.Equal(t, Welcome, r.Active())
}

func TestRouterSelectIsImmediateAndTotal(t *testing.T) {
	r := NewRouter(nil, time.Hour)
	for _, from := range Sections() {
		for _, to := range Sections() {
			require.NoError(t, r.Select(from))
			require.NoError(t, r.Select(to))
			assert.Equal(t, to, r.Active())
		}
	}
	assert.Error(t, r.Select(Section("nowhere")))
}

func TestRouterApplyUnknownTagDoesNothing(t *testing.T) {
	rec := &transitions{}
	r := NewRouter(nil, 0)
	r.OnChange(rec.record)

	_, ok := r.Apply("dance")
	assert.False(t, ok)
	assert.Equal(t, Welcome, r.Active())
	assert.Empty(t, rec.snapshot())
}

func TestRouterApplyTransitionsOnceAfterDelay(t *testing.T) {
	const delay = 30 * time.Millisecond

	for _, start := range Sections() {
		rec := &transitions{}
		r := NewRouter(nil, delay)
		require.NoError(t, r.Select(start))
		r.OnChange(rec.record)

		target, ok := r.Apply(TagShowSkills)
		require.True(t, ok)
		assert.Equal(t, Skills, target)
		assert.Equal(t, start, r.Active(), "transition must wait for the delay")
		assert.True(t, r.Pending())

		require.Eventually(t, func() bool { return r.Active() == Skills }, time.Second, 5*time.Millisecond)

		time.Sleep(3 * delay)
		assert.Equal(t, [][2]Section{{start, Skills}}, rec.snapshot())
		assert.False(t, r.Pending())
	}
}

func TestRouterNewerTagReplacesPending(t *testing.T) {
	rec := &transitions{}
	r := NewRouter(nil, 40*time.Millisecond)
	r.OnChange(rec.record)

	r.Apply(TagShowSkills)
	r.Apply(TagShowContact)

	require.Eventually(t, func() bool { return r.Active() == Contact }, time.Second, 5*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, [][2]Section{{Welcome, Contact}}, rec.snapshot())
}

func TestRouterSelectCancelsPendingTag(t *testing.T) {
	r := NewRouter(nil, 30*time.Millisecond)
	r.Apply(TagShowProjects)
	require.NoError(t, r.Select(Resume))

	time.Sleep(90 * time.Millisecond)
	assert.Equal(t, Resume, r.Active())
}

func TestRouterReportsCause(t *testing.T) {
	rec := &transitions{}
	r := NewRouter(nil, 0)
	r.OnChange(rec.record)

	require.NoError(t, r.Select(Projects))
	r.Apply("SHOW_Contact")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []string{"", TagShowContact}, rec.tags)
}

func TestRouterSetVocabulary(t *testing.T) {
	r := NewRouter(nil, 0)
	r.SetVocabulary(Vocabulary{"open_cv": Resume})

	_, ok := r.Apply(TagShowSkills)
	assert.False(t, ok)

	got, ok := r.Apply("open_cv")
	require.True(t, ok)
	assert.Equal(t, Resume, got)
	assert.Equal(t, Resume, r.Active())
}
