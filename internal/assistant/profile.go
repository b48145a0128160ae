// Package assistant holds the declarative assistant profile: the system
// prompt sections, the action vocabulary and the client-facing copy.
package assistant

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/somaarjun/portfolio/backend/internal/navigation"
)

//go:embed default.yaml
var defaultProfile []byte

// Notice 是聊天失败时展示给访客的提示文案。
type Notice struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// PromptSections 描述系统提示词的各个段落。
type PromptSections struct {
	Intro        string   `yaml:"intro"`
	Personality  []string `yaml:"personality"`
	Capabilities []string `yaml:"capabilities"`
	Knowledge    []string `yaml:"knowledge"`
	Guidelines   []string `yaml:"guidelines"`
	Closing      string   `yaml:"closing"`
}

// Profile 是助手的完整声明式配置。
type Profile struct {
	Name         string            `yaml:"name"`
	Owner        string            `yaml:"owner"`
	Greeting     string            `yaml:"greeting"`
	Apology      string            `yaml:"apology"`
	Notice       Notice            `yaml:"notice"`
	DisplayDelay time.Duration     `yaml:"display_delay"`
	Prompt       PromptSections    `yaml:"prompt"`
	Actions      map[string]string `yaml:"actions"`
	QuickActions map[string]string `yaml:"quick_actions"`
}

// Default returns the embedded profile.
func Default() *Profile {
	p, err := Parse(defaultProfile)
	if err != nil {
		panic(fmt.Sprintf("embedded assistant profile is invalid: %v", err))
	}
	return p
}

// Load reads and validates a profile from path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read assistant profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("assistant profile %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes YAML and validates the result.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the fields the relay and clients depend on.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Prompt.Intro) == "" {
		return errors.New("prompt.intro is required")
	}
	if len(p.Actions) == 0 {
		return errors.New("at least one action is required")
	}
	if p.DisplayDelay < 0 {
		return errors.New("display_delay must not be negative")
	}
	if _, err := p.vocabulary(); err != nil {
		return err
	}
	for tag := range p.QuickActions {
		if _, ok := p.Actions[tag]; !ok {
			return fmt.Errorf("quick action %q has no matching action", tag)
		}
	}
	return nil
}

// Vocabulary converts the declared actions to a navigation vocabulary.
func (p *Profile) Vocabulary() navigation.Vocabulary {
	vocab, err := p.vocabulary()
	if err != nil {
		return navigation.DefaultVocabulary()
	}
	return vocab
}

func (p *Profile) vocabulary() (navigation.Vocabulary, error) {
	vocab := make(navigation.Vocabulary, len(p.Actions))
	for tag, raw := range p.Actions {
		section, err := navigation.ParseSection(raw)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", tag, err)
		}
		vocab[tag] = section
	}
	if err := vocab.Validate(); err != nil {
		return nil, err
	}
	return vocab.Clone(), nil
}

// QuickPrompt returns the canned visitor question for tag.
func (p *Profile) QuickPrompt(tag string) (string, bool) {
	prompt, ok := p.QuickActions[strings.ToLower(strings.TrimSpace(tag))]
	return prompt, ok
}

// Holder 保存当前生效的配置，支持热更新。
type Holder struct {
	current atomic.Pointer[Profile]
}

// NewHolder returns a holder serving p.
func NewHolder(p *Profile) *Holder {
	h := &Holder{}
	h.current.Store(p)
	return h
}

// Current returns the active profile.
func (h *Holder) Current() *Profile {
	return h.current.Load()
}

// Reload replaces the active profile with the one at path. The previous
// profile stays active when the file is invalid.
func (h *Holder) Reload(path string) error {
	p, err := Load(path)
	if err != nil {
		return err
	}
	h.current.Store(p)
	return nil
}

// QuickAction pairs a tag with its canned prompt and target section.
type QuickAction struct {
	Tag     string             `json:"tag"`
	Section navigation.Section `json:"section"`
	Prompt  string             `json:"prompt"`
}

// Manifest 是返回给前端的助手信息，不包含系统提示词。
type Manifest struct {
	Name           string                        `json:"name"`
	Greeting       string                        `json:"greeting"`
	Apology        string                        `json:"apology"`
	Notice         Notice                        `json:"notice"`
	DisplayDelayMS int64                         `json:"displayDelayMs"`
	Actions        map[string]navigation.Section `json:"actions"`
	QuickActions   []QuickAction                 `json:"quickActions"`
}

// Manifest returns the client-facing view of p. Quick actions are ordered
// by tag.
func (p *Profile) Manifest() Manifest {
	vocab := p.Vocabulary()
	m := Manifest{
		Name:           p.Name,
		Greeting:       strings.TrimSpace(p.Greeting),
		Apology:        strings.TrimSpace(p.Apology),
		Notice:         p.Notice,
		DisplayDelayMS: p.DisplayDelay.Milliseconds(),
		Actions:        make(map[string]navigation.Section, len(vocab)),
	}
	for _, tag := range vocab.Tags() {
		section, _ := vocab.Lookup(tag)
		m.Actions[tag] = section
		if prompt, ok := p.QuickPrompt(tag); ok {
			m.QuickActions = append(m.QuickActions, QuickAction{Tag: tag, Section: section, Prompt: prompt})
		}
	}
	return m
}

// Vocabulary rebuilds the action vocabulary from a manifest.
func (m Manifest) Vocabulary() navigation.Vocabulary {
	if len(m.Actions) == 0 {
		return navigation.DefaultVocabulary()
	}
	vocab := make(navigation.Vocabulary, len(m.Actions))
	for tag, section := range m.Actions {
		vocab[tag] = section
	}
	if vocab.Validate() != nil {
		return navigation.DefaultVocabulary()
	}
	return vocab
}

// DisplayDelay returns the manifest delay as a duration.
func (m Manifest) DisplayDelay() time.Duration {
	return time.Duration(m.DisplayDelayMS) * time.Millisecond
}
