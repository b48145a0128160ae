package portfolio

// Document is the structured portfolio served to the front-end. It is
// read-only for the lifetime of a session.
type Document struct {
	Name         string        `json:"name" yaml:"name"`
	Title        string        `json:"title" yaml:"title"`
	Bio          string        `json:"bio" yaml:"bio"`
	Location     string        `json:"location" yaml:"location"`
	Email        string        `json:"email" yaml:"email"`
	Phone        string        `json:"phone" yaml:"phone"`
	Website      string        `json:"website" yaml:"website"`
	LinkedIn     string        `json:"linkedin" yaml:"linkedin"`
	GitHub       string        `json:"github" yaml:"github"`
	VisitCount   int64         `json:"visitCount" yaml:"-"`
	Projects     []Project     `json:"projects" yaml:"projects"`
	Skills       []Skill       `json:"skills" yaml:"skills"`
	Experience   Experience    `json:"experience" yaml:"experience"`
	Certificates []Certificate `json:"certificates" yaml:"certificates"`
}

// Project 作品集中的单个项目。
type Project struct {
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Category     string   `json:"category" yaml:"category"`
	Technologies []string `json:"technologies" yaml:"technologies"`
	Image        string   `json:"image" yaml:"image"`
	GitHub       string   `json:"github,omitempty" yaml:"github"`
	Live         string   `json:"live,omitempty" yaml:"live"`
	Featured     bool     `json:"featured" yaml:"featured"`
	Status       string   `json:"status" yaml:"status"`
}

// Skill 技能条目，Level 取值 0-100。
type Skill struct {
	Name     string `json:"name" yaml:"name"`
	Level    int    `json:"level" yaml:"level"`
	Icon     string `json:"icon" yaml:"icon"`
	Category string `json:"category" yaml:"category"`
}

// Experience 汇总职业经历。
type Experience struct {
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	Years       int            `json:"years" yaml:"years"`
	Timeline    []TimelineItem `json:"timeline" yaml:"timeline"`
}

// TimelineItem 是履历中的一段职位。
type TimelineItem struct {
	ID           string   `json:"id" yaml:"id"`
	Position     string   `json:"position" yaml:"position"`
	Company      string   `json:"company" yaml:"company"`
	Period       string   `json:"period" yaml:"period"`
	Duration     string   `json:"duration" yaml:"duration"`
	Type         string   `json:"type" yaml:"type"`
	Description  string   `json:"description" yaml:"description"`
	Achievements []string `json:"achievements" yaml:"achievements"`
	Technologies []string `json:"technologies" yaml:"technologies"`
}

// Certificate 证书条目。
type Certificate struct {
	Name   string `json:"name" yaml:"name"`
	Issuer string `json:"issuer" yaml:"issuer"`
	Icon   string `json:"icon" yaml:"icon"`
	Date   string `json:"date" yaml:"date"`
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (d Document) Clone() Document {
	out := d

	out.Projects = make([]Project, len(d.Projects))
	for i, p := range d.Projects {
		p.Technologies = append([]string(nil), p.Technologies...)
		out.Projects[i] = p
	}

	out.Skills = append([]Skill(nil), d.Skills...)
	out.Certificates = append([]Certificate(nil), d.Certificates...)

	out.Experience.Timeline = make([]TimelineItem, len(d.Experience.Timeline))
	for i, item := range d.Experience.Timeline {
		item.Achievements = append([]string(nil), item.Achievements...)
		item.Technologies = append([]string(nil), item.Technologies...)
		out.Experience.Timeline[i] = item
	}

	return out
}
