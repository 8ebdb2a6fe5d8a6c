package resume

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record 是表单收集到的结构化简历数据。
type Record struct {
	Name           string         `json:"name"`
	JobTitle       string         `json:"jobTitle"`
	BirthDate      string         `json:"birthDate"`
	Age            string         `json:"age"`
	SocialStatus   SocialStatus   `json:"socialStatus"`
	MilitaryStatus MilitaryStatus `json:"militaryStatus"`
	Summary        string         `json:"summary"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Location       string         `json:"location"`
	LinkedIn       string         `json:"linkedin"`
	LifeExp        string         `json:"lifeExp"`
	Photo          string         `json:"photo"`
	Skills         []Skill        `json:"skills"`
	Languages      []Language     `json:"languages"`
	Education      []Education    `json:"education"`
	Experience     []Experience   `json:"experience"`
	Projects       []Project      `json:"projects"`
}

type Skill struct {
	Name  string `json:"name"`
	Level Level  `json:"level"`
}

type Language struct {
	Name  string `json:"name"`
	Level Level  `json:"level"`
}

type Education struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Date   string `json:"date"`
}

type Experience struct {
	Company string `json:"company"`
	Role    string `json:"role"`
	Date    string `json:"date"`
	Desc    string `json:"desc"`
}

type Project struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// IsBlank reports whether every text field of the entry is empty.
func (s Skill) IsBlank() bool { return blank(s.Name) }

func (l Language) IsBlank() bool { return blank(l.Name) }

func (e Education) IsBlank() bool { return blank(e.School, e.Degree, e.Date) }

func (e Experience) IsBlank() bool { return blank(e.Company, e.Role, e.Date, e.Desc) }

func (p Project) IsBlank() bool { return blank(p.Name, p.Desc) }

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Level is a proficiency percentage. The editor stores slider values as
// strings, so both JSON numbers and numeric strings are accepted.
type Level int

// Clamped returns the level limited to 0..100.
func (l Level) Clamped() int {
	switch {
	case l < 0:
		return 0
	case l > 100:
		return 100
	default:
		return int(l)
	}
}

func (l *Level) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode level: %w", err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*l = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("decode level %q: %w", s, err)
		}
		*l = Level(int(f))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode level: %w", err)
	}
	*l = Level(int(f))
	return nil
}

// SocialStatus is the marital status selected in the form.
type SocialStatus string

const (
	SocialSingle   SocialStatus = "single"
	SocialMarried  SocialStatus = "married"
	SocialDivorced SocialStatus = "divorced"
	SocialWidowed  SocialStatus = "widowed"
)

// MilitaryStatus is the conscription status selected in the form.
type MilitaryStatus string

const (
	MilitaryExempted    MilitaryStatus = "exempted"
	MilitaryPostponed   MilitaryStatus = "postponed"
	MilitaryCompleted   MilitaryStatus = "completed"
	MilitaryNotRequired MilitaryStatus = "not-required"
)
