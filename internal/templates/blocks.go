package templates

import (
	"strconv"
	"strings"

	"cvBuilder/internal/markup"
	"cvBuilder/internal/resume"
)

// section builds a titled section. It returns nil when there are no entries
// so that empty sections never produce a heading.
func section(title string, entries ...*markup.Node) *markup.Node {
	s := markup.El("section").Class("cv-section").As(markup.RoleSection)
	s.Append(SectionTitle(title))
	n := 0
	for _, e := range entries {
		if e != nil {
			s.Append(e)
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return s
}

// SectionTitle is the heading node placed above a section's first entry.
func SectionTitle(title string) *markup.Node {
	return markup.El("h3", markup.Text(title)).
		Class("cv-section-title").
		As(markup.RoleSectionTitle)
}

// ContinuedTitle is the heading repeated on a page that continues a section.
func ContinuedTitle(title string) *markup.Node {
	return SectionTitle(strings.TrimSpace(title) + ContinuedSuffix)
}

func entry(class string, children ...*markup.Node) *markup.Node {
	return markup.El("div", children...).Class("cv-entry " + class).As(markup.RoleEntry)
}

// field renders "<strong>label</strong> value", or nil when value is blank.
func field(label, value string) *markup.Node {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return entry("cv-field",
		markup.El("strong", markup.Text(label)),
		markup.Text(" "+value),
	)
}

func iconField(icon, value string) *markup.Node {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return entry("cv-field cv-icon-field",
		markup.El("i").Attr("data-lucide", icon).Class("cv-icon"),
		markup.Text(" "+value),
	)
}

func linkedInField(url string) *markup.Node {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	link := markup.El("a", markup.Text(LinkedInLabel)).Attr("href", url)
	return entry("cv-field cv-icon-field",
		markup.El("i").Attr("data-lucide", "linkedin").Class("cv-icon"),
		markup.Text(" "),
		link,
	)
}

// progressBar renders a labelled proportional bar for a 0-100 level.
func progressBar(label string, level resume.Level) *markup.Node {
	pct := strconv.Itoa(level.Clamped()) + "%"
	return entry("cv-bar",
		markup.El("div",
			markup.El("span", markup.Text(label)),
			markup.El("span", markup.Text(pct)).Class("cv-bar-value"),
		).Class("cv-bar-label"),
		markup.El("div",
			markup.El("div").Class("cv-progress-fill").Style("width: "+pct),
		).Class("cv-progress-bar"),
	)
}

func paragraph(text string) *markup.Node {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return entry("cv-text", markup.El("p", markup.Text(text)))
}

func photoBox(photo string) *markup.Node {
	box := markup.El("div").Class("photo-box")
	if strings.TrimSpace(photo) != "" {
		box.Append(markup.El("img").Attr("src", photo).Attr("alt", ""))
	}
	return box
}

func skillBars(skills []resume.Skill) []*markup.Node {
	var out []*markup.Node
	for _, s := range skills {
		if s.IsBlank() {
			continue
		}
		out = append(out, progressBar(s.Name, s.Level))
	}
	return out
}

func languageBars(langs []resume.Language) []*markup.Node {
	var out []*markup.Node
	for _, l := range langs {
		if l.IsBlank() {
			continue
		}
		out = append(out, progressBar(l.Name, l.Level))
	}
	return out
}

func educationEntries(items []resume.Education) []*markup.Node {
	var out []*markup.Node
	for _, e := range items {
		if e.IsBlank() {
			continue
		}
		out = append(out, entry("cv-item",
			markup.El("div",
				markup.El("strong", markup.Text(e.Degree)),
				markup.El("span", markup.Text(e.Date)).Class("cv-item-date"),
			).Class("cv-item-head"),
			markup.El("div", markup.Text(e.School)).Class("cv-item-subtitle"),
		))
	}
	return out
}

func projectEntries(items []resume.Project) []*markup.Node {
	var out []*markup.Node
	for _, p := range items {
		if p.IsBlank() {
			continue
		}
		out = append(out, entry("cv-item",
			markup.El("strong", markup.Text(p.Name)),
			optional(markup.El("p", markup.Text(p.Desc)).Class("cv-item-desc"), p.Desc),
		))
	}
	return out
}

func lifeExpEntry(text string) *markup.Node {
	return paragraph(text)
}

// optional returns n only when value is not blank.
func optional(n *markup.Node, value string) *markup.Node {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return n
}

// personalFields lists age, birth date and statuses in form order.
func personalFields(rec resume.Record, ageWithUnit bool) []*markup.Node {
	age := strings.TrimSpace(rec.Age)
	if age != "" && ageWithUnit {
		age += AgeUnit
	}
	var social, military string
	if rec.SocialStatus != "" {
		social = resume.SocialStatusLabel(rec.SocialStatus)
	}
	if rec.MilitaryStatus != "" {
		military = resume.MilitaryStatusLabel(rec.MilitaryStatus)
	}
	return []*markup.Node{
		field(AgeLabel, age),
		field(BirthDateLabel, rec.BirthDate),
		field(SocialLabel, social),
		field(MilitaryLabel, military),
	}
}

func contactFields(rec resume.Record) []*markup.Node {
	return []*markup.Node{
		iconField("mail", rec.Email),
		iconField("phone", rec.Phone),
		iconField("map-pin", rec.Location),
		linkedInField(rec.LinkedIn),
	}
}

func displayName(rec resume.Record) string {
	if name := strings.TrimSpace(rec.Name); name != "" {
		return name
	}
	return DefaultName
}
