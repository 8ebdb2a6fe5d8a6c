package templates

import (
	"strings"

	"cvBuilder/internal/markup"
	"cvBuilder/internal/resume"
)

// modernLayout is a two-column page: a tinted sidebar with photo, personal
// and contact details, and a main column with everything else.
type modernLayout struct{}

func (modernLayout) sidebar(rec resume.Record) []*markup.Node {
	return []*markup.Node{
		photoBox(rec.Photo),
		section(modernTitles.Personal, personalFields(rec, true)...),
		section(modernTitles.Contact, contactFields(rec)...),
	}
}

func (modernLayout) flow(rec resume.Record) []*markup.Node {
	t := modernTitles
	return []*markup.Node{
		section(t.Summary, paragraph(rec.Summary)),
		section(t.Skills, skillBars(rec.Skills)...),
		section(t.Languages, languageBars(rec.Languages)...),
		section(t.Experience, modernExperience(rec.Experience)...),
		section(t.Education, educationEntries(rec.Education)...),
		section(t.LifeExp, lifeExpEntry(rec.LifeExp)),
		section(t.Projects, projectEntries(rec.Projects)...),
	}
}

func (m modernLayout) document(rec resume.Record) (*markup.Node, *markup.Node) {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		name = NamePlaceholder
	}
	job := strings.TrimSpace(rec.JobTitle)
	if job == "" {
		job = JobPlaceholder
	}
	content := markup.El("main",
		markup.El("h1", markup.Text(name)).Class("cv-name").As(markup.RoleHeading),
		markup.El("h2", markup.Text(job)).Class("cv-job-title").As(markup.RoleHeading),
	).Class("modern-content").As(markup.RoleContent)
	content.Append(m.flow(rec)...)

	aside := markup.El("aside", m.sidebar(rec)...).Class("modern-sidebar").As(markup.RoleChrome)
	root := markup.El("div", aside, content).Class("modern-layout")
	return root, content
}

func (m modernLayout) page(rec resume.Record, content []*markup.Node, pageNum int, first bool) *markup.Node {
	aside := markup.El("aside").Class("modern-sidebar").As(markup.RoleChrome)
	main := markup.El("main").Class("modern-content")
	if first {
		aside.Append(m.sidebar(rec)...)
		main.Append(
			markup.El("h1", markup.Text(displayName(rec))).Class("cv-name").As(markup.RoleHeading),
			optional(markup.El("h2", markup.Text(rec.JobTitle)).Class("cv-job-title").As(markup.RoleHeading), rec.JobTitle),
		)
	} else {
		aside.Append(markup.El("div",
			markup.El("h3", markup.Text(displayName(rec))),
			optional(markup.El("p", markup.Text(rec.JobTitle)), rec.JobTitle),
		).Class("cv-sidebar-name"))
		main.Append(miniHeader(rec, pageNum))
	}
	main.Append(cloneAll(content)...)
	main.Append(pageFooter(pageNum))
	return markup.El("div", aside, main).Class("modern-layout")
}

func modernExperience(items []resume.Experience) []*markup.Node {
	var out []*markup.Node
	for _, e := range items {
		if e.IsBlank() {
			continue
		}
		out = append(out, entry("cv-item",
			markup.El("div",
				markup.El("strong", markup.Text(e.Role)),
				markup.El("span", markup.Text(e.Date)).Class("cv-item-date"),
			).Class("cv-item-head"),
			optional(markup.El("div", markup.Text(e.Company)).Class("cv-item-company"), e.Company),
			optional(markup.El("p", markup.Text(e.Desc)).Class("cv-item-desc"), e.Desc),
		))
	}
	return out
}
