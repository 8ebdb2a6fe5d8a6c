package templates

import (
	"strings"

	"cvBuilder/internal/markup"
	"cvBuilder/internal/resume"
)

// classicLayout is a centred header over a single column.
type classicLayout struct{}

func (classicLayout) header(rec resume.Record) *markup.Node {
	contact := markup.El("div").Class("classic-contact")
	n := 0
	for _, v := range []string{rec.Email, rec.Phone, rec.Location} {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if n > 0 {
			contact.Append(markup.Text(" | "))
		}
		contact.Append(markup.El("span", markup.Text(v)).As(markup.RoleField))
		n++
	}
	if n == 0 {
		contact = nil
	}
	return markup.El("header",
		markup.El("h1", markup.Text(displayName(rec))).As(markup.RoleHeading),
		optional(markup.El("div", markup.Text(rec.JobTitle)).Class("cv-item-subtitle").As(markup.RoleHeading), rec.JobTitle),
		contact,
	).Class("classic-header").As(markup.RoleHeader)
}

func (classicLayout) flow(rec resume.Record) []*markup.Node {
	t := classicTitles
	return []*markup.Node{
		section(t.Summary, paragraph(rec.Summary)),
		section(t.Personal, personalFields(rec, false)...),
		section(t.Experience, classicExperience(rec.Experience)...),
		section(t.Education, educationEntries(rec.Education)...),
		section(t.Projects, projectEntries(rec.Projects)...),
		section(t.Skills, skillBars(rec.Skills)...),
		section(t.Languages, languageBars(rec.Languages)...),
		section(t.LifeExp, lifeExpEntry(rec.LifeExp)),
		section(t.Contact, linkedInField(rec.LinkedIn)),
	}
}

func (c classicLayout) document(rec resume.Record) (*markup.Node, *markup.Node) {
	content := markup.El("main", c.flow(rec)...).As(markup.RoleContent)
	root := markup.El("div", c.header(rec), content).Class("classic-layout")
	return root, content
}

func (c classicLayout) page(rec resume.Record, content []*markup.Node, pageNum int, first bool) *markup.Node {
	root := markup.El("div").Class("classic-layout")
	if first {
		root.Append(c.header(rec))
	} else {
		root.Append(miniHeader(rec, pageNum))
	}
	root.Append(markup.El("main", cloneAll(content)...))
	root.Append(pageFooter(pageNum))
	return root
}

func classicExperience(items []resume.Experience) []*markup.Node {
	var out []*markup.Node
	for _, e := range items {
		if e.IsBlank() {
			continue
		}
		head := strings.TrimSpace(e.Role)
		if company := strings.TrimSpace(e.Company); company != "" {
			if head != "" {
				head += " @ "
			}
			head += company
		}
		out = append(out, entry("cv-item",
			markup.El("div",
				markup.El("strong", markup.Text(head)),
				markup.El("span", markup.Text(e.Date)).Class("cv-item-date"),
			).Class("cv-item-head"),
			optional(markup.El("p", markup.Text(e.Desc)).Class("cv-item-desc"), e.Desc),
		))
	}
	return out
}
