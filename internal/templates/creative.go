package templates

import (
	"strings"

	"cvBuilder/internal/markup"
	"cvBuilder/internal/resume"
)

// creativeLayout has a full-bleed coloured header with the photo.
type creativeLayout struct{}

func (creativeLayout) header(rec resume.Record) *markup.Node {
	return markup.El("header",
		markup.El("div",
			markup.El("h1", markup.Text(displayName(rec))).As(markup.RoleHeading),
			optional(markup.El("h3", markup.Text(rec.JobTitle)).As(markup.RoleHeading), rec.JobTitle),
		),
		photoBox(rec.Photo),
	).Class("creative-header").As(markup.RoleHeader)
}

func (creativeLayout) flow(rec resume.Record) []*markup.Node {
	t := creativeTitles
	info := append(contactFields(rec), personalFields(rec, false)...)
	return []*markup.Node{
		section(t.Personal, info...),
		section(t.Summary, paragraph(rec.Summary)),
		section(t.Skills, skillBars(rec.Skills)...),
		section(t.Languages, languageBars(rec.Languages)...),
		section(t.Experience, creativeExperience(rec.Experience)...),
		section(t.Education, educationEntries(rec.Education)...),
		section(t.LifeExp, lifeExpEntry(rec.LifeExp)),
		section(t.Projects, projectEntries(rec.Projects)...),
	}
}

func (c creativeLayout) document(rec resume.Record) (*markup.Node, *markup.Node) {
	content := markup.El("main", c.flow(rec)...).As(markup.RoleContent)
	root := markup.El("div", c.header(rec), content).Class("creative-layout")
	return root, content
}

func (c creativeLayout) page(rec resume.Record, content []*markup.Node, pageNum int, first bool) *markup.Node {
	root := markup.El("div").Class("creative-layout")
	if first {
		root.Append(c.header(rec))
	} else {
		root.Append(miniHeader(rec, pageNum))
	}
	root.Append(markup.El("main", cloneAll(content)...))
	root.Append(pageFooter(pageNum))
	return root
}

func creativeExperience(items []resume.Experience) []*markup.Node {
	var out []*markup.Node
	for _, e := range items {
		if e.IsBlank() {
			continue
		}
		var meta []string
		for _, v := range []string{e.Company, e.Date} {
			if v = strings.TrimSpace(v); v != "" {
				meta = append(meta, v)
			}
		}
		out = append(out, entry("cv-item cv-item-accent",
			markup.El("strong", markup.Text(e.Role)),
			optional(markup.El("small", markup.Text(strings.Join(meta, " | "))), strings.Join(meta, "")),
			optional(markup.El("p", markup.Text(e.Desc)).Class("cv-item-desc"), e.Desc),
		))
	}
	return out
}
