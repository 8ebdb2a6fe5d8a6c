package paginate

import (
	"testing"

	"cvBuilder/internal/markup"
	"cvBuilder/internal/resume"
	"cvBuilder/internal/templates"
)

func TestFlatten_SectionEntriesCarryTitle(t *testing.T) {
	title := markup.El("h3", markup.Text("الخبرة")).As(markup.RoleSectionTitle)
	content := markup.El("main",
		markup.El("h1", markup.Text("name")).As(markup.RoleHeading),
		markup.El("section", title,
			markup.El("div", markup.Text("a")).As(markup.RoleEntry),
			markup.El("div", markup.Text("b")).As(markup.RoleEntry),
		).As(markup.RoleSection),
		markup.El("section", markup.El("h3", markup.Text("فارغ")).As(markup.RoleSectionTitle)).As(markup.RoleSection),
		markup.El("hr"),
	).As(markup.RoleContent)

	units := Flatten(content)
	if len(units) != 4 {
		t.Fatalf("units = %d, want 4", len(units))
	}
	for i, u := range units {
		if u.Index != i {
			t.Fatalf("unit %d has index %d", i, u.Index)
		}
	}
	if units[0].SectionTitle != "الخبرة" || !units[0].FirstInSection {
		t.Fatalf("first entry = %+v", units[0])
	}
	if units[1].FirstInSection || units[1].Title == nil || units[1].Title == title {
		t.Fatalf("second entry should carry a copy of the title: %+v", units[1])
	}
	if units[2].Title != nil || units[2].Entry.Role != markup.RoleSection {
		t.Fatalf("title-only section should be one whole unit: %+v", units[2])
	}
	if units[3].Entry.Tag != "hr" || !units[3].FirstInSection {
		t.Fatalf("loose node = %+v", units[3])
	}
}

func TestFlatten_Nil(t *testing.T) {
	if units := Flatten(nil); units != nil {
		t.Fatalf("Flatten(nil) = %v", units)
	}
}

func TestFlatten_RenderedDocumentSkipsHeadings(t *testing.T) {
	doc, err := templates.Render(resume.TemplateModern, scenarioRecord())
	if err != nil {
		t.Fatal(err)
	}
	units := Flatten(doc.Content)
	for _, u := range units {
		if u.Entry.Role == markup.RoleHeading {
			t.Fatalf("heading leaked into units: %s", markup.PlainText(u.Entry))
		}
	}
	// 1 skill + 1 language + 6 experience + 1 education
	if len(units) != 9 {
		t.Fatalf("units = %d, want 9", len(units))
	}
}
