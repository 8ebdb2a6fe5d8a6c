package paginate

import (
	"cvBuilder/internal/markup"
)

// Flatten turns the content area into units. Header and heading nodes are
// skipped because the page chrome re-inserts them; each section entry becomes
// one unit carrying a copy of its section title; a section without entries
// degrades to a single whole-section unit; any other node is one unit.
func Flatten(content *markup.Node) []Unit {
	if content == nil {
		return nil
	}
	var units []Unit
	add := func(u Unit) {
		u.Index = len(units)
		units = append(units, u)
	}
	for _, child := range content.Children {
		switch child.Role {
		case markup.RoleHeader, markup.RoleHeading:
			continue
		case markup.RoleSection:
			var title *markup.Node
			var entries []*markup.Node
			for _, c := range child.Children {
				if c.Role == markup.RoleSectionTitle {
					if title == nil {
						title = c
					}
					continue
				}
				entries = append(entries, c)
			}
			if len(entries) == 0 {
				add(Unit{Entry: child.Clone(), FirstInSection: true})
				continue
			}
			titleText := markup.PlainText(title)
			for i, e := range entries {
				add(Unit{
					Entry:          e.Clone(),
					Title:          title.Clone(),
					SectionTitle:   titleText,
					FirstInSection: i == 0,
				})
			}
		default:
			add(Unit{Entry: child.Clone(), FirstInSection: true})
		}
	}
	return units
}
