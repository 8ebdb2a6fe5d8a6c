package templates

import (
	"bytes"
	"fmt"
	"html/template"

	"cvBuilder/internal/resume"
)

// A4 at 96 DPI.
const (
	PageWidthPx  = 793.7
	PageHeightPx = 1122.5
)

type styleVars struct {
	Primary    template.CSS
	Light      template.CSS
	FontFamily template.CSS
	FontSizePx template.CSS
	TextColor  template.CSS
}

func newStyleVars(prefs resume.Preferences) styleVars {
	theme := ResolveTheme(prefs)
	size := prefs.Typography.FontSize
	if size <= 0 {
		size = resume.DefaultFontSize
	}
	return styleVars{
		Primary:    template.CSS(theme.Primary),
		Light:      template.CSS(theme.Light),
		FontFamily: template.CSS(safeFontFamily(prefs.Typography.FontFamily)),
		FontSizePx: template.CSS(fmt.Sprintf("%.2fpx", float64(size)/100*16)),
		TextColor:  template.CSS(safeColor(prefs.Typography.Color)),
	}
}

// headTemplate must stay in sync with the class names the layouts emit: the
// measurement surface and the exporter both load it.
var headTemplate = template.Must(template.New("head").Parse(`<meta charset="UTF-8">
<style>
:root {
    --primary: {{.Primary}};
    --primary-light: {{.Light}};
    --text-main: #202124;
    --text-muted: #5f6368;
    --font-current: {{.FontFamily}};
    --font-size-base: {{.FontSizePx}};
}
* { box-sizing: border-box; }
html, body { margin: 0; padding: 0; background: white; }
body {
    font-family: var(--font-current);
    font-size: var(--font-size-base);
    color: {{.TextColor}};
    line-height: 1.5;
    direction: rtl;
}
.cv-paper {
    width: 210mm;
    height: 297mm;
    padding: 20mm;
    background: white;
    overflow: hidden;
    position: relative;
}
.modern-template.cv-paper { padding: 0; }
h1, h2, h3, p { margin: 0 0 6px 0; }
.cv-section { margin-top: 25px; }
.cv-section-title {
    color: var(--primary);
    font-size: 1.1rem;
    border-bottom: 2px solid var(--primary-light);
    padding-bottom: 4px;
    margin-bottom: 10px;
}
.cv-entry { margin-bottom: 10px; }
.cv-item-head { display: flex; justify-content: space-between; align-items: baseline; }
.cv-item-date { color: var(--primary); font-weight: 600; }
.cv-item-company { color: var(--primary); font-weight: 600; margin-bottom: 5px; }
.cv-item-desc { font-size: 0.9rem; text-align: justify; }
.cv-item-accent { border-right: 3px solid var(--primary-light); padding-right: 15px; }
.cv-bar-label { display: flex; justify-content: space-between; font-size: 0.85rem; margin-bottom: 2px; }
.cv-bar-value { color: var(--primary); font-weight: 700; }
.cv-progress-bar { height: 6px; background: #e0e0e0; border-radius: 3px; overflow: hidden; }
.cv-progress-fill { height: 100%; background: var(--primary); }
.cv-icon { display: inline-block; width: 14px; height: 14px; }
.photo-box { width: 140px; height: 140px; border-radius: 20px; overflow: hidden; margin: 0 auto; }
.photo-box img { width: 100%; height: 100%; object-fit: cover; }
.cv-mini-header {
    display: flex;
    justify-content: space-between;
    border-bottom: 1px solid var(--primary-light);
    padding-bottom: 6px;
    margin-bottom: 20px;
    color: var(--text-muted);
}
.cv-page-number { margin-top: 20px; text-align: center; font-size: 0.8rem; color: var(--text-muted); }
.modern-layout { display: flex; flex-direction: row; }
.modern-sidebar { width: 32%; padding: 20mm 8mm; background: var(--primary-light); }
.modern-content { width: 68%; padding: 20mm 10mm; }
.modern-content .cv-name { color: var(--primary); font-size: 2.5rem; }
.modern-content .cv-job-title { color: var(--text-muted); font-size: 1.2rem; margin-bottom: 30px; }
.cv-sidebar-name { text-align: center; margin-top: 40px; }
.cv-sidebar-name h3 { color: var(--primary); margin-bottom: 5px; }
.classic-header { text-align: center; border-bottom: 2px solid var(--primary); padding-bottom: 15px; margin-bottom: 25px; }
.classic-header h1 { color: var(--primary); font-size: 2.5rem; margin-bottom: 5px; }
.classic-contact { display: flex; justify-content: center; gap: 15px; flex-wrap: wrap; font-size: 0.9rem; }
.creative-header {
    background: var(--primary);
    color: white;
    margin: -20mm -20mm 25px -20mm;
    padding: 20mm;
    display: flex;
    justify-content: space-between;
    align-items: center;
}
.creative-header h1 { font-size: 3.5rem; margin: 0; }
.creative-header h3 { font-weight: 300; opacity: 0.9; }
.cv-overlay { position: absolute; inset: 0; width: 100%; height: 100%; pointer-events: none; }
@media print {
    @page { size: A4; margin: 0; }
    * { -webkit-print-color-adjust: exact !important; print-color-adjust: exact !important; }
    .cv-paper { page-break-after: always; break-after: page; }
    .cv-paper:last-child { page-break-after: auto; break-after: auto; }
}
</style>`))

// Head returns the <head> contents shared by measurement and export.
func Head(prefs resume.Preferences) (string, error) {
	var buf bytes.Buffer
	if err := headTemplate.Execute(&buf, newStyleVars(prefs)); err != nil {
		return "", fmt.Errorf("render stylesheet: %w", err)
	}
	return buf.String(), nil
}

// MeasureElementID is the element the measurement surface fills.
const MeasureElementID = "cv-measure"

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html dir="rtl" lang="ar">
<head>
{{.Head}}
</head>
<body>
{{- if .Measure}}
<div id="{{.MeasureID}}" style="position: absolute; top: 0; left: 0; width: {{.Width}}px;"></div>
{{- end}}
{{- range .Pages}}
{{.}}
{{- end}}
</body>
</html>
`))

type documentData struct {
	Head      template.HTML
	Pages     []template.HTML
	Measure   bool
	MeasureID string
	Width     string
}

// Standalone builds a complete HTML document holding the given page markup,
// one .cv-paper per page.
func Standalone(head string, pages []string) (string, error) {
	data := documentData{Head: template.HTML(head)}
	for _, p := range pages {
		data.Pages = append(data.Pages, template.HTML(p))
	}
	return executeDocument(data)
}

// SurfaceDocument builds the empty document a measurement surface loads
// before it swaps page markup into the measurement element.
func SurfaceDocument(head string, width float64) (string, error) {
	return executeDocument(documentData{
		Head:      template.HTML(head),
		Measure:   true,
		MeasureID: MeasureElementID,
		Width:     fmt.Sprintf("%.2f", width),
	})
}

func executeDocument(data documentData) (string, error) {
	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return buf.String(), nil
}
