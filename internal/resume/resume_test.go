package resume

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLevelDecoding(t *testing.T) {
	cases := []struct {
		raw  string
		want Level
	}{
		{`80`, 80},
		{`"65"`, 65},
		{`" 42.7 "`, 42},
		{`""`, 0},
		{`null`, 0},
		{`120`, 120},
	}
	for _, tc := range cases {
		var l Level
		if err := json.Unmarshal([]byte(tc.raw), &l); err != nil {
			t.Fatalf("decode %s: %v", tc.raw, err)
		}
		if l != tc.want {
			t.Fatalf("decode %s = %d, want %d", tc.raw, l, tc.want)
		}
	}

	var l Level
	if err := json.Unmarshal([]byte(`"abc"`), &l); err == nil {
		t.Fatal("expected error for non-numeric string")
	}
}

func TestLevelClamped(t *testing.T) {
	if Level(-5).Clamped() != 0 || Level(150).Clamped() != 100 || Level(55).Clamped() != 55 {
		t.Fatal("Clamped did not limit to 0..100")
	}
}

func TestBlankEntries(t *testing.T) {
	if !(Experience{Company: "  "}).IsBlank() {
		t.Fatal("whitespace-only experience should be blank")
	}
	if (Education{Date: "2020"}).IsBlank() {
		t.Fatal("education with a date is not blank")
	}
	if !(Skill{Level: 90}).IsBlank() {
		t.Fatal("skill without a name is blank")
	}
}

func TestParseTemplate(t *testing.T) {
	got, err := ParseTemplate(" Classic ")
	if err != nil || got != TemplateClassic {
		t.Fatalf("ParseTemplate = %q, %v", got, err)
	}
	if _, err := ParseTemplate("fancy"); !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
}

func TestIsHexColor(t *testing.T) {
	for _, ok := range []string{"#abc", "#A1B2C3", " #123456 "} {
		if !IsHexColor(ok) {
			t.Fatalf("%q should be a hex colour", ok)
		}
	}
	for _, bad := range []string{"abc", "#abcd", "#ggg", "red", ""} {
		if IsHexColor(bad) {
			t.Fatalf("%q should not be a hex colour", bad)
		}
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	s := Snapshot{Preferences: Preferences{Template: "bogus", Theme: "green", CustomColor: "#fff"}}
	s.Normalize()

	if s.Template != TemplateModern {
		t.Fatalf("template = %q", s.Template)
	}
	if s.Theme != "green" || s.CustomColor != "" {
		t.Fatalf("theme = %q custom = %q", s.Theme, s.CustomColor)
	}
	if s.Typography != DefaultPreferences().Typography {
		t.Fatalf("typography = %+v", s.Typography)
	}

	custom := Snapshot{Preferences: Preferences{Theme: CustomTheme, CustomColor: "#ff0000"}}
	custom.Normalize()
	if custom.CustomColor != "#ff0000" {
		t.Fatalf("custom colour dropped: %+v", custom.Preferences)
	}
}

func TestNormalizeCanonicalisesTemplate(t *testing.T) {
	s := Snapshot{Preferences: Preferences{Template: " MODERN "}}
	s.Normalize()
	if s.Template != TemplateModern {
		t.Fatalf("template = %q, want %q", s.Template, TemplateModern)
	}
}

func TestDefaultSnapshot(t *testing.T) {
	s := DefaultSnapshot()
	if len(s.Experience) != 1 || len(s.Education) != 1 {
		t.Fatalf("expected one blank experience and education, got %+v", s.Record)
	}
	if s.Template != TemplateModern || s.Theme != DefaultTheme {
		t.Fatalf("unexpected preferences %+v", s.Preferences)
	}
}

func TestSnapshotJSONIsFlat(t *testing.T) {
	s := DefaultSnapshot()
	s.Name = "Sara"
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["name"] != "Sara" || m["template"] != "modern" {
		t.Fatalf("expected flat keys, got %v", m)
	}
}

func TestDecode(t *testing.T) {
	raw := []byte(`{
		"name": "Omar",
		"skills": [{"name": "Go", "level": "85"}, {"name": "SQL", "level": 70}],
		"template": "creative",
		"typography": {"fontFamily": "Tajawal", "fontSize": 110, "color": "#222"}
	}`)
	s, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Name != "Omar" || s.Template != TemplateCreative {
		t.Fatalf("unexpected snapshot %+v", s)
	}
	if len(s.Skills) != 2 || s.Skills[0].Level != 85 || s.Skills[1].Level != 70 {
		t.Fatalf("skills = %+v", s.Skills)
	}
	if s.Theme != DefaultTheme {
		t.Fatalf("theme default not applied: %q", s.Theme)
	}
}

func TestDecodeRejectsSchemaViolations(t *testing.T) {
	bad := []string{
		`{"template": "fancy"}`,
		`{"skills": "Go"}`,
		`{"typography": {"fontSize": 500}}`,
		`{"photo": "http://example.com/me.png"}`,
		`[]`,
	}
	for _, raw := range bad {
		if _, err := Decode([]byte(raw)); !errors.Is(err, ErrInvalidSnapshot) {
			t.Fatalf("Decode(%s) = %v, want ErrInvalidSnapshot", raw, err)
		}
	}
}

func TestStatusLabels(t *testing.T) {
	if SocialStatusLabel(SocialMarried) != "متزوج" {
		t.Fatalf("married label = %q", SocialStatusLabel(SocialMarried))
	}
	if MilitaryStatusLabel("other") != "other" {
		t.Fatal("unknown status should fall back to its raw value")
	}
}

func TestDecodeKeepsOutOfRangeLevels(t *testing.T) {
	raw := []byte(`{"skills": [
		{"name": "a", "level": 150},
		{"name": "b", "level": "150"},
		{"name": "c", "level": -3},
		{"name": "d", "level": "-3"}
	]}`)
	s, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []Level{150, 150, -3, -3}
	for i, sk := range s.Skills {
		if sk.Level != want[i] {
			t.Fatalf("skill %s level = %d, want %d", sk.Name, sk.Level, want[i])
		}
	}
	if s.Skills[0].Level.Clamped() != 100 || s.Skills[3].Level.Clamped() != 0 {
		t.Fatal("out-of-range levels should clamp when rendered")
	}
}

func TestPhotoDataURI(t *testing.T) {
	uri, err := PhotoDataURI([]byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"))
	if err != nil {
		t.Fatalf("PhotoDataURI: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/gif;base64,R0lGODlh") {
		t.Fatalf("uri = %q", uri)
	}
	if err := Validate([]byte(`{"photo": "` + uri + `"}`)); err != nil {
		t.Fatalf("encoded photo fails the schema: %v", err)
	}

	bad := [][]byte{
		nil,
		[]byte("%PDF-1.4 not a picture"),
		append([]byte("GIF89a"), bytes.Repeat([]byte{0}, MaxPhotoBytes)...),
	}
	for _, raw := range bad {
		if _, err := PhotoDataURI(raw); !errors.Is(err, ErrInvalidSnapshot) {
			t.Fatalf("PhotoDataURI(%.12q) = %v, want ErrInvalidSnapshot", raw, err)
		}
	}
}
