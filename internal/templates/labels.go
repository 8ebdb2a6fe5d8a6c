package templates

// Display strings used by every layout.
const (
	ContinuedSuffix = " (تابع)"
	PageLabel       = "صفحة"
	DefaultName     = "CV"
	AgeLabel        = "العمر:"
	AgeUnit         = " سنة"
	BirthDateLabel  = "تاريخ الميلاد:"
	SocialLabel     = "الحالة:"
	MilitaryLabel   = "التجنيد:"
	LinkedInLabel   = "LinkedIn"
	NamePlaceholder = "الاسم الكامل"
	JobPlaceholder  = "المسمى الوظيفي"
)

// sectionTitles are the per-layout section headings.
type sectionTitles struct {
	Personal   string
	Contact    string
	Skills     string
	Languages  string
	Summary    string
	Experience string
	Education  string
	LifeExp    string
	Projects   string
}

var modernTitles = sectionTitles{
	Personal:   "المعلومات الشخصية",
	Contact:    "التواصل",
	Skills:     "المهارات",
	Languages:  "اللغات",
	Summary:    "النبذة الشخصية",
	Experience: "الخبرة العملية",
	Education:  "التعليم",
	LifeExp:    "خبرات حياتية",
	Projects:   "المشاريع",
}

var classicTitles = sectionTitles{
	Personal:   "معلومات",
	Contact:    "التواصل",
	Skills:     "المهارات",
	Languages:  "اللغات",
	Summary:    "عني",
	Experience: "التاريخ المهني",
	Education:  "التعليم",
	LifeExp:    "خبرات حياتية",
	Projects:   "المشاريع",
}

var creativeTitles = sectionTitles{
	Personal:   "معلومات",
	Contact:    "التواصل",
	Skills:     "المهارات",
	Languages:  "اللغات",
	Summary:    "نبذة",
	Experience: "القصة المهنية",
	Education:  "التعليم",
	LifeExp:    "خبرات حياتية",
	Projects:   "المشاريع المختارة",
}
