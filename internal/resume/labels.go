package resume

var socialStatusLabels = map[SocialStatus]string{
	SocialSingle:   "أعزب",
	SocialMarried:  "متزوج",
	SocialDivorced: "مطلق",
	SocialWidowed:  "أرمل",
}

var militaryStatusLabels = map[MilitaryStatus]string{
	MilitaryExempted:    "إعفاء نهائي",
	MilitaryPostponed:   "تأجيل",
	MilitaryCompleted:   "أدى الخدمة",
	MilitaryNotRequired: "غير مطلوب",
}

// SocialStatusLabel returns the display label, or the raw value when unknown.
func SocialStatusLabel(s SocialStatus) string {
	if label, ok := socialStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// MilitaryStatusLabel returns the display label, or the raw value when unknown.
func MilitaryStatusLabel(s MilitaryStatus) string {
	if label, ok := militaryStatusLabels[s]; ok {
		return label
	}
	return string(s)
}
