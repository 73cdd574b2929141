package view

import (
	"fmt"

	"github.com/sozercan/palestine-timeline/internal/prompt"
)

// Labels holds every user-visible string of the page for one language.
type Labels struct {
	Lang string
	Dir  string

	Title          string
	SwitchLanguage string
	Name           string
	Age            string
	Gender         string
	Male           string
	Female         string
	City           string
	Year           string
	Travel         string

	Narrative         string
	HistoricalContext string
	ReadMore          string
	ShowLess          string
	Download          string
	Placeholder       string
	Generating        string

	EmploymentBySector   string
	PopulationStatistics string
	TotalPopulation      string
	AnnualGrowth         string
	UrbanizationRate     string
	EconomicIndicators   string
	GDPGrowth            string
	Inflation            string
	Unemployment         string
	Estimated            string

	words     string
	analytics string
}

var labels = map[prompt.Language]Labels{
	prompt.English: {
		Lang:           "en",
		Dir:            "ltr",
		Title:          "Palestinian Time Travel Simulator",
		SwitchLanguage: "العربية",
		Name:           "Name",
		Age:            "Age",
		Gender:         "Gender",
		Male:           "Male",
		Female:         "Female",
		City:           "City",
		Year:           "Year",
		Travel:         "Travel",

		Narrative:         "Time Travel Narrative",
		HistoricalContext: "Historical Context",
		ReadMore:          "Read more",
		ShowLess:          "Show less",
		Download:          "Download",
		Placeholder:       "Fill out the form to generate your time travel narrative",
		Generating:        "Generating your narrative...",

		EmploymentBySector:   "Employment by Sector",
		PopulationStatistics: "Population Statistics",
		TotalPopulation:      "Total Population",
		AnnualGrowth:         "Annual Growth",
		UrbanizationRate:     "Urbanization Rate",
		EconomicIndicators:   "Economic Indicators",
		GDPGrowth:            "GDP Growth",
		Inflation:            "Inflation",
		Unemployment:         "Unemployment",
		Estimated:            "Estimated figures: the model did not return usable data.",

		words:     "%d words",
		analytics: "%s Analytics (%d)",
	},
	prompt.Arabic: {
		Lang:           "ar",
		Dir:            "rtl",
		Title:          "محاكي السفر عبر الزمن الفلسطيني",
		SwitchLanguage: "English",
		Name:           "الاسم",
		Age:            "العمر",
		Gender:         "الجنس",
		Male:           "ذكر",
		Female:         "أنثى",
		City:           "المدينة",
		Year:           "السنة",
		Travel:         "سافر",

		Narrative:         "السرد الزمني",
		HistoricalContext: "السياق التاريخي",
		ReadMore:          "قراءة المزيد",
		ShowLess:          "عرض أقل",
		Download:          "تنزيل",
		Placeholder:       "املأ النموذج لإنشاء سردك للسفر عبر الزمن",
		Generating:        "جارٍ إنشاء السرد...",

		EmploymentBySector:   "التوظيف حسب القطاع",
		PopulationStatistics: "إحصائيات السكان",
		TotalPopulation:      "إجمالي السكان",
		AnnualGrowth:         "النمو السنوي",
		UrbanizationRate:     "معدل التحضر",
		EconomicIndicators:   "المؤشرات الاقتصادية",
		GDPGrowth:            "نمو الناتج المحلي",
		Inflation:            "التضخم",
		Unemployment:         "البطالة",
		Estimated:            "أرقام تقديرية: لم يُرجع النموذج بيانات صالحة.",

		words:     "%d كلمة",
		analytics: "تحليلات %s (%d)",
	},
}

// LabelsFor returns the labels of lang, English for anything unknown.
func LabelsFor(lang prompt.Language) Labels {
	if l, ok := labels[lang]; ok {
		return l
	}
	return labels[prompt.English]
}

func (l Labels) RTL() bool {
	return l.Dir == "rtl"
}

func (l Labels) Words(n int) string {
	return fmt.Sprintf(l.words, n)
}

func (l Labels) AnalyticsTitle(city string, year int) string {
	return fmt.Sprintf(l.analytics, city, year)
}

// Other is the language the page offers to switch to.
func (l Labels) Other() string {
	if l.RTL() {
		return string(prompt.English)
	}
	return string(prompt.Arabic)
}

// Sector translates a demographic sector name. Unknown names pass through.
func (l Labels) Sector(name string) string {
	if l.Lang != string(prompt.Arabic) {
		return name
	}
	if s, ok := arabicSectors[name]; ok {
		return s
	}
	return name
}

var arabicSectors = map[string]string{
	"Agriculture":   "الزراعة",
	"Manufacturing": "الصناعة",
	"Services":      "الخدمات",
	"Government":    "الحكومة",
	"Other":         "أخرى",
}
