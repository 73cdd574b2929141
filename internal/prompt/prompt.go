// Package prompt turns a form submission into the natural-language
// instructions sent to the generation endpoint.
package prompt

import "fmt"

// SystemInstruction is attached to every generation call.
var SystemInstruction = `You are a historical narrative generator specializing in Palestinian history and tourism. Create concise, engaging, accurate, and respectful narratives about life and travel in Palestine across different time periods.

IMPORTANT INSTRUCTIONS:
1. Start directly with the historical narrative - do NOT include any explanatory text about what you're doing
2. Keep responses brief (150-250 words maximum) and highly specific to the time period and location mentioned
3. Focus on daily life, cultural practices, architectural features, and historical context
4. Include sensory details that transport the reader to that time and place
5. Avoid generalizations - provide specific, factual details wherever possible
6. Do not include any meta-commentary about your response or how it was generated`

const narrativeEN = `Write a short personal story (maximum 300 words) from the perspective of a %d-year-old %s named %s living in %s, Palestine in %d. The story should:
  - Be written in first person ("I")
  - Include authentic Palestinian daily life, traditions, and cultural experiences
  - Reference historical events of that time period and their personal impact
  - Mention local landmarks, foods, and customs specific to %s
  - Show family dynamics and community relationships
  - Be historically accurate while emotionally engaging
  - Highlight both challenges and moments of joy
  Write in English and keep the total length under 300 words.`

const contextEN = `Provide a brief historical context (maximum 100 words) about Palestine in %d, specifically around %s. Include key historical events, social conditions, and cultural aspects of that period. Keep it concise, informative, and historically accurate. Write in English.`

const narrativeAR = `اكتب قصة شخصية قصيرة (بحد أقصى 300 كلمة) من منظور %s يبلغ من العمر %d عامًا واسمه/ها %s يعيش في %s، فلسطين في عام %d. يجب أن تكون القصة:
  - مكتوبة بصيغة المتكلم ("أنا")
  - تتضمن الحياة اليومية الفلسطينية الأصيلة والتقاليد والتجارب الثقافية
  - تشير إلى الأحداث التاريخية في تلك الفترة وتأثيرها الشخصي
  - تذكر المعالم المحلية والأطعمة والعادات الخاصة بـ %s
  - تظهر ديناميكيات العائلة والعلاقات المجتمعية
  - دقيقة تاريخياً مع الحفاظ على التفاعل العاطفي
  - تسلط الضوء على التحديات ولحظات الفرح
  اكتب باللغة العربية واحتفظ بالطول الإجمالي أقل من 300 كلمة.`

const contextAR = `قدم سياقًا تاريخيًا موجزًا (بحد أقصى 100 كلمة) عن فلسطين في عام %d، وخاصة حول %s. اشمل الأحداث التاريخية الرئيسية والظروف الاجتماعية والجوانب الثقافية لتلك الفترة. اجعله موجزًا ومفيدًا ودقيقًا تاريخيًا. اكتب باللغة العربية.`

const analyticsEN = `Estimate historical analytics for %s, Palestine in the year %d.
Respond with a single JSON object and nothing else, using exactly this layout:
{
  "demographicData": {"Agriculture": number, "Manufacturing": number, "Services": number, "Government": number, "Other": number},
  "populationData": {"total": integer, "growth": "decimal string", "urbanRate": "decimal string"},
  "economicData": {"gdpGrowth": "decimal string", "inflation": "decimal string", "unemployment": "decimal string"}
}
demographicData holds employment share by sector in percent and must sum to 100. growth, urbanRate, gdpGrowth, inflation and unemployment are percentages with one decimal place.`

const analyticsAR = `قدّر البيانات التحليلية التاريخية لمدينة %s، فلسطين في عام %d.
أجب بكائن JSON واحد فقط دون أي نص آخر، وبالمفاتيح التالية حرفيًا:
{
  "demographicData": {"Agriculture": number, "Manufacturing": number, "Services": number, "Government": number, "Other": number},
  "populationData": {"total": integer, "growth": "decimal string", "urbanRate": "decimal string"},
  "economicData": {"gdpGrowth": "decimal string", "inflation": "decimal string", "unemployment": "decimal string"}
}
تمثل demographicData نسبة التوظيف حسب القطاع ويجب أن يكون مجموعها 100. القيم الأخرى نسب مئوية بمنزلة عشرية واحدة.`

const itineraryEN = `Create a detailed travel itinerary for %s, Palestine on %s including:
  - Hour-by-hour schedule from morning to evening
  - Popular attractions and hidden gems
  - Local restaurant recommendations with signature dishes
  - Transportation options
  - Weather-appropriate activities
  - Estimated costs in ILS and USD
  - Cultural etiquette tips
  Please format the response as a structured JSON object without any explanatory text.`

const itineraryAR = `قم بإنشاء جدول رحلة مفصل لمدينة %s، فلسطين في %s يتضمن:
  - جدول زمني ساعة بساعة
  - المعالم السياحية الشهيرة والخفية
  - توصيات المطاعم المحلية مع الأطباق المميزة
  - خيارات المواصلات
  - أنشطة مناسبة للطقس
  - التكاليف التقديرية بالشيكل والدولار
  - نصائح عن آداب وتقاليد المجتمع
  يرجى تنسيق الرد كـ JSON منظم وبدون أي نص توضيحي.`

// Prompts holds the two instructions issued for one submission.
type Prompts struct {
	Narrative string
	Context   string
}

// Build renders the narrative and historical-context prompts. The name is
// sanitized first; the remaining fields are expected to have passed
// Validate.
func Build(in FormInput, lang Language) Prompts {
	name := SanitizeName(in.Name)

	if lang == Arabic {
		return Prompts{
			Narrative: fmt.Sprintf(narrativeAR, SexLabel(in.Sex, Arabic), in.Age, name, in.City, in.Year, in.City),
			Context:   fmt.Sprintf(contextAR, in.Year, in.City),
		}
	}
	return Prompts{
		Narrative: fmt.Sprintf(narrativeEN, in.Age, in.Sex, name, in.City, in.Year, in.City),
		Context:   fmt.Sprintf(contextEN, in.Year, in.City),
	}
}

// Analytics renders the structured-output prompt for the analytics widget.
func Analytics(year int, city string, lang Language) string {
	if lang == Arabic {
		return fmt.Sprintf(analyticsAR, city, year)
	}
	return fmt.Sprintf(analyticsEN, city, year)
}

// Itinerary renders the travel-itinerary prompt for city on date.
func Itinerary(city, date string, lang Language) string {
	if lang == Arabic {
		return fmt.Sprintf(itineraryAR, city, date)
	}
	return fmt.Sprintf(itineraryEN, city, date)
}

// SexLabel renders sex the way the template for lang expects it.
func SexLabel(sex Sex, lang Language) string {
	if lang != Arabic {
		return string(sex)
	}
	if sex == Male {
		return "رجل"
	}
	return "امرأة"
}
