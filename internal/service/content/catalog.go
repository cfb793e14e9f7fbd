package content

import (
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/unicode/norm"

	"github.com/hydracat/notification-scheduler/internal/domain"
)

const (
	keyMedicationTitle     = "reminder.medication.title"
	keyFluidTitle          = "reminder.fluid.title"
	keySingleBody          = "reminder.single.body"
	keySingleFollowupTitle = "reminder.single.followup.title"
	keySingleFollowupBody  = "reminder.single.followup.body"
	keyBundleTitle         = "reminder.bundle.title"
	keyBundleBody          = "reminder.bundle.body"
	keyBundleFollowupTitle = "reminder.bundle.followup.title"
	keyBundleFollowupBody  = "reminder.bundle.followup.body"
	keyWeeklyTitle         = "summary.weekly.title"
	keyWeeklyBody          = "summary.weekly.body"
	keyMedicationWord      = "treatment.medication"
	keyFluidWord           = "treatment.fluid"
	keyDefaultPetName      = "pet.default"
)

// Arguments are always passed as (pet name, treatment count, treatment list, time slot).
var translations = map[language.Tag]map[string]catalog.Message{
	language.English: {
		keyMedicationTitle:     catalog.String("Medication time for %[1]s"),
		keyFluidTitle:          catalog.String("Fluid therapy time for %[1]s"),
		keySingleBody:          catalog.String("%[3]s is due at %[4]s."),
		keySingleFollowupTitle: catalog.String("%[1]s's treatment is still pending"),
		keySingleFollowupBody:  catalog.String("%[3]s was due at %[4]s. Log it once it's done."),
		keyBundleTitle: plural.Selectf(2, "%d",
			plural.One, "%[1]s has %[2]d treatment due",
			plural.Other, "%[1]s has %[2]d treatments due",
		),
		keyBundleBody: catalog.String("%[3]s at %[4]s."),
		keyBundleFollowupTitle: plural.Selectf(2, "%d",
			plural.One, "%[2]d treatment still pending for %[1]s",
			plural.Other, "%[2]d treatments still pending for %[1]s",
		),
		keyBundleFollowupBody: catalog.String("%[3]s were due at %[4]s."),
		keyWeeklyTitle:        catalog.String("%[1]s's week in review"),
		keyWeeklyBody:         catalog.String("See how this week's treatments went."),
		keyMedicationWord:     catalog.String("Medication"),
		keyFluidWord:          catalog.String("Fluid therapy"),
		keyDefaultPetName:     catalog.String("your cat"),
	},
	language.Spanish: {
		keyMedicationTitle:     catalog.String("Hora de la medicación de %[1]s"),
		keyFluidTitle:          catalog.String("Hora de la fluidoterapia de %[1]s"),
		keySingleBody:          catalog.String("%[3]s toca a las %[4]s."),
		keySingleFollowupTitle: catalog.String("El tratamiento de %[1]s sigue pendiente"),
		keySingleFollowupBody:  catalog.String("%[3]s tocaba a las %[4]s. Regístralo cuando esté hecho."),
		keyBundleTitle: plural.Selectf(2, "%d",
			plural.One, "%[1]s tiene %[2]d tratamiento pendiente",
			plural.Other, "%[1]s tiene %[2]d tratamientos pendientes",
		),
		keyBundleBody: catalog.String("%[3]s a las %[4]s."),
		keyBundleFollowupTitle: plural.Selectf(2, "%d",
			plural.One, "%[2]d tratamiento sigue pendiente para %[1]s",
			plural.Other, "%[2]d tratamientos siguen pendientes para %[1]s",
		),
		keyBundleFollowupBody: catalog.String("%[3]s tocaban a las %[4]s."),
		keyWeeklyTitle:        catalog.String("La semana de %[1]s"),
		keyWeeklyBody:         catalog.String("Mira cómo fueron los tratamientos de esta semana."),
		keyMedicationWord:     catalog.String("Medicación"),
		keyFluidWord:          catalog.String("Fluidoterapia"),
		keyDefaultPetName:     catalog.String("tu gato"),
	},
}

// CatalogLocalizer is the built-in English and Spanish catalog. Unknown locales
// fall back to English.
type CatalogLocalizer struct {
	catalog   *catalog.Builder
	supported []language.Tag
	matcher   language.Matcher
}

func NewCatalogLocalizer() (*CatalogLocalizer, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	supported := []language.Tag{language.English, language.Spanish}

	for _, tag := range supported {
		for key, msg := range translations[tag] {
			if err := b.Set(tag, key, msg); err != nil {
				return nil, err
			}
		}
	}

	return &CatalogLocalizer{
		catalog:   b,
		supported: supported,
		matcher:   language.NewMatcher(supported),
	}, nil
}

func (l *CatalogLocalizer) printer(locale string) *message.Printer {
	tag := language.English
	if locale != "" {
		if _, idx, conf := l.matcher.Match(language.Make(locale)); conf != language.No {
			tag = l.supported[idx]
		}
	}
	return message.NewPrinter(tag, message.Catalog(l.catalog))
}

func (l *CatalogLocalizer) Reminder(locale string, mc MessageContext) Message {
	p := l.printer(locale)
	petName := l.petName(p, mc.PetName)
	items := l.treatmentList(p, mc)
	args := []any{petName, len(mc.TreatmentTypes), items, mc.TimeSlot.String()}

	var titleKey, bodyKey string
	switch {
	case mc.Bundled() && mc.Kind == domain.KindFollowup:
		titleKey, bodyKey = keyBundleFollowupTitle, keyBundleFollowupBody
	case mc.Bundled():
		titleKey, bodyKey = keyBundleTitle, keyBundleBody
	case mc.Kind == domain.KindFollowup:
		titleKey, bodyKey = keySingleFollowupTitle, keySingleFollowupBody
	case len(mc.TreatmentTypes) == 1 && mc.TreatmentTypes[0] == domain.TreatmentFluid:
		titleKey, bodyKey = keyFluidTitle, keySingleBody
	default:
		titleKey, bodyKey = keyMedicationTitle, keySingleBody
	}

	return Message{
		Title: p.Sprintf(titleKey, args...),
		Body:  p.Sprintf(bodyKey, args...),
	}
}

func (l *CatalogLocalizer) WeeklySummary(locale, petName string) Message {
	p := l.printer(locale)
	return Message{
		Title: p.Sprintf(keyWeeklyTitle, l.petName(p, petName)),
		Body:  p.Sprintf(keyWeeklyBody),
	}
}

func (l *CatalogLocalizer) petName(p *message.Printer, name string) string {
	name = strings.TrimSpace(norm.NFC.String(name))
	if name == "" {
		return p.Sprintf(keyDefaultPetName)
	}
	return name
}

// treatmentList prefers schedule names and falls back to the localized treatment type.
func (l *CatalogLocalizer) treatmentList(p *message.Printer, mc MessageContext) string {
	items := make([]string, 0, len(mc.TreatmentTypes))
	for i, t := range mc.TreatmentTypes {
		if i < len(mc.ScheduleNames) && strings.TrimSpace(mc.ScheduleNames[i]) != "" {
			items = append(items, norm.NFC.String(strings.TrimSpace(mc.ScheduleNames[i])))
			continue
		}
		if t == domain.TreatmentFluid {
			items = append(items, p.Sprintf(keyFluidWord))
		} else {
			items = append(items, p.Sprintf(keyMedicationWord))
		}
	}
	return strings.Join(items, ", ")
}
