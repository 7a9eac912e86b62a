package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/medcasegen/internal/devapi/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PatientResponder answers a learner's question in the voice of the patient
// of a clinical case.
type PatientResponder interface {
	Respond(ctx context.Context, c *models.ClinicalCase, history []models.ChatMessage, question string) (string, error)
}

const (
	defaultOpening = "Bonjour docteur, je ne me sens pas très bien."
	noData         = "Non, rien de particulier."
	fallback       = "Je ne sais pas trop, docteur. Pouvez-vous reformuler ?"
)

// ScriptedResponder answers from the case record using keyword rules. It
// never discloses the diagnoses.
type ScriptedResponder struct {
	rules []rule
}

type rule struct {
	exact    []string
	prefixes []string
	answer   func(c *models.ClinicalCase) string
}

func NewScriptedResponder() *ScriptedResponder {
	return &ScriptedResponder{rules: []rule{
		{prefixes: []string{"allerg"}, answer: allergies},
		{prefixes: []string{"famil", "parent"}, exact: []string{"pere", "mere"}, answer: familyHistory},
		{prefixes: []string{"antecedent", "maladie", "operat", "chirurg", "hospital"}, answer: pastHistory},
		{prefixes: []string{"traitement", "medicament", "cachet"}, exact: []string{"prenez"}, answer: treatments},
		{prefixes: []string{"depuis", "quand", "commenc"}, answer: onset},
		{prefixes: []string{"douleur", "symptom", "ressen"}, exact: []string{"mal", "sentez"}, answer: symptoms},
		{exact: []string{"age", "ans"}, answer: age},
		{prefixes: []string{"motif", "amene", "raison"}, exact: []string{"pourquoi", "venu", "venue"}, answer: motive},
		{prefixes: []string{"travail", "metier", "profession"}, answer: profession},
		{prefixes: []string{"enfant"}, answer: children},
		{prefixes: []string{"marie", "celibat", "epou", "civil"}, answer: maritalStatus},
		{prefixes: []string{"sanguin"}, exact: []string{"sang"}, answer: bloodGroup},
	}}
}

func (r *ScriptedResponder) Respond(_ context.Context, c *models.ClinicalCase, history []models.ChatMessage, question string) (string, error) {
	words := tokenize(question)

	for _, rl := range r.rules {
		if matches(words, rl) {
			return rl.answer(c), nil
		}
	}

	if matches(words, rule{exact: []string{"bonjour", "bonsoir", "salut"}}) {
		if hasPatientMessage(history) {
			return "Bonjour docteur.", nil
		}
		if c.InitialStatement != "" {
			return c.InitialStatement, nil
		}
		return defaultOpening, nil
	}
	return fallback, nil
}

// tokenize lowercases s, strips accents and splits it into words.
func tokenize(s string) []string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.FieldsFunc(strings.ToLower(folded), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func matches(words []string, rl rule) bool {
	for _, w := range words {
		for _, e := range rl.exact {
			if w == e {
				return true
			}
		}
		for _, p := range rl.prefixes {
			if strings.HasPrefix(w, p) {
				return true
			}
		}
	}
	return false
}

func hasPatientMessage(history []models.ChatMessage) bool {
	for _, m := range history {
		if m.Sender == models.SenderPatient {
			return true
		}
	}
	return false
}

func historyOf(c *models.ClinicalCase, keep func(t string) bool) []string {
	var out []string
	for _, h := range c.History {
		if keep(h.Type) && h.Description != "" {
			out = append(out, h.Description)
		}
	}
	return out
}

func allergies(c *models.ClinicalCase) string {
	list := historyOf(c, func(t string) bool { return t == models.HistoryAllergy })
	if len(list) == 0 {
		return "Non, je n'ai pas d'allergie connue."
	}
	return "Oui, je suis allergique : " + strings.Join(list, ", ") + "."
}

func familyHistory(c *models.ClinicalCase) string {
	list := historyOf(c, func(t string) bool { return t == models.HistoryFamily })
	if len(list) == 0 {
		return "Non, rien de particulier dans ma famille."
	}
	return "Dans ma famille : " + strings.Join(list, ", ") + "."
}

func pastHistory(c *models.ClinicalCase) string {
	list := historyOf(c, func(t string) bool {
		return t != models.HistoryFamily && t != models.HistoryAllergy
	})
	if len(list) == 0 {
		return noData
	}
	return "J'ai eu : " + strings.Join(list, ", ") + "."
}

func treatments(c *models.ClinicalCase) string {
	var list []string
	for _, t := range c.Treatments {
		if t.Nom == "" {
			continue
		}
		if t.Posologie != "" {
			list = append(list, fmt.Sprintf("%s (%s)", t.Nom, t.Posologie))
		} else {
			list = append(list, t.Nom)
		}
	}
	if len(list) == 0 {
		return "Non, je ne prends aucun traitement."
	}
	return "Je prends " + strings.Join(list, ", ") + "."
}

func onset(c *models.ClinicalCase) string {
	for _, s := range c.Symptoms {
		if s.DateDebut != "" {
			return "Depuis " + s.DateDebut + "."
		}
	}
	return "Je ne saurais pas dire exactement."
}

func symptoms(c *models.ClinicalCase) string {
	var list []string
	for _, s := range c.Symptoms {
		if s.Nom == "" {
			continue
		}
		parts := []string{s.Nom}
		if s.Localisation != "" {
			parts = append(parts, s.Localisation)
		}
		if s.DateDebut != "" {
			parts = append(parts, "depuis "+s.DateDebut)
		}
		if s.Degre > 0 {
			parts = append(parts, fmt.Sprintf("intensité %d/10", s.Degre))
		}
		list = append(list, strings.Join(parts, ", "))
	}
	if len(list) == 0 {
		return noData
	}
	return "Je ressens : " + strings.Join(list, " ; ") + "."
}

func age(c *models.ClinicalCase) string {
	if c.Age <= 0 {
		return "Je préfère ne pas le dire."
	}
	return fmt.Sprintf("J'ai %d ans.", c.Age)
}

func motive(c *models.ClinicalCase) string {
	switch {
	case c.MotifConsultation != "":
		return "Je viens pour " + c.MotifConsultation + "."
	case c.InitialStatement != "":
		return c.InitialStatement
	}
	return defaultOpening
}

func profession(c *models.ClinicalCase) string {
	if c.Profession == "" {
		return "Je ne travaille pas en ce moment."
	}
	return "Je suis " + c.Profession + "."
}

func children(c *models.ClinicalCase) string {
	switch c.NombreEnfant {
	case 0:
		return "Je n'ai pas d'enfant."
	case 1:
		return "J'ai un enfant."
	}
	return fmt.Sprintf("J'ai %d enfants.", c.NombreEnfant)
}

func maritalStatus(c *models.ClinicalCase) string {
	if c.EtatCivil == "" {
		return noData
	}
	return "Je suis " + c.EtatCivil + "."
}

func bloodGroup(c *models.ClinicalCase) string {
	if c.GroupeSanguin == "" {
		return "Je ne connais pas mon groupe sanguin."
	}
	return "Mon groupe sanguin est " + c.GroupeSanguin + "."
}
