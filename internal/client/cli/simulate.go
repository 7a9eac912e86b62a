package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/medcasegen/internal/client/client"
	"github.com/dmitrijs2005/medcasegen/internal/client/models"
)

const (
	chatEnd   = "/fin"
	chatLeave = "/quitter"
)

func (a *App) Cases(ctx context.Context) error {
	if !a.isLoggedIn(ctx) {
		return errNotLoggedIn
	}

	list, err := a.api.ListCases(ctx)
	if err != nil {
		return a.describe(ctx, err, "Session expirée. Veuillez vous reconnecter.")
	}
	if len(list) == 0 {
		printlnFn("Aucun cas clinique disponible.")
		return nil
	}
	for _, c := range list {
		printlnFn(fmt.Sprintf("  %s  %s%s", c.ID, c.Title, patientLine(c.Age, c.Sexe)))
	}
	return nil
}

func patientLine(age int, sexe string) string {
	var parts []string
	if age > 0 {
		parts = append(parts, fmt.Sprintf("%d ans", age))
	}
	if sexe != "" {
		parts = append(parts, sexe)
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func (a *App) Case(ctx context.Context, args []string) error {
	if !a.isLoggedIn(ctx) {
		return errNotLoggedIn
	}
	if len(args) == 0 {
		return errors.New("Usage : case <id>")
	}

	c, err := a.api.GetCase(ctx, args[0])
	if err != nil {
		return a.describe(ctx, err, "Session expirée. Veuillez vous reconnecter.")
	}

	printlnFn(c.Title + patientLine(c.Age, c.Sexe))
	for _, line := range []struct{ label, value string }{
		{"Résumé", c.Summary},
		{"Motif de consultation", c.MotifConsultation},
		{"Objectifs", c.LearningObjectives},
	} {
		if line.value != "" {
			printlnFn(line.label, ":", line.value)
		}
	}
	return nil
}

// Simulate opens or resumes a simulation on the case given as first
// argument and runs the chat until the learner types /fin or /quitter.
func (a *App) Simulate(ctx context.Context, args []string) error {
	if !a.isLoggedIn(ctx) {
		return errNotLoggedIn
	}
	if len(args) == 0 {
		return errors.New("Usage : simulate <id du cas>")
	}

	sim, created, err := a.api.StartSimulation(ctx, args[0])
	if err != nil {
		return a.describe(ctx, err, "Session expirée. Veuillez vous reconnecter.")
	}

	if created {
		printlnFn("Nouvelle simulation :", sim.Case.Title)
	} else {
		printlnFn("Reprise de la simulation :", sim.Case.Title)
		for _, m := range sim.Messages {
			printMessage(m)
		}
	}
	printlnFn(fmt.Sprintf("Posez vos questions au patient. '%s' termine la simulation, '%s' la met en pause.", chatEnd, chatLeave))

	return a.chat(ctx, sim)
}

func printMessage(m models.ChatMessage) {
	switch m.Sender {
	case models.SenderLearner:
		printlnFn("vous >", m.Content)
	case models.SenderPatient:
		printlnFn("patient >", m.Content)
	default:
		printlnFn("*", m.Content)
	}
}

func (a *App) chat(ctx context.Context, sim *models.Simulation) error {
	for {
		printlnFn("vous > ")
		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			return nil
		}

		switch text := strings.TrimSpace(line); text {
		case "":
			continue

		case chatLeave:
			printlnFn(fmt.Sprintf("Simulation en pause. Reprenez-la avec 'simulate %s'.", sim.Case.ID))
			return nil

		case chatEnd:
			if _, err := a.api.EndSimulation(ctx, sim.ID); err != nil {
				return a.describe(ctx, err, "Session expirée. Veuillez vous reconnecter.")
			}
			printlnFn("Simulation terminée.")
			return nil

		default:
			reply, err := a.api.SendMessage(ctx, sim.ID, text)
			if err != nil {
				if errors.Is(err, client.ErrInvalidInput) {
					printlnFn("Erreur :", a.describe(ctx, err, ""))
					continue
				}
				return a.describe(ctx, err, "Session expirée. Veuillez vous reconnecter.")
			}
			printMessage(*reply)
		}
	}
}

func (a *App) Sessions(ctx context.Context) error {
	if !a.isLoggedIn(ctx) {
		return errNotLoggedIn
	}

	list, err := a.api.ListSimulations(ctx)
	if err != nil {
		return a.describe(ctx, err, "Session expirée. Veuillez vous reconnecter.")
	}
	if len(list) == 0 {
		printlnFn("Aucune simulation.")
		return nil
	}
	for _, s := range list {
		state := "en cours"
		if s.Status != models.SimulationInProgress {
			state = "terminée"
		}
		printlnFn(fmt.Sprintf("  %s  %s  %s  %s", s.ID, s.Case.Title, state, s.StartTime.Local().Format("2006-01-02 15:04")))
	}
	return nil
}
