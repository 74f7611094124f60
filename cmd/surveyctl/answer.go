package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Raddames-Tonui/simple-survey-client/internal/models"
	"github.com/Raddames-Tonui/simple-survey-client/internal/render"
	"github.com/Raddames-Tonui/simple-survey-client/internal/workflow"
)

// cmdAnswer drives the multi-step response workflow over stdin: one question
// per step, back/review navigation, a review screen, then submission.
func (a *app) cmdAnswer(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("answer requires a survey id")
	}
	surveyID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid survey id %q", args[0])
	}

	loaded, err := a.surveys.Load(ctx, surveyID)
	if err != nil {
		return err
	}
	if len(loaded.Questions) == 0 {
		a.notifier.Errorf("survey %d has no questions", surveyID)
		return fmt.Errorf("empty survey")
	}

	fmt.Printf("\n%s\n", loaded.Title)
	if loaded.Description != "" {
		fmt.Println(loaded.Description)
	}

	wf := workflow.New(loaded, a.surveys, a.state, a.notifier, a.logger)
	in := bufio.NewScanner(os.Stdin)

	for wf.State() != workflow.StateComplete {
		switch wf.State() {
		case workflow.StateAnswering:
			if err := a.answerStep(wf, in); err != nil {
				return err
			}
		case workflow.StateReviewing:
			if err := a.reviewStep(ctx, wf, in); err != nil {
				return err
			}
		}
	}

	fmt.Println("\nthank you for your response!")
	return nil
}

func (a *app) answerStep(wf *workflow.Workflow, in *bufio.Scanner) error {
	q := wf.Question()
	ctl := render.For(q)

	fmt.Printf("\n[%d/%d] %s", wf.Step()+1, len(wf.Questions()), ctl.Prompt)
	if ctl.Required {
		fmt.Print(" *")
	}
	fmt.Println()
	if ctl.Description != "" {
		fmt.Println(ctl.Description)
	}

	switch ctl.Input {
	case render.InputSelectOne, render.InputSelectMany:
		current := wf.Answer(q.ID)
		for i, opt := range ctl.Options {
			mark := " "
			if (ctl.Input == render.InputSelectOne && current.Text == opt) ||
				(ctl.Input == render.InputSelectMany && current.Contains(opt)) {
				mark = "x"
			}
			fmt.Printf("  [%s] %d. %s\n", mark, i+1, opt)
		}
		fmt.Println("enter an option number to select, or /next /back /review")
	case render.InputFile:
		for i, f := range wf.Files(q.ID) {
			fmt.Printf("  %d. %s\n", i+1, f.Name)
		}
		fmt.Printf("enter a path to attach a file (%s), /rm <n> to remove, or /next /back /review\n", ctl.Accept)
	default:
		if current := wf.Answer(q.ID); !current.IsZero() {
			fmt.Printf("current answer: %s\n", current.Display())
		}
		if ctl.Placeholder != "" {
			fmt.Printf("e.g. %s\n", ctl.Placeholder)
		}
		fmt.Println("enter a value, or /next /back /review")
	}

	fmt.Print("> ")
	if !in.Scan() {
		return fmt.Errorf("input closed")
	}
	line := strings.TrimSpace(in.Text())

	switch {
	case line == "/next" || line == "":
		wf.Next() // validation errors are surfaced, step stays put
		return nil
	case line == "/back":
		if err := wf.Back(); err != nil {
			a.notifier.Errorf("%v", err)
		}
		return nil
	case line == "/review":
		wf.Review()
		return nil
	case strings.HasPrefix(line, "/rm "):
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "/rm ")))
		if err != nil {
			a.notifier.Errorf("usage: /rm <n>")
			return nil
		}
		if err := wf.RemoveFile(q.ID, n-1); err != nil {
			a.notifier.Errorf("%v", err)
		}
		return nil
	}

	return a.applyInput(wf, q, ctl, line)
}

func (a *app) applyInput(wf *workflow.Workflow, q models.Question, ctl render.Control, line string) error {
	switch ctl.Input {
	case render.InputSelectOne, render.InputSelectMany:
		idx, err := strconv.Atoi(line)
		if err != nil || idx < 1 || idx > len(ctl.Options) {
			a.notifier.Errorf("enter an option number between 1 and %d", len(ctl.Options))
			return nil
		}
		value := ctl.Options[idx-1]
		if ctl.Input == render.InputSelectOne {
			answer, err := render.Normalize(q, value)
			if err != nil {
				a.notifier.Errorf("%v", err)
				return nil
			}
			return wf.SetAnswer(q.ID, answer)
		}
		answer, err := render.Toggle(q, wf.Answer(q.ID), value)
		if err != nil {
			a.notifier.Errorf("%v", err)
			return nil
		}
		return wf.SetAnswer(q.ID, answer)

	case render.InputFile:
		content, err := os.ReadFile(line)
		if err != nil {
			a.notifier.Errorf("cannot read %s: %v", line, err)
			return nil
		}
		wf.AddFiles(q.ID, models.Upload{Name: filepath.Base(line), Content: content})
		return nil

	default:
		answer, err := render.Normalize(q, line)
		if err != nil {
			a.notifier.Errorf("%v", err)
			return nil
		}
		if err := wf.SetAnswer(q.ID, answer); err != nil {
			return err
		}
		wf.Next()
		return nil
	}
}

func (a *app) reviewStep(ctx context.Context, wf *workflow.Workflow, in *bufio.Scanner) error {
	fmt.Println("\nreview your answers:")
	for _, q := range wf.Questions() {
		if q.Type == models.TypeFile {
			names := make([]string, 0, len(wf.Files(q.ID)))
			for _, f := range wf.Files(q.ID) {
				names = append(names, f.Name)
			}
			fmt.Printf("  %s: %s\n", q.Text, strings.Join(names, ", "))
			continue
		}
		fmt.Printf("  %s: %s\n", q.Text, wf.Answer(q.ID).Display())
	}

	fmt.Print("submit, edit, or quit? ")
	if !in.Scan() {
		return fmt.Errorf("input closed")
	}
	switch strings.TrimSpace(in.Text()) {
	case "submit":
		// On failure the workflow returns to review with the draft intact.
		wf.Submit(ctx)
	case "edit":
		wf.EditAnswers()
	case "quit":
		return fmt.Errorf("aborted; your draft is saved")
	}
	return nil
}

func roleFrom(s string) models.Role {
	if s == string(models.RoleAdmin) {
		return models.RoleAdmin
	}
	return models.RoleViewer
}
