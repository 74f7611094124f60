package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Raddames-Tonui/simple-survey-client/internal/authoring"
	"github.com/Raddames-Tonui/simple-survey-client/internal/models"
)

// runAuthoring drives the authoring workflow over stdin: survey metadata,
// then a loop of add/move/list until the user submits or cancels. The form is
// persisted after every change, so an interrupted session resumes.
func (a *app) runAuthoring(ctx context.Context, builder *authoring.Builder, token string) error {
	in := bufio.NewScanner(os.Stdin)

	if draft := builder.Draft(); draft.Title != "" || len(draft.Questions) > 0 {
		fmt.Printf("resuming authoring draft: %q with %d question(s)\n", draft.Title, len(draft.Questions))
	}

	if v := prompt(in, fmt.Sprintf("title [%s]: ", builder.Draft().Title)); v != "" {
		builder.SetTitle(v)
	}
	if v := prompt(in, "description: "); v != "" {
		builder.SetDescription(v)
	}
	builder.SetPublished(strings.EqualFold(prompt(in, "publish now? [y/N]: "), "y"))

	for {
		fmt.Print("\nadd, move, list, submit, or cancel? ")
		if !in.Scan() {
			return fmt.Errorf("input closed")
		}
		switch cmd := strings.TrimSpace(in.Text()); {
		case cmd == "add":
			if err := a.addQuestion(builder, in); err != nil {
				a.notifier.Errorf("%v", err)
			}
		case strings.HasPrefix(cmd, "move"):
			var src, dst int
			if _, err := fmt.Sscanf(cmd, "move %d %d", &src, &dst); err != nil {
				a.notifier.Errorf("usage: move <from> <to>")
				continue
			}
			if err := builder.Move(src-1, dst-1); err != nil {
				a.notifier.Errorf("%v", err)
			}
		case cmd == "list":
			for i, q := range builder.Draft().Questions {
				star := ""
				if q.Required {
					star = " *"
				}
				fmt.Printf("  %d. %s (%s)%s\n", i+1, q.Text, q.Type, star)
			}
		case cmd == "submit":
			if _, err := builder.Submit(ctx, token); err != nil {
				continue // draft intact, user may fix and retry
			}
			return nil
		case cmd == "cancel":
			builder.Cancel()
			a.notifier.Successf("authoring draft discarded")
			return nil
		}
	}
}

func (a *app) addQuestion(builder *authoring.Builder, in *bufio.Scanner) error {
	scratch := models.QuestionDraft{
		Name: prompt(in, "name (e.g. full_name): "),
		Text: prompt(in, "text (question prompt): "),
		Type: models.QuestionType(promptDefault(in, fmt.Sprintf("type %v: ", models.QuestionTypes), string(models.TypeText))),
	}
	scratch.Description = prompt(in, "description (optional): ")
	scratch.Required = strings.EqualFold(prompt(in, "required? [y/N]: "), "y")

	if err := builder.UpdateScratch(scratch); err != nil {
		return err
	}

	if scratch.Type.HasOptions() {
		for i := 0; ; i++ {
			v := prompt(in, fmt.Sprintf("option %d (blank to finish): ", i+1))
			if v == "" {
				break
			}
			if err := builder.AddOption(); err != nil {
				return err
			}
			if err := builder.SetOption(i, v); err != nil {
				return err
			}
		}
	}

	if err := builder.AddQuestion(); err != nil {
		return err
	}
	fmt.Printf("added; %s question(s) so far\n", strconv.Itoa(len(builder.Draft().Questions)))
	return nil
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

func promptDefault(in *bufio.Scanner, label, fallback string) string {
	if v := prompt(in, label); v != "" {
		return v
	}
	return fallback
}
