package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/research-guide-api/internal/models"
	"github.com/noah-isme/research-guide-api/internal/service"
)

var errGenerationFailed = errors.New("document generation failed")

// withSession opens a session for the duration of fn.
func withSession(cmd *cobra.Command, opts *rootOptions, fn func(s *session) error) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func showCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the whole draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				if asJSON {
					payload, err := service.EncodeFormState(s.guide.Snapshot())
					if err != nil {
						return err
					}
					fmt.Fprintln(s.out, string(payload))
					return nil
				}
				renderDocument(s.out, s.guide)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stored draft payload")
	return cmd
}

func setCmd(opts *rootOptions) *cobra.Command {
	var fromStdin bool
	cmd := &cobra.Command{
		Use:   "set <field> [value...]",
		Short: "Set one field of the draft",
		Long:  "Set one field of the draft. Fields: " + joinFields() + ".",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, ok := models.ParseField(args[0])
			if !ok {
				return fmt.Errorf("unknown field %q (valid: %s)", args[0], joinFields())
			}
			value := strings.Join(args[1:], " ")
			if fromStdin {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				value = strings.TrimSuffix(string(raw), "\n")
			}
			if field == models.FieldApproach {
				if _, ok := models.ParseApproach(value); !ok {
					return fmt.Errorf("unknown approach %q (valid: %s)", value, joinApproaches())
				}
			}
			return withSession(cmd, opts, func(s *session) error {
				s.guide.SetField(field, value)
				fmt.Fprintf(s.out, "%s %s\n", SuccessStyle.Render("✓"), fieldLabels[field])
				renderProgress(s.out, s.guide.Progress())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the value from standard input")
	return cmd
}

func checkCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <key>",
		Short: "Toggle one data-collection checklist item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := models.ParseChecklistKey(args[0])
			if !ok {
				keys := make([]string, 0, len(models.ChecklistKeys))
				for _, k := range models.ChecklistKeys {
					keys = append(keys, string(k))
				}
				return fmt.Errorf("unknown checklist item %q (valid: %s)", args[0], strings.Join(keys, ", "))
			}
			return withSession(cmd, opts, func(s *session) error {
				s.guide.ToggleChecklist(key)
				renderChecklist(s.out, s.guide.Snapshot().Checklist)
				return nil
			})
		},
	}
}

func stepCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "step <id>",
		Short: "Jump to a step or panel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				s.guide.SelectStep(models.StepID(strings.TrimSpace(args[0])))
				return nil
			})
		},
	}
}

func stepsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "List the course map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				for _, step := range s.guide.Steps() {
					fmt.Fprintf(s.out, "  %-6s %s\n", step.ID, step.Title)
				}
				for _, panel := range s.guide.Panels() {
					fmt.Fprintf(s.out, "  %-6s %s\n", panel, LabelStyle.Render(panelTitles[panel]))
				}
				return nil
			})
		},
	}
}

func concludeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "conclude",
		Short: "Draft the conclusion from the other fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				s.guide.GenerateConclusion()
				return nil
			})
		},
	}
}

func exampleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Replace the draft with the sample project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				s.guide.LoadExample()
				fmt.Fprintln(s.out, "Ejemplo cargado.")
				renderProgress(s.out, s.guide.Progress())
				return nil
			})
		},
	}
}

func resetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear every field and checklist item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				s.guide.ResetAll()
				fmt.Fprintln(s.out, "Formulario reiniciado.")
				renderProgress(s.out, s.guide.Progress())
				return nil
			})
		},
	}
}

func progressCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show the completion percentage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				renderProgress(s.out, s.guide.Progress())
				return nil
			})
		},
	}
}

func generateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Render the draft as a PDF through the document service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				fb, err := s.guide.Submit(cmd.Context())
				if err != nil {
					return err
				}
				renderFeedback(s.out, s.guide.AcknowledgeFeedback())
				if fb.Status != service.StatusSucceeded {
					return errGenerationFailed
				}
				return nil
			})
		},
	}
}

func joinFields() string {
	names := make([]string, 0, len(models.Fields))
	for _, f := range models.Fields {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func joinApproaches() string {
	names := make([]string, 0, len(models.Approaches))
	for _, a := range models.Approaches {
		names = append(names, string(a))
	}
	return strings.Join(names, ", ")
}
