package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/reviewloop-backend/internal/domain/survey"
	"github.com/yungbote/reviewloop-backend/internal/modules/intake"
)

// template is the YAML form of a survey question list.
type template struct {
	Title     string            `yaml:"title"`
	Questions []survey.Question `yaml:"questions"`
}

func newStepsCommand() *cobra.Command {
	var (
		file   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "steps",
		Short: "Validate a question template and print its step plan",
		Long: `Reads a YAML question template, checks it the way stored surveys are checked,
and prints the steps a respondent would see.

Example:
  reviewloop steps --file templates/post-visit.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read template: %w", err)
			}
			steps, err := planSteps(raw)
			if err != nil {
				return err
			}
			return printSteps(cmd.OutOrStdout(), steps, asJSON)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the YAML template")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the step plan as JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func planSteps(raw []byte) ([]survey.Step, error) {
	var tpl template
	if err := yaml.Unmarshal(raw, &tpl); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	if err := survey.ValidateSchema(tpl.Questions); err != nil {
		return nil, err
	}
	return intake.BuildSteps(tpl.Questions), nil
}

func printSteps(w io.Writer, steps []survey.Step, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(steps)
	}
	for _, st := range steps {
		fmt.Fprintf(w, "%s\n", st.ID)
		for _, q := range st.Questions {
			req := ""
			if q.Required {
				req = " (required)"
			}
			fmt.Fprintf(w, "  - %s [%s] %s%s\n", q.ID, q.Type, q.Label, req)
		}
	}
	return nil
}
