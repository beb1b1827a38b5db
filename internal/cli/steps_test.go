package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/reviewloop-backend/internal/domain/survey"
)

const postVisit = `
title: Post-visit
questions:
  - id: stars
    type: star-1-5
    label: Rate your visit
  - id: nps
    type: score-0-10
    label: How likely are you to recommend us?
    required: true
  - id: notes
    type: free-text
    label: Anything else?
  - id: again
    type: yes-no
    label: Would you come back?
`

func writeTemplate(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestStepsCommandPrintsPlan(t *testing.T) {
	path := writeTemplate(t, postVisit)
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"steps", "--file", path})
	require.NoError(t, cmd.Execute())

	got := out.String()
	assert.Contains(t, got, "step-0\n  - nps [score-0-10] How likely are you to recommend us? (required)\n")
	assert.Contains(t, got, "step-1\n  - stars [star-1-5] Rate your visit\n  - again [yes-no] Would you come back?\n")
	assert.Contains(t, got, "step-2\n  - notes [free-text] Anything else?\n")
}

func TestStepsCommandJSON(t *testing.T) {
	path := writeTemplate(t, postVisit)
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"steps", "-f", path, "--json"})
	require.NoError(t, cmd.Execute())

	var steps []survey.Step
	require.NoError(t, json.Unmarshal(out.Bytes(), &steps))
	require.Len(t, steps, 3)
	assert.Equal(t, "nps", steps[0].Questions[0].ID)
}

func TestStepsCommandRejectsBadTemplate(t *testing.T) {
	path := writeTemplate(t, "questions:\n  - id: a\n    type: slider\n")
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"steps", "--file", path})
	assert.Error(t, cmd.Execute())
}

func TestStepsCommandRequiresFile(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"steps"})
	assert.Error(t, cmd.Execute())
}
