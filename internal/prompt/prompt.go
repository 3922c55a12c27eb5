// Package prompt builds the text prompts sent to the repair model. Three
// baseline styles present the buggy function with increasing localization
// (plain instruction, labeled line, masked line); heuristic prompts present
// the before/after lines plus an externally supplied localization hint.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Baseline prompt styles.
const (
	StyleInstruction      = "Instruction"
	StyleInstructionLabel = "InstructionLabel"
	StyleInstructionMask  = "InstructionMask"
)

// BaselineStyles lists the baseline styles in their canonical order.
var BaselineStyles = []string{StyleInstruction, StyleInstructionLabel, StyleInstructionMask}

const instructionTmpl = `You are given a Python function with a bug.
The buggy line is line {{.BuggyLine}} in the function below.
Fix the bug and return ONLY the fixed function code.

{{.FuncCode}}`

const labelTmpl = `The buggy line is marked with <BUGGY LINE>.
Fix the bug and return ONLY the fixed function code.

{{.FuncCode}}`

const maskTmpl = `The buggy line is masked as <FILL ME>.
Replace it with the correct code.
Return ONLY the fixed function.

{{.FuncCode}}`

type baselineParams struct {
	FuncCode  string
	BuggyLine int
}

// fill executes an inline template with the given params.
func fill(name, tmplStr string, params any) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Baseline builds the prompt for one baseline style from the buggy function
// body and the 1-based buggy line number.
func Baseline(style, funcCode string, buggyLine int) (string, error) {
	switch style {
	case StyleInstruction:
		return fill(style, instructionTmpl, baselineParams{FuncCode: funcCode, BuggyLine: buggyLine})
	case StyleInstructionLabel:
		return fill(style, labelTmpl, baselineParams{FuncCode: labelLine(funcCode, buggyLine)})
	case StyleInstructionMask:
		return fill(style, maskTmpl, baselineParams{FuncCode: maskLine(funcCode, buggyLine)})
	default:
		return "", fmt.Errorf("unknown baseline style %q", style)
	}
}

// labelLine appends the buggy-line marker to line buggyLine (1-based).
func labelLine(funcCode string, buggyLine int) string {
	lines := strings.Split(funcCode, "\n")
	for i := range lines {
		if i+1 == buggyLine {
			lines[i] += "  # <BUGGY LINE>"
		}
	}
	return strings.Join(lines, "\n")
}

// maskLine replaces line buggyLine (1-based) with an indentation-preserving
// fill marker.
func maskLine(funcCode string, buggyLine int) string {
	lines := strings.Split(funcCode, "\n")
	for i := range lines {
		if i+1 == buggyLine {
			indent := lines[i][:len(lines[i])-len(strings.TrimLeft(lines[i], " \t"))]
			lines[i] = indent + "<FILL ME>"
		}
	}
	return strings.Join(lines, "\n")
}
