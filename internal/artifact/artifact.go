// Package artifact fixes the on-disk layout of the workspace: where mined
// bug records, heuristics, model outputs, and results live, plus typed JSON
// read/write helpers shared by every command.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Layout resolves workspace paths under a single root directory.
type Layout struct {
	Root string
}

// BugFile returns data/<project>/bug_<id>.json.
func (l Layout) BugFile(project, bugID string) string {
	return filepath.Join(l.Root, "data", project, bugFilename(bugID))
}

// HeuristicFile returns heuristics/<type>/<project>/bug_<id>.json. The
// heuristic name is lowercased for the directory, matching the mined layout.
func (l Layout) HeuristicFile(heuristic, project, bugID string) string {
	return filepath.Join(l.Root, "heuristics", strings.ToLower(heuristic), project, bugFilename(bugID))
}

// OutputFile returns outputs/<experiment>/[<style>/]<project>/bug_<id>.json.
// Style is empty for experiments that do not fan out per prompt style.
func (l Layout) OutputFile(experiment, style, project, bugID string) string {
	parts := []string{l.Root, "outputs", experiment}
	if style != "" {
		parts = append(parts, strings.ToLower(style))
	}
	parts = append(parts, project, bugFilename(bugID))
	return filepath.Join(parts...)
}

// ResultsDir returns the results directory.
func (l Layout) ResultsDir() string {
	return filepath.Join(l.Root, "results")
}

// ResultFile returns results/<experiment>_<project>_bug_<id>.json.
func (l Layout) ResultFile(experiment, project, bugID string) string {
	return filepath.Join(l.ResultsDir(), fmt.Sprintf("%s_%s_%s", experiment, project, bugFilename(bugID)))
}

// AggregateFile returns results/aggregated_results.json.
func (l Layout) AggregateFile() string {
	return filepath.Join(l.ResultsDir(), "aggregated_results.json")
}

func bugFilename(bugID string) string {
	return fmt.Sprintf("bug_%s.json", bugID)
}

// ReadJSON reads a typed JSON artifact. A missing file yields (nil, nil) so
// callers can treat absence as "not yet produced".
func ReadJSON[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read artifact %s: %w", filepath.Base(path), err)
	}
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parse artifact %s: %w", filepath.Base(path), err)
	}
	return &result, nil
}

// WriteJSON writes a typed JSON artifact, creating parent directories.
func WriteJSON(path string, data any) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("write artifact %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("write artifact %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Walk visits every bug_<id>.json under dir, grouped as project directories,
// calling fn with the project name and full file path. Projects and files are
// visited in sorted order. A missing dir is not an error; there is simply
// nothing to visit.
func Walk(dir string, fn func(project, path string) error) error {
	projects, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("walk %s: %w", dir, err)
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].Name() < projects[j].Name() })
	for _, p := range projects {
		if !p.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(dir, p.Name()))
		if err != nil {
			return fmt.Errorf("walk %s: %w", dir, err)
		}
		sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })
		for _, f := range files {
			if f.IsDir() || !strings.HasPrefix(f.Name(), "bug_") || !strings.HasSuffix(f.Name(), ".json") {
				continue
			}
			if err := fn(p.Name(), filepath.Join(dir, p.Name(), f.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}
