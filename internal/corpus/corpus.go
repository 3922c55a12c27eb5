// Package corpus walks a BugsInPy-style bug-tracking corpus and mines
// single-line bug records from it. Layout on disk:
//
//	<root>/projects/<project>/bugs/<id>/bug.info
//	<root>/projects/<project>/bugs/<id>/bug_patch.txt
//
// Every failure inside one bug's processing converts to a skip with a reason;
// only a corpus with no projects at all is a terminal error.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"linefix/internal/logging"
	"linefix/internal/patch"
)

// Skip records one bug excluded from mining, with the reason.
type Skip struct {
	Project string `json:"project"`
	BugID   string `json:"bug_id"`
	Reason  string `json:"reason"`
}

// MineResult is the outcome of one corpus walk.
type MineResult struct {
	Records []patch.BugRecord
	Skips   []Skip
}

// Corpus reads bugs from a root directory.
type Corpus struct {
	root string
}

// New returns a Corpus rooted at dir. The directory must contain a projects/
// subdirectory; absence is reported by Mine, not here.
func New(dir string) *Corpus {
	return &Corpus{root: dir}
}

// Projects lists project names under <root>/projects, sorted.
func (c *Corpus) Projects() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(c.root, "projects"))
	if err != nil {
		return nil, fmt.Errorf("read projects dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Bugs lists the numeric bug ids for a project, sorted numerically.
func (c *Corpus) Bugs(project string) ([]string, error) {
	dir := filepath.Join(c.root, "projects", project, "bugs")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read bugs dir for %s: %w", project, err)
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := strconv.Atoi(e.Name()); err == nil {
			ids = append(ids, e.Name())
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, _ := strconv.Atoi(ids[i])
		b, _ := strconv.Atoi(ids[j])
		return a < b
	})
	return ids, nil
}

// ReadBugInfo parses the key=value metadata file for one bug. Values may be
// double-quoted; comment lines and lines without '=' are skipped.
func (c *Corpus) ReadBugInfo(project, bugID string) (map[string]string, error) {
	path := filepath.Join(c.root, "projects", project, "bugs", bugID, "bug.info")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bug.info: %w", err)
	}
	return ParseInfo(string(data)), nil
}

// ParseInfo parses key=value lines into a map. Keys and values are trimmed;
// surrounding double quotes on values are stripped.
func ParseInfo(text string) map[string]string {
	info := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		info[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	return info
}

// ReadPatch returns the raw unified-diff text for one bug.
func (c *Corpus) ReadPatch(project, bugID string) (string, error) {
	path := filepath.Join(c.root, "projects", project, "bugs", bugID, "bug_patch.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read bug_patch.txt: %w", err)
	}
	return string(data), nil
}

// Mine walks every project and bug, building BugRecords for patches that
// qualify as single-line bugs. Per-bug failures become Skips; a bug whose
// patch simply fails classification is skipped silently (it is not an error
// and not worth a reason entry). Returns an error only when the corpus has no
// projects directory at all.
func (c *Corpus) Mine() (*MineResult, error) {
	logger := logging.New("corpus")

	projects, err := c.Projects()
	if err != nil {
		return nil, err
	}

	result := &MineResult{}
	for _, project := range projects {
		bugs, err := c.Bugs(project)
		if err != nil {
			logger.Warn("skipping project", "project", project, "error", err)
			continue
		}
		for _, bugID := range bugs {
			rec, skip := c.mineBug(project, bugID)
			if skip != nil {
				logger.Warn("skipping bug",
					"project", skip.Project, "bug_id", skip.BugID, "reason", skip.Reason)
				result.Skips = append(result.Skips, *skip)
				continue
			}
			if rec != nil {
				result.Records = append(result.Records, *rec)
			}
		}
	}
	return result, nil
}

// mineBug processes one bug inside its failure boundary: any error converts
// to a Skip and never unwinds past this function.
func (c *Corpus) mineBug(project, bugID string) (*patch.BugRecord, *Skip) {
	info, err := c.ReadBugInfo(project, bugID)
	if err != nil {
		return nil, &Skip{Project: project, BugID: bugID, Reason: err.Error()}
	}
	patchText, err := c.ReadPatch(project, bugID)
	if err != nil {
		return nil, &Skip{Project: project, BugID: bugID, Reason: err.Error()}
	}

	rec, err := patch.BuildRecord(project, bugID, info, patchText)
	if err != nil {
		return nil, &Skip{Project: project, BugID: bugID, Reason: err.Error()}
	}
	// rec == nil means the patch is not a single-line bug: filtered, not skipped.
	return rec, nil
}
