package patch

// DescriptionFromInfo maps the key=value metadata of a bug.info file onto a
// BugDescription. Unknown keys are ignored; absent keys yield empty fields.
func DescriptionFromInfo(info map[string]string) BugDescription {
	return BugDescription{
		PythonVersion: info["python_version"],
		BuggyCommitID: info["buggy_commit_id"],
		FixedCommitID: info["fixed_commit_id"],
		TestFile:      info["test_file"],
		SourceURL:     info["github_url"],
	}
}

// BuildRecord combines the single-line filter, the diff parser and the bug
// metadata into one immutable BugRecord. It returns a *MissingFieldError when
// a required input is absent and (nil, nil) when the patch simply fails
// single-line classification — not a bug record, but not an error either.
func BuildRecord(project, bugID string, info map[string]string, patchText string) (*BugRecord, error) {
	if project == "" {
		return nil, &MissingFieldError{Field: "project"}
	}
	if bugID == "" {
		return nil, &MissingFieldError{Field: "bug_id"}
	}
	if len(info) == 0 {
		return nil, &MissingFieldError{Field: "bug.info"}
	}
	if patchText == "" {
		return nil, &MissingFieldError{Field: "bug_patch"}
	}

	change, ok := ClassifySingleLine(patchText)
	if !ok {
		return nil, nil
	}

	files := ParsePatch(patchText)
	if len(files) == 0 {
		return nil, nil
	}

	return &BugRecord{
		Project:          project,
		BugID:            bugID,
		SingleLineChange: *change,
		Description:      DescriptionFromInfo(info),
		Files:            files,
	}, nil
}
