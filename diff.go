package glossify

// Run is a text run extracted from a document, identified by its hash and
// the element path it was found under. Used for comparing document
// versions to predict what a reprocessing pass will touch.
type Run struct {
	Text string // Original run text (trimmed)
	Hash string // SHA-256 hash of Text
	Path string // Ancestor element path, outer to inner
}

// RunDiff is the difference between two document versions' text runs.
type RunDiff struct {
	Added     []Run // runs new in this version
	Removed   []Run // runs gone from this version
	Unchanged []Run // runs present in both
	Modified  []ModifiedRun
}

// ModifiedRun pairs an old run with its new text at the same element path.
type ModifiedRun struct {
	Old Run
	New Run
}

// RunDiffStats summarizes a diff.
type RunDiffStats struct {
	Added     int
	Removed   int
	Unchanged int
	Modified  int
}

// Stats returns summary counts for the diff.
func (d *RunDiff) Stats() RunDiffStats {
	return RunDiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Modified:  len(d.Modified),
	}
}

// HasChanges reports whether anything differs.
func (d *RunDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// NeedsProcessing returns the runs a reprocessing pass would gloss anew:
// added runs plus the new side of modified runs.
func (d *RunDiff) NeedsProcessing() []Run {
	result := make([]Run, 0, len(d.Added)+len(d.Modified))
	result = append(result, d.Added...)
	for _, m := range d.Modified {
		result = append(result, m.New)
	}
	return result
}

// DiffRuns compares the text runs of two document versions by hash.
func DiffRuns(oldRuns, newRuns []Run) *RunDiff {
	result := &RunDiff{}

	oldByHash := make(map[string]Run)
	newByHash := make(map[string]Run)
	for _, r := range oldRuns {
		oldByHash[r.Hash] = r
	}
	for _, r := range newRuns {
		newByHash[r.Hash] = r
	}

	for hash, r := range oldByHash {
		if _, ok := newByHash[hash]; ok {
			result.Unchanged = append(result.Unchanged, r)
		} else {
			result.Removed = append(result.Removed, r)
		}
	}
	for hash, r := range newByHash {
		if _, ok := oldByHash[hash]; !ok {
			result.Added = append(result.Added, r)
		}
	}
	return result
}

// DiffRunsWithPath additionally pairs removed and added runs that share an
// element path, reporting them as modifications rather than churn.
func DiffRunsWithPath(oldRuns, newRuns []Run) *RunDiff {
	result := DiffRuns(oldRuns, newRuns)
	if len(result.Added) == 0 || len(result.Removed) == 0 {
		return result
	}

	addedMatched := make(map[int]bool)
	removedMatched := make(map[int]bool)

	for ri, removed := range result.Removed {
		for ai, added := range result.Added {
			if addedMatched[ai] {
				continue
			}
			if removed.Path != "" && removed.Path == added.Path {
				result.Modified = append(result.Modified, ModifiedRun{Old: removed, New: added})
				addedMatched[ai] = true
				removedMatched[ri] = true
				break
			}
		}
	}

	var added []Run
	for i, r := range result.Added {
		if !addedMatched[i] {
			added = append(added, r)
		}
	}
	result.Added = added

	var removed []Run
	for i, r := range result.Removed {
		if !removedMatched[i] {
			removed = append(removed, r)
		}
	}
	result.Removed = removed
	return result
}
