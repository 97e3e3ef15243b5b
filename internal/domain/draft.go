package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// TaskDraft is one task parsed from a markdown task file before it is
// assigned an id. BlockedByRefs holds the raw references from the
// frontmatter; ResolveDraftBlocker turns them into task ids once the
// whole file has been added.
type TaskDraft struct {
	Title         string
	Body          string
	BlockedByRefs []string
}

// ParseTaskDrafts parses a markdown task file into drafts. Each task is
// a frontmatter block fenced by "---" lines followed by a free-form
// markdown body that runs until the next block or end of file.
func ParseTaskDrafts(content string) ([]TaskDraft, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyFile
	}

	blocks := splitDraftBlocks(content)
	if len(blocks) == 0 {
		return nil, ErrNoTasksInFile
	}

	drafts := make([]TaskDraft, 0, len(blocks))
	for _, block := range blocks {
		draft, err := parseDraftBlock(block)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// splitDraftBlocks splits file content into per-task chunks. A "---"
// line opens a new block; inside a block the first "---" closes the
// frontmatter and later ones start the next task only when the next
// non-blank line looks like a frontmatter key, so horizontal rules in
// bodies survive.
func splitDraftBlocks(content string) [][]string {
	lines := strings.Split(content, "\n")

	var blocks [][]string
	var current []string
	inBlock := false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "---" {
			if !inBlock {
				inBlock = true
				current = []string{}
				continue
			}
			if len(current) == 0 {
				continue
			}
			if nextLineIsDraftKey(lines, i+1) {
				blocks = append(blocks, current)
				current = []string{}
				continue
			}
			current = append(current, line)
			continue
		}

		if inBlock {
			current = append(current, line)
		}
	}

	if inBlock && len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

func nextLineIsDraftKey(lines []string, idx int) bool {
	for ; idx < len(lines); idx++ {
		trimmed := strings.TrimSpace(lines[idx])
		if trimmed == "" {
			continue
		}
		return isDraftKey(trimmed)
	}
	return false
}

func isDraftKey(line string) bool {
	return strings.HasPrefix(line, "title:") || strings.HasPrefix(line, "blocked_by:")
}

// parseDraftBlock parses one block: frontmatter lines up to the closing
// "---", then the body.
func parseDraftBlock(lines []string) (TaskDraft, error) {
	var draft TaskDraft

	bodyStart := len(lines)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "---" {
			bodyStart = i + 1
			break
		}
		key, value, ok := strings.Cut(trimmed, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "title":
			draft.Title = value
		case "blocked_by":
			draft.BlockedByRefs = parseBlockerList(value)
		}
	}

	if draft.Title == "" {
		return TaskDraft{}, ErrEmptyTitle
	}

	if bodyStart < len(lines) {
		body := strings.Join(lines[bodyStart:], "\n")
		draft.Body = strings.TrimSpace(body)
	}
	return draft, nil
}

func parseBlockerList(value string) []string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "[")
	value = strings.TrimSuffix(value, "]")
	if value == "" {
		return nil
	}

	var refs []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(value, ",") {
		ref := strings.Trim(strings.TrimSpace(part), `"'`)
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}

// ResolveDraftBlocker resolves one frontmatter blocker reference.
// References carrying the id prefix point at existing tasks and pass
// through for normal resolution; bare numbers are 1-based positions of
// earlier tasks in the same file.
func ResolveDraftBlocker(ref string, createdIDs []string) (string, error) {
	trimmed := strings.TrimSpace(ref)
	if strings.HasPrefix(trimmed, TaskIDPrefix) || strings.HasPrefix(trimmed, strings.ToLower(TaskIDPrefix)) {
		return trimmed, nil
	}

	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 1 {
		return "", fmt.Errorf("%w: %q", ErrInvalidBlockerRef, ref)
	}
	if n > len(createdIDs) {
		return "", fmt.Errorf("%w: %d refers past task %d in this file", ErrInvalidBlockerRef, n, len(createdIDs))
	}
	return createdIDs[n-1], nil
}
