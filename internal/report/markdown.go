package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gormwatch/internal/rule"
	"gormwatch/internal/shared/version"
)

type MarkdownOptions struct {
	ProjectName string
	ProjectRoot string
	GeneratedAt time.Time
	FileCount   int
	ClassCount  int
}

// GenerateMarkdown renders the findings of one pass as a markdown report,
// grouped per file in path order.
func GenerateMarkdown(violations []rule.Violation, opts MarkdownOptions) string {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Entity Persistence Call Report\n")
	b.WriteString("project: " + nonEmpty(opts.ProjectName, "unknown") + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + version.Version + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Entity Persistence Call Report\n\n")
	b.WriteString(fmt.Sprintf("Scanned %d files, %d classes.\n\n", opts.FileCount, opts.ClassCount))

	if len(violations) == 0 {
		b.WriteString("No violations found.\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("## Violations (%d)\n\n", len(violations)))

	byFile := make(map[string][]rule.Violation)
	for _, v := range violations {
		key := relativeURI(opts.ProjectRoot, v.Path)
		byFile[key] = append(byFile[key], v)
	}

	paths := make([]string, 0, len(byFile))
	for path := range byFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		b.WriteString("### " + path + "\n\n")
		for _, v := range byFile[path] {
			b.WriteString(fmt.Sprintf("- line %d, col %d: %s\n", v.Pos.Line, v.Pos.Column, v.Message))
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// ProjectNameFromRoot derives a display name from the project root path.
func ProjectNameFromRoot(root string) string {
	if root == "" {
		return ""
	}
	return filepath.Base(root)
}
