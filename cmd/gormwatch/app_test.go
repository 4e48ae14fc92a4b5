package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gormwatch/internal/config"
)

const petSource = `
package com.example;

import org.grails.datastore.gorm.GormEntityApi;

public class Pet implements GormEntityApi {
    String name;
}
`

const petServiceSource = `
package com.example;

public class PetService {
    void store(Pet p) {
        p.save();
    }

    void loadAll() {
        Pet.findAll();
    }

    void rename(Pet p) {
        p.getName();
    }
}
`

const cleanServiceSource = `
package com.example;

public class AuditService {
    void record(String entry) {
        entry.trim();
    }
}
`

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func newTestApp(t *testing.T, root string) *App {
	t.Helper()
	out := t.TempDir()
	cfg := &config.Config{
		ScanPaths: []string{root},
		Output: config.Output{
			SARIF:    filepath.Join(out, "report.sarif"),
			Markdown: filepath.Join(out, "report.md"),
		},
		History: config.History{
			Path:       filepath.Join(out, "history.db"),
			ProjectKey: "test",
		},
	}

	app, err := NewApp(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestScanAndCheckProject(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/Pet.java":            petSource,
		"src/PetService.java":     petServiceSource,
		"src/AuditService.java":   cleanServiceSource,
		"src/PetServiceTest.java": petServiceSource,
		"src/PetServiceSpec.java": petServiceSource,
	})
	app := newTestApp(t, root)

	require.NoError(t, app.InitialScan())
	require.Len(t, app.units, 3, "test and spec sources must be skipped")

	violations := app.RunChecks()
	require.Len(t, violations, 2)
	for _, v := range violations {
		require.True(t, strings.HasSuffix(v.Path, "PetService.java"))
		require.Greater(t, v.Pos.Line, 0)
	}
}

func TestRunChecksIsDeterministic(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/Pet.java":        petSource,
		"src/PetService.java": petServiceSource,
	})
	app := newTestApp(t, root)
	require.NoError(t, app.InitialScan())

	first := app.RunChecks()
	second := app.RunChecks()
	require.Equal(t, first, second)
}

func TestGenerateOutputsWritesReports(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/Pet.java":        petSource,
		"src/PetService.java": petServiceSource,
	})
	app := newTestApp(t, root)
	require.NoError(t, app.InitialScan())

	violations := app.RunChecks()
	require.NoError(t, app.GenerateOutputs(violations))

	sarif, err := os.ReadFile(app.Config.Output.SARIF)
	require.NoError(t, err)
	require.Contains(t, string(sarif), `"ruleId": "GORM001"`)

	md, err := os.ReadFile(app.Config.Output.Markdown)
	require.NoError(t, err)
	require.Contains(t, string(md), "## Violations (2)")
}

func TestSaveSnapshotRecordsRun(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/Pet.java":        petSource,
		"src/PetService.java": petServiceSource,
	})
	app := newTestApp(t, root)
	require.NoError(t, app.InitialScan())

	violations := app.RunChecks()
	app.SaveSnapshot(violations, 100*time.Millisecond)

	snapshots, err := app.store.LoadSnapshots("test", time.Time{})
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	require.Equal(t, 2, snapshots[0].ViolationCount)
	require.Equal(t, 2, snapshots[0].FileCount)
}

func TestRemovedFileClearsFindings(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/Pet.java":        petSource,
		"src/PetService.java": petServiceSource,
	})
	app := newTestApp(t, root)
	require.NoError(t, app.InitialScan())
	require.Len(t, app.RunChecks(), 2)

	app.RemoveFile(filepath.Join(root, "src", "PetService.java"))
	require.Empty(t, app.RunChecks())
}

func TestEditedFileReflectsInFindings(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/Pet.java":        petSource,
		"src/PetService.java": petServiceSource,
	})
	app := newTestApp(t, root)
	require.NoError(t, app.InitialScan())
	require.Len(t, app.RunChecks(), 2)

	fixed := strings.ReplaceAll(petServiceSource, "p.save();", "p.getName();")
	fixed = strings.ReplaceAll(fixed, "Pet.findAll();", "")
	path := filepath.Join(root, "src", "PetService.java")
	require.NoError(t, os.WriteFile(path, []byte(fixed), 0o644))

	require.NoError(t, app.ProcessFile(path))
	require.Empty(t, app.RunChecks())
}

func TestHandleChangesIgnoresUnparsablePaths(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/Pet.java":        petSource,
		"src/PetService.java": petServiceSource,
	})
	app := newTestApp(t, root)
	require.NoError(t, app.InitialScan())

	// A properties edit and the tool's own report landing inside the scan
	// path must not be parsed or counted as parse errors.
	props := filepath.Join(root, "application.properties")
	require.NoError(t, os.WriteFile(props, []byte("gorm.enabled=false"), 0o644))
	sarif := filepath.Join(root, "gormwatch.sarif")
	require.NoError(t, os.WriteFile(sarif, []byte("{}"), 0o644))

	app.HandleChanges([]string{props, sarif})

	require.Zero(t, app.parseErrors)
	require.Len(t, app.units, 2)
}

func TestHandleChangesRemovesOnlyTrackedUnits(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/Pet.java":        petSource,
		"src/PetService.java": petServiceSource,
	})
	app := newTestApp(t, root)
	require.NoError(t, app.InitialScan())

	// A delete event for a source that was never tracked leaves the state
	// untouched; a delete of a tracked source drops it.
	app.HandleChanges([]string{filepath.Join(root, "src", "Ghost.java")})
	require.Len(t, app.units, 2)

	tracked := filepath.Join(root, "src", "PetService.java")
	require.NoError(t, os.Remove(tracked))
	app.HandleChanges([]string{tracked})
	require.Len(t, app.units, 1)
	require.Empty(t, app.RunChecks())
}

func TestScanDirectoriesHonorsExcludes(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/Pet.java":              petSource,
		"build/Copy.java":           petSource,
		"src/PetGenerated.java":     petSource,
		"src/notes.txt":             "not java",
		"src/deep/PetService.java":  petServiceSource,
		"target/tmp/Artifact.java":  petSource,
	})
	app := newTestApp(t, root)

	files, err := app.ScanDirectories(
		[]string{root},
		[]string{"build", "target"},
		[]string{"*Generated.java"},
	)
	require.NoError(t, err)

	require.Len(t, files, 2)
	for _, f := range files {
		require.NotContains(t, f, "build")
		require.NotContains(t, f, "target")
		require.NotContains(t, f, "Generated")
	}
}
