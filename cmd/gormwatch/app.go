package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"gormwatch/internal/config"
	"gormwatch/internal/history"
	"gormwatch/internal/index"
	"gormwatch/internal/javasrc"
	"gormwatch/internal/observability"
	"gormwatch/internal/report"
	"gormwatch/internal/rule"
	"gormwatch/internal/shared/util"
	"gormwatch/internal/watcher"
)

type App struct {
	Config *config.Config
	Parser *javasrc.Parser
	Index  *index.Index

	walker  *rule.Walker
	units   map[string]*javasrc.Unit
	store   *history.Store
	limiter *util.Limiter

	projectRoot string
	parseErrors int
}

func NewApp(cfg *config.Config) (*App, error) {
	loader := javasrc.NewGrammarLoader()
	parser := javasrc.NewParser(loader)
	idx := index.New()

	names := rule.NewNameTables(cfg.Rule.ExtraInstanceMethods, cfg.Rule.ExtraStaticMethods)
	resolver := rule.NewResolver(idx)
	classifier := rule.NewClassifier(idx, cfg.Rule.MarkerInterfaces)
	matcher := rule.NewMatcher(names, resolver, classifier)

	app := &App{
		Config: cfg,
		Parser: parser,
		Index:  idx,
		walker: rule.NewWalker(matcher),
		units:  make(map[string]*javasrc.Unit),
	}

	root, err := filepath.Abs(cfg.ScanPaths[0])
	if err == nil {
		app.projectRoot = root
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		app.store = store
	}

	if cfg.Watch.MaxRescansPerSecond > 0 {
		app.limiter = util.NewLimiter(cfg.Watch.MaxRescansPerSecond, 1)
	}

	return app, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

func (a *App) InitialScan() error {
	files, err := a.ScanDirectories(a.Config.ScanPaths, a.Config.Exclude.Dirs, a.Config.Exclude.Files)
	if err != nil {
		return err
	}

	for _, filePath := range files {
		if err := a.ProcessFile(filePath); err != nil {
			a.parseErrors++
			observability.ParseErrorsTotal.Inc()
			slog.Warn("failed to process file", "path", filePath, "error", err)
		}
	}

	observability.FilesTracked.Set(float64(len(a.units)))
	return nil
}

func (a *App) ScanDirectories(paths []string, excludeDirs, excludeFiles []string) ([]string, error) {
	var files []string

	dirGlobs := make([]glob.Glob, 0, len(excludeDirs))
	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		dirGlobs = append(dirGlobs, g)
	}

	fileGlobs := make([]glob.Glob, 0, len(excludeFiles))
	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		fileGlobs = append(fileGlobs, g)
	}

	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)

			if d.IsDir() {
				for _, g := range dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if javasrc.DetectLanguage(path) == "" {
				return nil
			}
			if strings.HasSuffix(base, "Test.java") || strings.HasSuffix(base, "Spec.java") {
				return nil
			}

			for _, g := range fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

func (a *App) ProcessFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	unit, err := a.Parser.ParseFile(path, content)
	if err != nil {
		return err
	}

	a.units[path] = unit
	a.Index.AddUnit(unit)
	return nil
}

func (a *App) RemoveFile(path string) {
	delete(a.units, path)
	a.Index.RemoveUnit(path)
}

// RunChecks walks every tracked unit in path order and returns the findings.
// Order within a unit follows class declaration order, then textual call
// order, so repeated runs over unchanged input are identical.
func (a *App) RunChecks() []rule.Violation {
	start := time.Now()

	paths := make([]string, 0, len(a.units))
	for path := range a.units {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var violations []rule.Violation
	for _, path := range paths {
		a.walker.Walk(a.units[path], func(v rule.Violation) {
			violations = append(violations, v)
		})
	}

	observability.ScanDuration.Observe(time.Since(start).Seconds())
	observability.ViolationsFound.Set(float64(len(violations)))
	return violations
}

func (a *App) HandleChanges(paths []string) {
	if a.limiter != nil {
		if err := a.limiter.Wait(context.Background(), 1); err != nil {
			slog.Warn("rescan limiter interrupted", "error", err)
			return
		}
	}

	slog.Info("detected changes", "count", len(paths))
	start := time.Now()

	for _, path := range paths {
		// The watcher reports every change under the scan paths, including
		// files this tool cannot parse and the reports it writes itself.
		// Reprocessing those would count spurious parse errors, and rewriting
		// the reports would re-trigger the watcher on its own output.
		if javasrc.DetectLanguage(path) == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			if _, tracked := a.units[path]; tracked {
				a.RemoveFile(path)
			}
			continue
		}

		if err := a.ProcessFile(path); err != nil {
			a.parseErrors++
			observability.ParseErrorsTotal.Inc()
			slog.Warn("failed to re-process file", "path", path, "error", err)
		}
	}
	observability.FilesTracked.Set(float64(len(a.units)))

	violations := a.RunChecks()
	if err := a.GenerateOutputs(violations); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}

	duration := time.Since(start)
	a.PrintSummary(len(paths), violations, duration)
	a.SaveSnapshot(violations, duration)

	if a.Config.Alerts.Beep && len(violations) > 0 {
		fmt.Print("\a")
	}
}

func (a *App) GenerateOutputs(violations []rule.Violation) error {
	if a.Config.Output.SARIF != "" {
		doc, err := report.GenerateSARIF(a.projectRoot, violations)
		if err != nil {
			return err
		}
		if err := os.WriteFile(a.Config.Output.SARIF, doc, 0644); err != nil {
			return err
		}
	}

	if a.Config.Output.Markdown != "" {
		md := report.GenerateMarkdown(violations, report.MarkdownOptions{
			ProjectName: report.ProjectNameFromRoot(a.projectRoot),
			ProjectRoot: a.projectRoot,
			FileCount:   len(a.units),
			ClassCount:  a.classCount(),
		})
		if err := os.WriteFile(a.Config.Output.Markdown, []byte(md), 0644); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) PrintSummary(fileCount int, violations []rule.Violation, duration time.Duration) {
	if !a.Config.Alerts.Terminal {
		return
	}

	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Update: %d files, %d classes in %v\n", fileCount, a.classCount(), duration)

	if len(violations) > 0 {
		fmt.Printf("⚠️  FOUND %d ENTITY PERSISTENCE CALLS:\n", len(violations))
		for _, v := range violations {
			path := v.Path
			if a.projectRoot != "" {
				if rel, err := filepath.Rel(a.projectRoot, v.Path); err == nil && !strings.HasPrefix(rel, "..") {
					path = rel
				}
			}
			fmt.Printf("   %s:%d:%d %s\n", path, v.Pos.Line, v.Pos.Column, v.Message)
		}
	} else {
		fmt.Println("✅ No entity persistence calls found.")
	}
	fmt.Println(strings.Repeat("-", 40))
}

func (a *App) SaveSnapshot(violations []rule.Violation, duration time.Duration) {
	if a.store == nil {
		return
	}

	err := a.store.SaveSnapshot(history.Snapshot{
		ProjectKey:     a.Config.History.ProjectKey,
		FileCount:      len(a.units),
		ClassCount:     a.classCount(),
		ViolationCount: len(violations),
		ParseErrors:    a.parseErrors,
		Duration:       duration,
	})
	if err != nil {
		slog.Warn("failed to save history snapshot", "error", err)
	}
}

func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	// Runs for the lifetime of the process; never closed.
	return w.Watch(a.Config.ScanPaths)
}

func (a *App) classCount() int {
	count := 0
	var countClass func(cls *javasrc.Class)
	countClass = func(cls *javasrc.Class) {
		count++
		for _, nested := range cls.Nested {
			countClass(nested)
		}
	}
	for _, unit := range a.units {
		for _, cls := range unit.Classes {
			countClass(cls)
		}
	}
	return count
}
