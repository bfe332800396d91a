package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/lanedrift/reelforge/internal/doctor"
	"github.com/lanedrift/reelforge/internal/docs"
	"github.com/lanedrift/reelforge/internal/executor"
	"github.com/lanedrift/reelforge/internal/metrics"
	"github.com/lanedrift/reelforge/internal/model"
	"github.com/lanedrift/reelforge/internal/report"
	"github.com/lanedrift/reelforge/internal/runtime"
	"github.com/lanedrift/reelforge/internal/runtime/llmclient"
	"github.com/lanedrift/reelforge/internal/scaffold"
	"github.com/lanedrift/reelforge/internal/scheduler"
	"github.com/lanedrift/reelforge/internal/state"
	"github.com/lanedrift/reelforge/internal/ux"
	"github.com/lanedrift/reelforge/internal/watch"
	"github.com/lanedrift/reelforge/internal/workflow"
)

func main() {
	app := &cli.Command{
		Name:        "reelforge",
		Usage:       "Reactive dependency-graph runner for media pipelines",
		Description: "Run 'reelforge docs' for documentation on the workflow schema, task kinds, and more.",
		Commands: []*cli.Command{
			initCmd(),
			showCmd(),
			runCmd(),
			statusCmd(),
			doctorCmd(),
			docsCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		os.Exit(1)
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{Name: "config", Value: "workflow.yaml", Usage: "Path to the workflow document"}
}

func workdirFlag() cli.Flag {
	return &cli.StringFlag{Name: "workdir", Required: true, Usage: "Directory holding run state and artifact outputs"}
}

// showCmd parses, validates, and prints a workflow document. Spec.md §6:
// no side effects — it never touches .reelforge/ or the filesystem beyond
// reading the config file.
func showCmd() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Parse and print a workflow document without running it",
		Flags: []cli.Flag{workdirFlag(), configFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configPath := resolveConfigPath(cmd)
			st, err := workflow.Load(configPath)
			if err != nil {
				return err
			}
			ux.RenderStatus(st)
			return nil
		},
	}
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run a workflow to completion",
		Flags: []cli.Flag{
			workdirFlag(),
			configFlag(),
			&cli.StringSliceFlag{Name: "var", Usage: "Variable override KEY=VALUE (repeatable)"},
			&cli.BoolFlag{Name: "resume", Usage: "Skip tasks whose declared output is already valid"},
			&cli.StringSliceFlag{Name: "allow", Usage: "Allow-listed program for command/external-tool steps (repeatable)"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Record intended side effects without touching disk or spawning processes"},
			&cli.BoolFlag{Name: "auto", Usage: "Auto-approve every checkpoint"},
			&cli.StringFlag{Name: "llm-provider", Usage: "LLM provider base URL (OpenAI-compatible)"},
			&cli.StringFlag{Name: "llm-model", Usage: "LLM model name"},
			&cli.StringFlag{Name: "mock-llm", Usage: "Canned LLM response text; skips any network call"},
			&cli.BoolFlag{Name: "watch", Usage: "Re-invalidate downstream tasks when external artifacts are edited on disk"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "Serve Prometheus metrics at this address (e.g. :9090)"},
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	workdir := cmd.String("workdir")
	configPath := resolveConfigPath(cmd)

	st, err := workflow.Load(configPath)
	if err != nil {
		return err
	}

	if existing, err := state.Load(workdir); err != nil {
		return fmt.Errorf("loading state: %w", err)
	} else if existing != nil {
		st = existing
	}

	applyVarOverrides(st, cmd.StringSlice("var"))

	if cmd.Bool("auto") {
		for _, t := range st.OrderedTasks() {
			if t.Kind == model.KindCheckpoint {
				st.Checkpoints[t.ID] = true
			}
		}
	}

	if err := executor.Preflight(st); err != nil {
		return err
	}

	seedExternalArtifacts(workdir, st)

	facade, err := buildFacade(cmd, workdir)
	if err != nil {
		return err
	}

	sched := scheduler.New(st, executor.New(), facade)
	sched.Resume = cmd.Bool("resume")
	sched.Validator = func(path string) bool {
		if !filepath.IsAbs(path) {
			path = filepath.Join(workdir, path)
		}
		return state.OutputValid(path)
	}

	reporter := ux.NewReporter(st)
	collector := metrics.NewCollector(func(taskID string) string {
		if t, ok := st.Task(taskID); ok {
			return string(t.Kind)
		}
		return "unknown"
	})
	sched.Observer = multiObserver{reporter, collector}

	var metricsServer *metrics.Server
	if addr := cmd.String("metrics-addr"); addr != "" {
		metricsServer = metrics.NewServer(addr)
		metricsServer.StartAsync()
		defer metricsServer.Stop(context.Background())
	}

	var watcher *watch.Watcher
	if cmd.Bool("watch") {
		watcher, err = watch.New(workdir, st, func(artifactIDs, taskIDs []string) {
			fmt.Printf("\n%s↺ external edit invalidated %d artifact(s), %d task(s)%s\n",
				ux.Yellow, len(artifactIDs), len(taskIDs), ux.Reset)
		})
		if err != nil {
			return err
		}
		if err := watcher.Start(); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := state.Save(workdir, st); err != nil {
		return err
	}

	runErr := sched.Run(ctx)

	if err := state.Save(workdir, st); err != nil {
		return err
	}

	rpt := report.Build(st, uuid.New().String(), time.Now())
	if err := report.Save(workdir, rpt); err != nil {
		return err
	}
	fmt.Println(rpt.HumanSummary())

	if runErr != nil {
		return fmt.Errorf("run: %w", runErr)
	}
	if rpt.IsFailedRun() {
		os.Exit(1)
	}
	return nil
}

type multiObserver []scheduler.Observer

func (m multiObserver) Observe(e scheduler.Event) {
	for _, o := range m {
		o.Observe(e)
	}
}

// buildFacade selects the Real or DryRun runtime.Facade per flags; with
// --mock-llm the Real facade is backed by a runtime.CannedClient.
func buildFacade(cmd *cli.Command, workdir string) (runtime.Facade, error) {
	if cmd.Bool("dry-run") {
		return runtime.NewDryRunFacade(workdir), nil
	}

	var llm runtime.LLMClient
	if mock := cmd.String("mock-llm"); mock != "" {
		llm = runtime.CannedClient{Response: mock}
	} else if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		llm = llmclient.New(apiKey, cmd.String("llm-provider"), cmd.String("llm-model"))
	}

	return runtime.NewRealFacade(workdir, cmd.StringSlice("allow"), llm), nil
}

// applyVarOverrides parses repeated KEY=VALUE strings and writes them into
// st.Vars, taking precedence over the document's declared vars.
func applyVarOverrides(st *model.WorkflowState, overrides []string) {
	for _, kv := range overrides {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		st.Vars[k] = v
	}
}

// seedExternalArtifacts marks every artifact with no producing task (a
// workflow input supplied from outside the graph) Ready if its declared
// path already holds valid content. Nothing else ever transitions an
// external artifact out of Missing.
func seedExternalArtifacts(workdir string, st *model.WorkflowState) {
	for id, a := range st.Artifacts {
		if st.ProducerOf(id) != "" || a.Status != model.ArtifactMissing {
			continue
		}
		path := a.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(workdir, path)
		}
		if state.OutputValid(path) {
			a.Status = model.ArtifactReady
		}
	}
}

func resolveConfigPath(cmd *cli.Command) string {
	configPath := cmd.String("config")
	if filepath.IsAbs(configPath) {
		return configPath
	}
	return filepath.Join(cmd.String("workdir"), configPath)
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show persisted run status for a workdir",
		Flags: []cli.Flag{workdirFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			workdir := cmd.String("workdir")
			st, err := state.Load(workdir)
			if err != nil {
				return fmt.Errorf("loading state: %w", err)
			}
			if st == nil {
				return fmt.Errorf("no run recorded under %s", workdir)
			}
			ux.RenderStatus(st)
			return nil
		},
	}
}

func doctorCmd() *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "Summarize why the last run under workdir did not finish cleanly",
		Flags: []cli.Flag{workdirFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			r, err := doctor.Run(cmd.String("workdir"))
			if err != nil {
				return err
			}
			if r == nil {
				fmt.Printf("%sNo failed or blocked tasks — the last run finished cleanly.%s\n", ux.Green, ux.Reset)
				return nil
			}
			fmt.Print(r.Format())
			return nil
		},
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a new workflow.yaml and .reelforge/ directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			return scaffold.Init(dir)
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Print("\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Printf("  %-14s %s\n", t.Name, t.Summary)
				}
				fmt.Println("\nRun 'reelforge docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Print(t.Content)
			return nil
		},
	}
}
