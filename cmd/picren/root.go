package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"picren/internal/app"
	"picren/internal/config"
	"picren/internal/domain"
	apperrors "picren/internal/errors"
	"picren/internal/infra/exif"
	"picren/internal/infra/storage"
	"picren/internal/logging"
	"picren/internal/presentation"
	"picren/internal/resize"
	"picren/internal/tui"
)

func newRootCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
		plain      bool
		assumeYes  bool
	)
	flagCfg := config.Default()

	cmd := &cobra.Command{
		Use:   "picren [directory]",
		Short: "Batch rename and downsize image files",
		Long: `picren scans a directory for image files, computes new names from a
token pattern ({name}, {date}, {exif}, {num}, {num:NNN}), flags target
collisions, and applies the result with optional downscaling.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			cfg, err := config.LoadDefaults(configPath)
			if err != nil {
				return apperrors.Wrap(apperrors.InvalidConfig, "config", configPath, err)
			}
			mergeFlags(cmd, &cfg, flagCfg)

			if err := cfg.Validate(); err != nil {
				return apperrors.Wrap(apperrors.InvalidConfig, "config", "", err)
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return apperrors.Wrap(apperrors.InvalidConfig, "dir", dir, err)
			}
			if _, err := os.Stat(absDir); err != nil {
				if errors.Is(err, fs.ErrPermission) {
					return apperrors.Wrap(apperrors.AccessDenied, "stat", absDir, err)
				}
				return apperrors.Wrap(apperrors.IOFailure, "stat", absDir, err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			store := storage.New(absDir)
			if plain || !isatty.IsTerminal(os.Stdout.Fd()) {
				return runPlain(ctx, absDir, store, cfg, verbose, assumeYes)
			}
			return runTUI(ctx, absDir, store, cfg, verbose)
		},
	}

	cmd.Flags().StringVarP(&flagCfg.Pattern, "pattern", "p", flagCfg.Pattern, "naming template with {name}, {date}, {exif}, {num} tokens")
	cmd.Flags().IntVarP(&flagCfg.StartNumber, "start-number", "n", flagCfg.StartNumber, "base value for the {num} token")
	cmd.Flags().BoolVarP(&flagCfg.Recursive, "recursive", "r", false, "accepted for compatibility; scanning stays one level deep")
	cmd.Flags().BoolVarP(&flagCfg.DryRun, "dry-run", "d", false, "plan only, touch nothing")
	cmd.Flags().BoolVar(&flagCfg.Overwrite, "overwrite", false, "let conflicting targets proceed instead of erroring")
	cmd.Flags().StringVar(&flagCfg.Prefix, "prefix", "", "literal text before the expanded pattern")
	cmd.Flags().StringVar(&flagCfg.Suffix, "suffix", "", "literal text after the expanded pattern")
	cmd.Flags().BoolVar(&flagCfg.EnableResize, "resize", false, "downscale images wider than --width")
	cmd.Flags().IntVar(&flagCfg.ResizeWidth, "width", flagCfg.ResizeWidth, "target width in pixels, never upscales")
	cmd.Flags().IntVar(&flagCfg.ResizeQuality, "quality", flagCfg.ResizeQuality, "encode quality 1-100 for lossy formats")
	cmd.Flags().BoolVar(&flagCfg.KeepOriginals, "keep-originals", false, "write output alongside the source instead of replacing it")
	cmd.Flags().StringVar(&configPath, "config", "", "defaults file (default "+config.DefaultPath()+")")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.Flags().BoolVar(&plain, "plain", false, "plain output even on a terminal")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt in plain mode")

	return cmd
}

// mergeFlags overlays explicitly-set flags onto the layered defaults, so
// the precedence stays flag > env > file > built-in.
func mergeFlags(cmd *cobra.Command, cfg *config.RenameConfig, flagCfg config.RenameConfig) {
	set := map[string]func(){
		"pattern":        func() { cfg.Pattern = flagCfg.Pattern },
		"start-number":   func() { cfg.StartNumber = flagCfg.StartNumber },
		"recursive":      func() { cfg.Recursive = flagCfg.Recursive },
		"dry-run":        func() { cfg.DryRun = flagCfg.DryRun },
		"overwrite":      func() { cfg.Overwrite = flagCfg.Overwrite },
		"prefix":         func() { cfg.Prefix = flagCfg.Prefix },
		"suffix":         func() { cfg.Suffix = flagCfg.Suffix },
		"resize":         func() { cfg.EnableResize = flagCfg.EnableResize },
		"width":          func() { cfg.ResizeWidth = flagCfg.ResizeWidth },
		"quality":        func() { cfg.ResizeQuality = flagCfg.ResizeQuality },
		"keep-originals": func() { cfg.KeepOriginals = flagCfg.KeepOriginals },
	}
	for name, apply := range set {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
}

func runPlain(ctx context.Context, dir string, store storage.DirStore, cfg config.RenameConfig, verbose, assumeYes bool) error {
	logger := logging.New(os.Stderr, verbose)

	scanner := app.Scanner{
		Dir:      dir,
		Store:    store,
		Exif:     exif.Reader{},
		ReadExif: cfg.UsesExif(),
		Logger:   logger,
	}
	entries, err := scanner.Scan(ctx)
	if err != nil {
		if apperrors.Is(err, apperrors.Cancelled) {
			return nil
		}
		return err
	}

	plan := app.Planner{}.Plan(entries, cfg)

	printer := presentation.Printer{Writer: os.Stdout, Verbose: verbose}
	printer.PrintPlan(&plan, cfg.DryRun)

	if cfg.DryRun {
		return nil
	}
	if plan.Changed() == 0 && !cfg.EnableResize {
		return nil
	}

	if !assumeYes {
		confirmed, confirmErr := confirmRename(plan.Changed())
		if confirmErr != nil {
			return apperrors.Wrap(apperrors.Internal, "prompt", "", confirmErr)
		}
		if !confirmed {
			return nil
		}
	}

	executor := app.Executor{
		Store:   store,
		Resizer: resize.ImageResizer{},
		Logger:  logger,
		OnProgress: func(current, total int) {
			logger.Verbosef("Processed %d/%d", current, total)
		},
	}
	if err := executor.Execute(ctx, &plan, cfg); err != nil {
		return apperrors.Wrap(apperrors.Internal, "execute", dir, err)
	}

	printer.PrintResults(&plan)
	return nil
}

func runTUI(ctx context.Context, dir string, store storage.DirStore, cfg config.RenameConfig, verbose bool) error {
	var program *tea.Program

	executeFn := func(plan *domain.RenamePlan) tea.Cmd {
		return func() tea.Msg {
			executor := app.Executor{
				Store:   store,
				Resizer: resize.ImageResizer{},
				OnProgress: func(current, total int) {
					file := ""
					if current-1 >= 0 && current-1 < len(plan.Entries) {
						file = plan.Entries[current-1].Path
					}
					program.Send(tui.ExecProgressMsg{Current: current, Total: total, File: file})
				},
			}
			if err := executor.Execute(ctx, plan, cfg); err != nil {
				return tui.ErrorMsg{Err: err}
			}
			return tui.ExecDoneMsg{}
		}
	}

	model := tui.NewModel(tui.Config{
		Dir:     dir,
		Pattern: cfg.Prefix + cfg.Pattern + cfg.Suffix,
		DryRun:  cfg.DryRun,
		Verbose: verbose,
		Execute: executeFn,
	})
	program = tea.NewProgram(model)

	go func() {
		scanner := app.Scanner{
			Dir:      dir,
			Store:    store,
			Exif:     exif.Reader{},
			ReadExif: cfg.UsesExif(),
			OnProgress: func(current, total int) {
				program.Send(tui.ScanProgressMsg{Current: current, Total: total})
			},
		}
		entries, err := scanner.Scan(ctx)
		if err != nil {
			if apperrors.Is(err, apperrors.Cancelled) {
				program.Send(tui.PlanReadyMsg{Plan: &domain.RenamePlan{}})
			} else {
				program.Send(tui.ErrorMsg{Err: err})
			}
			return
		}
		plan := app.Planner{}.Plan(entries, cfg)
		program.Send(tui.PlanReadyMsg{Plan: &plan})
	}()

	_, err := program.Run()
	return err
}

func confirmRename(count int) (bool, error) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("Rename %d files? [y/N]: ", count)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}
