package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/railgraph/fossview/internal/app"
	"github.com/railgraph/fossview/internal/config"
)

var (
	version = "0.0.1"
	commit  = "unknown"
)

var (
	repoPath   string
	maxCommits int
	configPath string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lazygit-lite",
		Short: "A terminal UI for browsing a repository's revision graph",
		Long: `lazygit-lite lays out a repository's commit history as a rail-and-riser
graph in the terminal and lets you browse, expand, and check out branches
without leaving the keyboard.`,
		RunE: runTUI,
	}

	root.Flags().StringVar(&repoPath, "repo", ".", "path to the git repository to open")
	root.Flags().IntVar(&maxCommits, "max-commits", 0, "override the configured maximum number of commits to load (0 uses config)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (default: ~/.config/lazygit-lite/config.yaml)")

	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("lazygit-lite version %s (%s)\n", version, commit)
		},
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	if maxCommits > 0 {
		cfg.Performance.MaxCommits = maxCommits
	}

	model, err := app.New(cfg, repoPath)
	if err != nil {
		return errors.Wrapf(err, "open repository %q", repoPath)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
