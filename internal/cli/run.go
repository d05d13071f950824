package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/flip/internal/telemetry"
	"github.com/macropower/flip/pkg/book"
	"github.com/macropower/flip/pkg/config"
	"github.com/macropower/flip/pkg/log"
	"github.com/macropower/flip/pkg/mcp"
	"github.com/macropower/flip/pkg/session"
	"github.com/macropower/flip/pkg/ui"
	"github.com/macropower/flip/pkg/ui/theme"
)

const (
	cmdExamples = `  # Read a deck of slides:
  flip ./talk.md

  # Reload when the file changes:
  flip ./talk.md --watch

  # Split on a different separator:
  flip ./notes.md --separator '***'

  # Only show pages with more than 20 words:
  flip ./notes.md --where 'page.words > 20'

  # Read from stdin (reload is disabled):
  cat ./talk.md | flip -

  # Let an MCP client follow along over HTTP:
  flip ./talk.md --serve-mcp localhost:8080

  # Send output to a file (disables TUI):
  flip ./talk.md --where 'page.title != ""' > filtered.md`

	logBufferSize = 100
)

// ErrNoInput is returned when no path is given and stdin is a terminal.
var ErrNoInput = errors.New("no input: pass a path, or pipe a document to stdin")

type RunArgs struct {
	*RootArgs

	Path         string
	ConfigPath   string
	Where        string
	Separator    string
	ServeMCP     string
	OTLPEndpoint string
	Watch        bool
	WriteConfig  bool
	ShowConfig   bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.ConfigPath, "config", "", "Path to the flip configuration file")
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false, "Watch the file for changes and reload")
	cmd.Flags().StringVar(&ra.Where, "where", "", "CEL expression selecting the pages to show")
	cmd.Flags().StringVar(&ra.Separator, "separator", "", "Line that separates pages (default \"---\")")
	cmd.Flags().StringVar(&ra.ServeMCP, "serve-mcp", "",
		fmt.Sprintf("Serve MCP at the specified address, or %q for stdio (disables TUI)", mcp.AddressStdio))
	cmd.Flags().StringVar(&ra.OTLPEndpoint, "otlp-endpoint", "", "Export traces to this OTLP/gRPC endpoint")
	cmd.Flags().BoolVar(&ra.WriteConfig, "write-config", false, "Write the default configuration files and exit")
	cmd.Flags().BoolVar(&ra.ShowConfig, "show-config", false, "Print the active configuration and exit")

	err := cmd.MarkFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}

	noEnv(cmd, "write-config", "show-config")
}

func runCompletion(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return []cobra.Completion{"md", "markdown", "txt"}, cobra.ShellCompDirectiveFilterFileExt
	}

	return nil, cobra.ShellCompDirectiveNoFileComp
}

func run(cmd *cobra.Command, ra *RunArgs) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath := ra.ConfigPath
	if configPath == "" {
		configPath = config.GetPath()
	}

	if ra.WriteConfig {
		// Exit early after writing the default config, overwriting any
		// existing file after backing it up.
		return config.WriteDefaultConfig(configPath, true)
	}

	err := config.WriteDefaultConfig(configPath, false)
	if err != nil {
		slog.Warn("write default config", slog.Any("err", err))
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if ra.Where != "" {
		cfg.Book.Where = ra.Where
	}

	if ra.Separator != "" {
		cfg.Book.Separator = ra.Separator
	}

	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if ra.ShowConfig {
		slog.Info("active configuration", slog.String("path", configPath))

		return showConfig(cmd.OutOrStdout(), cfg)
	}

	path, err := inputPath(ra.Path)
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Setup(ctx, ra.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}

	defer func() {
		err := shutdown(context.WithoutCancel(ctx))
		if err != nil {
			slog.Error("shutdown telemetry", slog.Any("err", err))
		}
	}()

	b, err := book.Load(ctx, path, cfg.Book.Options()...)
	if err != nil {
		return fmt.Errorf("load book: %w", err)
	}

	// If stdout is not a terminal, actually "concatenate".
	if !isTerminal(cmd.OutOrStdout()) && ra.ServeMCP != mcp.AddressStdio {
		err := b.Render(cmd.OutOrStdout(), cfg.Book.Separator)
		if err != nil {
			return fmt.Errorf("render book: %w", err)
		}

		return nil
	}

	sess, err := session.New(b, session.Config{Thresholds: cfg.Gesture.Thresholds()})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	defer sess.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if ra.Watch && path != book.StdinPath {
		err := watch(ctx, sess, path, cfg.Book.Options())
		if err != nil {
			return err
		}
	}

	if ra.ServeMCP == mcp.AddressStdio {
		return serveMCP(ctx, sess, ra.ServeMCP)
	}

	// Logs would corrupt the TUI, so hold them until it exits.
	logBuf := log.NewCircularBuffer(logBufferSize)

	logHandler, err := log.CreateHandlerWithStrings(logBuf, ra.LogLevel, ra.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	prevLogger := slog.Default()
	slog.SetDefault(slog.New(logHandler))

	defer func() {
		slog.SetDefault(prevLogger)
		flushLogs(cmd.ErrOrStderr(), logBuf)
	}()

	if ra.ServeMCP != "" {
		go func() {
			err := serveMCP(ctx, sess, ra.ServeMCP)
			if err != nil {
				slog.Error("MCP server failed", slog.Any("err", err))
			}
		}()
	}

	opts := []ui.ModelOpt{
		ui.WithContext(ctx),
		ui.WithCellSize(cfg.Gesture.CellWidth, cfg.Gesture.CellHeight),
	}

	var progOpts []tea.ProgramOption

	if path == book.StdinPath {
		// Stdin held the document, so read keys from the terminal.
		progOpts = append(progOpts, tea.WithInputTTY())
	} else {
		opts = append(opts, ui.WithReloadFunc(func(ctx context.Context) (*book.Book, error) {
			return book.Load(ctx, path, cfg.Book.Options()...)
		}))
	}

	err = runUI(ui.NewModel(sess, cfg.UI, opts...), progOpts...)
	if err != nil {
		slog.Error("run UI", slog.Any("err", err))

		return fmt.Errorf("ui program failure: %w", err)
	}

	return nil
}

// loadConfig reads the config at path, falling back to defaults when the
// file cannot be read. A file that can be read but is invalid is an error.
func loadConfig(path string) (*config.Config, error) {
	cl, err := config.NewLoaderFromFile(path)
	if err != nil {
		slog.Warn("could not read config, using defaults", slog.Any("err", err))

		return config.NewConfig(), nil
	}

	cfg, err := cl.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	return cfg, nil
}

func showConfig(w io.Writer, cfg *config.Config) error {
	yamlBytes, err := cfg.MarshalYAML()
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	if !isTerminal(w) {
		_, err = w.Write(yamlBytes)
		if err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		return nil
	}

	t := theme.New(cfg.UI.Theme)

	err = quick.Highlight(w, string(yamlBytes), "yaml", "terminal256", t.ChromaStyle.Name)
	if err != nil {
		return fmt.Errorf("highlight config: %w", err)
	}

	return nil
}

// inputPath resolves the document path. With no path, a piped stdin is read.
func inputPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return "", ErrNoInput
	}

	return book.StdinPath, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// watch reloads sess whenever the file at path changes.
func watch(ctx context.Context, sess *session.Session, path string, opts []book.Opt) error {
	w, err := book.NewWatcher(path, opts...)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	go w.Run(ctx)

	go func() {
		defer func() {
			err := w.Close()
			if err != nil {
				slog.Error("close watcher", slog.Any("err", err))
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case b := <-w.Events():
				err := sess.Reload(ctx, b)
				if err != nil {
					slog.Error("reload book", slog.Any("err", err))
				}

			case err := <-w.Errors():
				slog.Warn("watch book", slog.Any("err", err))
			}
		}
	}()

	return nil
}

func serveMCP(ctx context.Context, sess *session.Session, address string) error {
	srv, err := mcp.NewServer(address, sess)
	if err != nil {
		return fmt.Errorf("create MCP server: %w", err)
	}

	err = srv.Serve(ctx)
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}

	return nil
}

func flushLogs(w io.Writer, buf *log.CircularBuffer) {
	slog.Debug("flush logs to console",
		slog.Int("count", buf.Len()),
		slog.Int("max", buf.Cap()),
	)

	_, err := buf.WriteTo(w)
	if err != nil {
		panic(err)
	}
}

func runUI(m ui.Model, opts ...tea.ProgramOption) error {
	_, err := ui.NewProgram(m, opts...).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tea: %w", err)
	}

	return nil
}
