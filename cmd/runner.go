package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixcart/internal/auth"
	"github.com/desertthunder/mixcart/internal/services"
	"github.com/desertthunder/mixcart/internal/shared"
	"github.com/desertthunder/mixcart/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	session    *auth.Session
	flow       *auth.Flow
	spotify    *services.SpotifyClient
	proxy      *services.ProxyClient
	committer  *tasks.Committer
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Session    *auth.Session
	Flow       *auth.Flow
	Spotify    *services.SpotifyClient
	Proxy      *services.ProxyClient
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Session == nil {
		opts.Session = auth.NewSession()
	}
	if opts.Flow == nil {
		opts.Flow = auth.NewFlow(auth.FlowOpts{
			Session:     opts.Session,
			ClientID:    opts.Config.Credentials.Spotify.ClientID,
			RedirectURI: opts.Config.Credentials.Spotify.RedirectURI,
			HTTPClient:  opts.HTTPClient,
			Logger:      opts.Logger,
		})
	}
	if opts.Proxy == nil {
		opts.Proxy = services.NewProxyClient(opts.Config.Proxy.BaseURL, opts.HTTPClient)
	}
	if opts.Spotify == nil {
		opts.Spotify, _ = services.NewSpotifyClient(services.SpotifyOpts{
			Session: opts.Session,
			Logger:  opts.Logger,
		})
	}

	return &Runner{
		config:     opts.Config,
		session:    opts.Session,
		flow:       opts.Flow,
		spotify:    opts.Spotify,
		proxy:      opts.Proxy,
		committer:  tasks.NewCommitter(opts.Spotify, opts.Logger),
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the Runner's logger, used to redirect logs away from the terminal while the TUI owns it.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// loadConfig replaces the Runner's configuration with the file at path and
// rebuilds the clients derived from it. A missing file is not an error, so
// the default path works before 'mixcart setup config' has run. A session
// that already holds a token keeps its flow untouched.
func (r *Runner) loadConfig(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}

	r.config = config
	r.proxy = services.NewProxyClient(config.Proxy.BaseURL, r.httpClient)
	if _, ok := r.flow.Token(); !ok {
		r.flow = auth.NewFlow(auth.FlowOpts{
			Session:     r.session,
			ClientID:    config.Credentials.Spotify.ClientID,
			RedirectURI: config.Credentials.Spotify.RedirectURI,
			HTTPClient:  r.httpClient,
			Logger:      r.logger,
		})
	}

	return nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, searchCommand, commitCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
