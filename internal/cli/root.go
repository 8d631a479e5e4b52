// Package cli provides the fileup command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cliflag "github.com/tomasbasham/cli-runtime/flag"
	"github.com/tomasbasham/cli-runtime/iooption"
	"github.com/tomasbasham/cli-runtime/templates"

	"github.com/semmidev/fileup/internal/app"
	"github.com/semmidev/fileup/internal/clipboard"
	"github.com/semmidev/fileup/internal/config"
	"github.com/semmidev/fileup/internal/link"
	"github.com/semmidev/fileup/internal/usecase"
)

var (
	rootLong = templates.LongDesc(`
		Upload a file to a web server over FTP or SCP and print its public URL.

		Files can be given a lifetime in days. Every invocation deletes the
		files whose lifetime has passed.`)

	rootExamples = templates.Examples(`
		# Keep report.pdf for the default 90 days
		fileup report.pdf

		# Keep a notebook forever and print a plain link
		fileup analysis.ipynb -t 0 -d

		# Upload the clipboard as an image link
		fileup -c -i`)

	// Injected at build time using ldflags.
	version = ""
	commit  = ""
)

// Application is the part of app.App the commands drive.
type Application interface {
	Publish(ctx context.Context, req usecase.PublishRequest) (string, error)
	Sweep(ctx context.Context) (int, error)
	Shutdown()
}

// Clipboard is the part of clipboard.Clipboard the commands drive.
type Clipboard interface {
	ToTempFile(ctx context.Context, remoteName string) (string, string, error)
	Copy(ctx context.Context, text string) error
}

// AppFactory loads the configuration at path and builds the application.
type AppFactory func(path string) (Application, error)

// FileupOptions defines the options for the `fileup` command.
type FileupOptions struct {
	ConfigPath string
	Days       int
	Direct     bool
	Image      bool
	FromClip   bool

	localPath  string
	remoteName string
	tempFile   string

	newApp    AppFactory
	clipboard Clipboard

	iooption.IOStreams
}

// NewFileupOptions provides an initialised FileupOptions instance.
func NewFileupOptions(streams iooption.IOStreams) *FileupOptions {
	return &FileupOptions{
		IOStreams: streams,
		newApp:    loadApp,
		clipboard: clipboard.New(),
	}
}

func loadApp(path string) (Application, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize app: %w", err)
	}
	return application, nil
}

// NewRootCommand creates the `fileup` command with default arguments.
func NewRootCommand() *cobra.Command {
	options := NewFileupOptions(iooption.IOStreams{
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	})

	return NewRootCommandWithArgs(options)
}

// NewRootCommandWithArgs creates the `fileup` command and its nested
// children.
func NewRootCommandWithArgs(o *FileupOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "fileup [filename] [flags]",
		Version:               versionInfo(),
		DisableFlagsInUseLine: true,
		Short:                 "Upload a file to a web server and print its URL",
		Long:                  rootLong,
		Example:               rootExamples,
		Args:                  cobra.MaximumNArgs(1),
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run(cmd.Context())
		},
	}

	pflags := cmd.PersistentFlags()
	pflags.StringVar(&o.ConfigPath, "config", config.DefaultPath(), "Path to the configuration file")

	flags := cmd.Flags()
	flags.IntVarP(&o.Days, "time", "t", 90, "Days to keep the file; 0 keeps it forever")
	flags.BoolVarP(&o.Direct, "direct", "d", false, "Print the plain http URL")
	flags.BoolVarP(&o.Image, "img", "i", false, "Print the URL as Markdown image markup")
	flags.BoolVarP(&o.FromClip, "clipboard", "c", false, "Upload the clipboard content; the filename becomes the remote name")
	cmd.MarkFlagsMutuallyExclusive("direct", "img")

	cmd.AddCommand(NewSweepCommand(o))

	// The global normalisation function ensures that all flags specified meet
	// the desired format, changing users' input if necessary.
	cmd.SetGlobalNormalizationFunc(cliflag.WordSepNormalizeFunc())

	return cmd
}

func (o *FileupOptions) Complete(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		if !o.FromClip {
			return fmt.Errorf("filename is required")
		}
		return nil
	}

	if o.FromClip {
		o.remoteName = args[0]
	} else {
		o.localPath = args[0]
	}
	return nil
}

func (o *FileupOptions) Validate() error {
	if !o.FromClip && len(o.localPath) == 0 {
		return fmt.Errorf("filename is required")
	}
	return nil
}

func (o *FileupOptions) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := o.newApp(o.ConfigPath)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	if o.FromClip {
		if err := o.readClipboard(ctx); err != nil {
			return err
		}
		defer os.Remove(o.tempFile)
	}

	base, err := application.Publish(ctx, usecase.PublishRequest{
		LocalPath:     o.localPath,
		RemoteName:    o.remoteName,
		RetentionDays: o.Days,
	})
	if err != nil {
		return err
	}

	url := link.Present(base, o.style(), o.remoteNameOrPath())
	fmt.Fprintf(o.Out, "Your url is: %s\n", url)

	if err := o.clipboard.Copy(ctx, url); err != nil {
		fmt.Fprintf(o.ErrOut, "Could not copy the URL to the clipboard: %v\n", err)
	}

	return nil
}

func (o *FileupOptions) readClipboard(ctx context.Context) error {
	path, name, err := o.clipboard.ToTempFile(ctx, o.remoteName)
	if errors.Is(err, clipboard.ErrEmpty) {
		return err
	}
	if err != nil {
		return fmt.Errorf("read clipboard: %w", err)
	}

	o.tempFile = path
	o.localPath = path
	o.remoteName = name
	return nil
}

func (o *FileupOptions) style() link.Style {
	switch {
	case o.Direct:
		return link.StyleDirect
	case o.Image:
		return link.StyleImage
	default:
		return link.StyleAuto
	}
}

// remoteNameOrPath is what notebook detection looks at.
func (o *FileupOptions) remoteNameOrPath() string {
	if o.remoteName != "" {
		return o.remoteName
	}
	return o.localPath
}

func versionInfo() string {
	if version == "" {
		return ""
	}
	return fmt.Sprintf("%s (commit: %s)", version, commit)
}
