package cli

import (
	"github.com/spf13/cobra"

	"github.com/noah-isme/research-guide-api/pkg/config"
)

// Execute runs the guide command tree.
func Execute() error {
	return NewRoot().Execute()
}

var loadConfig = config.Load

type rootOptions struct {
	apiURL   string
	backend  string
	draftDir string
	key      string
	logLevel string
}

// NewRoot builds the guide command tree.
func NewRoot() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "guide",
		Short:         "Step-by-step research project authoring guide",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", "", "Document rendering service URL (default from GUIDE_API_URL)")
	flags.StringVar(&opts.backend, "backend", "", "Draft storage backend: file, redis or postgres")
	flags.StringVar(&opts.draftDir, "draft-dir", "", "Directory for the file draft backend")
	flags.StringVar(&opts.key, "key", "", "Draft storage key")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level written to stderr")

	root.AddCommand(
		showCmd(opts),
		setCmd(opts),
		checkCmd(opts),
		stepCmd(opts),
		stepsCmd(opts),
		concludeCmd(opts),
		exampleCmd(opts),
		resetCmd(opts),
		progressCmd(opts),
		generateCmd(opts),
	)
	return root
}

func (o *rootOptions) apply(cfg *config.Config) {
	if o.apiURL != "" {
		cfg.Guide.APIURL = config.NormalizeBaseURL(o.apiURL)
	}
	if o.backend != "" {
		cfg.Guide.DraftBackend = o.backend
	}
	if o.draftDir != "" {
		cfg.Guide.DraftDir = o.draftDir
	}
	if o.key != "" {
		cfg.Guide.StorageKey = o.key
	}
}
