package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/localhub/hfhub/internal/config"
	"github.com/localhub/hfhub/internal/logging"
	"github.com/localhub/hfhub/internal/modelhub"
	"github.com/localhub/hfhub/internal/server"
	"github.com/localhub/hfhub/internal/server/routes"
	"github.com/localhub/hfhub/internal/version"
)

// cliOptions summarizes the parsed CLI flags, injectable for tests.
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run executes the process according to the parsed CLI options and returns
// an exit code, so tests can drive it without os.Exit.
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(*cfg)
	if err != nil {
		fmt.Fprintf(stdErr, "failed to initialize logger: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["root_dir"] = cfg.RootDir
		fields["result"] = "ok"
		logger.WithFields(fields).Info("config_check_passed")
		return 0
	}

	svc := modelhub.New(cfg)

	fields := logging.BaseFields("startup", opts.configPath)
	fields["root_dir"] = cfg.RootDir
	fields["listen_port"] = cfg.ListenPort
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("config_loaded")

	if err := startHTTPServer(cfg, svc, logger); err != nil {
		fmt.Fprintf(stdErr, "failed to start HTTP server: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags parses the process arguments, folding in the environment
// variable override for the config path.
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("hfhub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "config file path (defaults to ./config.toml, overridable via HFHUB_CONFIG)")
	fs.BoolVar(&checkOnly, "check-config", false, "validate config and exit")
	fs.BoolVar(&showVer, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("parse flags: %w", err)
	}

	path := os.Getenv("HFHUB_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

func startHTTPServer(cfg *config.Config, svc *modelhub.Service, logger *logrus.Logger) error {
	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Service:    svc,
		ListenPort: cfg.ListenPort,
	})
	if err != nil {
		return err
	}
	routes.RegisterAll(app, svc, logger)

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   cfg.ListenPort,
	}).Info("server_listen")

	return app.Listen(fmt.Sprintf("%s:%d", cfg.ListenAddr, cfg.ListenPort))
}
