package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/template"
	"time"

	"github.com/carbonwatch/carbonwatch/internal/config"
	"github.com/carbonwatch/carbonwatch/internal/meta"
	"github.com/carbonwatch/carbonwatch/internal/schedule"
	"github.com/carbonwatch/carbonwatch/internal/store"
	"github.com/spf13/pflag"
)

const (
	APIKeyEnv = "CO2SIGNAL_API_KEY"
)

type CarbonwatchCommand struct {
	OutStream io.Writer
	ErrStream io.Writer

	// Getenv is used to read environment variables. os.Getenv is used if nil.
	Getenv func(string) string

	ConfigPath  string
	APIKey      string
	CountryCode string
	Interval    string
	AlertMode   string
	Threshold   float64
	APIBaseURL  string
	AlertURLs   []string
	ListenPort  int
	StorePath   string
	UserInfo    string
	OneshotMode bool
	ShowVersion bool
	ShowHelp    bool

	Config    config.Config
	Schedule  schedule.Schedule
	StartedAt time.Time
}

var defaultCarbonwatchCommand = &CarbonwatchCommand{
	OutStream: os.Stdout,
	ErrStream: os.Stderr,
}

//go:embed help.txt
var helpText string

func (cmd *CarbonwatchCommand) PrintUsage(detail bool) {
	tmpl := template.Must(template.New("help.txt").Parse(helpText))
	tmpl.Execute(cmd.ErrStream, map[string]interface{}{
		"Version":         meta.Version,
		"DefaultInterval": config.DefaultRefreshInterval,
		"Short":           !detail,
	})
}

func (cmd *CarbonwatchCommand) getenv(key string) string {
	if cmd.Getenv != nil {
		return cmd.Getenv(key)
	}
	return os.Getenv(key)
}

func (cmd *CarbonwatchCommand) ParseArgs(args []string) (exitCode int) {
	flags := pflag.NewFlagSet("carbonwatch", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)

	flags.StringVar(&cmd.ConfigPath, "config", "", "Path to YAML config file")
	flags.StringVarP(&cmd.APIKey, "api-key", "k", "", "CO2 Signal API key")
	flags.StringVarP(&cmd.CountryCode, "country", "c", "", "Country code")
	flags.StringVarP(&cmd.Interval, "interval", "i", "", "Refresh schedule")
	flags.StringVarP(&cmd.AlertMode, "alert-mode", "m", "", "Alert mode")
	flags.Float64VarP(&cmd.Threshold, "threshold", "t", 0, "Alert threshold")
	flags.StringVar(&cmd.APIBaseURL, "api-url", "", "Base URL of CO2 Signal API")
	flags.StringArrayVarP(&cmd.AlertURLs, "alert", "a", nil, "The alert URLs")
	flags.IntVarP(&cmd.ListenPort, "port", "p", 9000, "HTTP listen port")
	flags.StringVarP(&cmd.StorePath, "log-file", "f", "carbonwatch.log", "Path to log file")
	flags.StringVarP(&cmd.UserInfo, "user", "u", "", "Username and password for HTTP endpoint")
	flags.BoolVarP(&cmd.OneshotMode, "oneshot", "1", false, "Fetch only once and exit")
	flags.BoolVarP(&cmd.ShowVersion, "version", "v", false, "Show version")
	flags.BoolVarP(&cmd.ShowHelp, "help", "h", false, "Show help message")
	flags.MarkHidden("api-url")

	if err := flags.Parse(args[1:]); err != nil {
		fmt.Fprintln(cmd.ErrStream, err)
		fmt.Fprintf(cmd.ErrStream, "\nPlease see `%s -h` for more information.\n", args[0])
		return 2
	}

	if cmd.ShowVersion || cmd.ShowHelp {
		return 0
	}

	if flags.NArg() > 0 {
		fmt.Fprintf(cmd.ErrStream, "invalid argument: unexpected argument: %s\n", flags.Arg(0))
		fmt.Fprintf(cmd.ErrStream, "\nPlease see `%s -h` for more information.\n", args[0])
		return 2
	}

	if cmd.OneshotMode {
		if flags.Changed("port") {
			fmt.Fprintln(cmd.ErrStream, "warning: port option will ignored in the oneshot mode.")
		}
		if flags.Changed("user") {
			fmt.Fprintln(cmd.ErrStream, "warning: user option will ignored in the oneshot mode.")
		}
		if flags.Changed("interval") {
			fmt.Fprintln(cmd.ErrStream, "warning: interval option will ignored in the oneshot mode.")
		}
	}

	if cmd.StorePath == "-" {
		cmd.StorePath = ""
	}

	cmd.Config = config.Default()
	if cmd.ConfigPath != "" {
		var err error
		cmd.Config, err = config.Load(cmd.ConfigPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(cmd.ErrStream, "error: config file does not exist: %s\n", cmd.ConfigPath)
			} else {
				fmt.Fprintf(cmd.ErrStream, "error: failed to read config file: %s\n", err)
			}
			return 2
		}
	}

	if flags.Changed("api-key") {
		cmd.Config.APIKey = cmd.APIKey
	}
	if cmd.Config.APIKey == "" {
		cmd.Config.APIKey = cmd.getenv(APIKeyEnv)
	}
	if flags.Changed("country") {
		cmd.Config.CountryCode = cmd.CountryCode
	}
	if flags.Changed("interval") {
		cmd.Config.Schedule = cmd.Interval
	}
	if flags.Changed("alert-mode") {
		cmd.Config.AlertMode = cmd.AlertMode
	}
	if flags.Changed("threshold") {
		cmd.Config.AlertThreshold = cmd.Threshold
	}
	if flags.Changed("api-url") {
		cmd.Config.APIBaseURL = cmd.APIBaseURL
	}
	if flags.Changed("alert") {
		cmd.Config.AlertURLs = append(cmd.Config.AlertURLs, cmd.AlertURLs...)
	}

	if flags.NFlag() == 0 {
		cmd.PrintUsage(false)
		return 2
	}

	if err := cmd.Config.Validate(); err != nil {
		fmt.Fprintln(cmd.ErrStream, err)
		fmt.Fprintf(cmd.ErrStream, "\nPlease see `%s -h` for more information.\n", args[0])
		return 2
	}

	cmd.Schedule, _ = cmd.Config.ParseSchedule()

	return 0
}

func (cmd *CarbonwatchCommand) PrintVersion() {
	fmt.Fprintf(cmd.OutStream, "carbonwatch version %s (%s)\n", meta.Version, meta.Commit)
}

func (cmd *CarbonwatchCommand) Run(args []string) (exitCode int) {
	if code := cmd.ParseArgs(args); code != 0 {
		return code
	}

	if cmd.ShowVersion {
		cmd.PrintVersion()
		return 0
	}

	if cmd.ShowHelp {
		cmd.PrintUsage(true)
		return 0
	}

	console := cmd.OutStream
	if cmd.OneshotMode {
		console = io.Discard
	}

	s, err := store.New(cmd.StorePath, console)
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: failed to open log file: %s\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd.OneshotMode {
		exitCode = cmd.RunOneshot(ctx, s)
	} else {
		exitCode = cmd.RunServer(ctx, s)
	}

	s.Close()

	healthy, _ := s.Errors()
	if exitCode == 0 && !healthy {
		return 1
	}

	return exitCode
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "oneshot":
			os.Args[1] = "-1"
		case "conv", "convert":
			os.Exit(defaultConvCommand.Run(os.Args))
		}
	}

	os.Exit(defaultCarbonwatchCommand.Run(os.Args))
}
