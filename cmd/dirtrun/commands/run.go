package commands

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Montana/dirt/app"
	"github.com/Montana/dirt/config"
	consulx "github.com/Montana/dirt/infra/consul"
	"github.com/Montana/dirt/rpc"
	"github.com/Montana/dirt/shell"
	"github.com/Montana/dirt/supervisor"
)

var (
	flagListApps bool
	flagShellApp string
	flagStop     bool
	flagChild    string
)

// runCmd implements `run [-h|--help] [--list-apps] [--shell APP] [--stop]
// APP_NAME…` with exit codes matching §4.8.
var runCmd = &cobra.Command{
	Use:   "run [APP_NAME...]",
	Short: "Launch declared apps, or inspect/control them",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagListApps, "list-apps", false, "list the apps declared in the settings document and exit")
	runCmd.Flags().StringVar(&flagShellApp, "shell", "", "drop into an interactive shell against the named app")
	runCmd.Flags().BoolVar(&flagStop, "stop", false, "stop the named apps and exit")
	runCmd.Flags().StringVar(&flagChild, "child", "", "internal: run a single app in this process (used by the supervisor's re-exec)")
	_ = runCmd.Flags().MarkHidden("child")
}

func runRun(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings(cfgFile)
	if err != nil {
		os.Exit(exitError)
		return err
	}

	if flagListApps {
		names := settings.AppNames()
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	}

	if flagChild != "" {
		os.Exit(runChild(settings, flagChild))
		return nil
	}

	runner := supervisor.NewRunner(settings, rpc.DefaultRegistry, rpc.StdLogger{})
	if cc := maybeConsulClient(); cc != nil {
		runner.Consul = cc
	}

	if flagStop {
		for _, name := range args {
			if err := supervisor.Stop(settings.PIDFilePath(name), func(f string, a ...any) { fmt.Fprintf(cmd.OutOrStdout(), f+"\n", a...) }); err != nil {
				os.Exit(exitError)
				return err
			}
		}
		return nil
	}

	if flagShellApp != "" {
		handle, err := runner.GetAPI(flagShellApp)
		if err != nil {
			os.Exit(exitError)
			return err
		}
		if err := shell.Run(flagShellApp, handle, cmd.OutOrStdout()); err != nil {
			os.Exit(exitError)
			return err
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("run: no app names given (use --list-apps to see what's declared)")
	}

	code := runner.RunMany(args)
	if code != exitNormal {
		os.Exit(code)
	}
	return nil
}

// maybeConsulClient builds a Consul service registrar when config/server.yaml
// declares one; the app-level ServerConfig document is itself optional (a
// bare dirtrun deployment with no backing-service apps has no use for it),
// so a missing/unreadable file or unset Consul.Addr both mean "skip it"
// rather than a startup failure.
func maybeConsulClient() (cc *consulx.ConsulClient) {
	defer func() {
		if recover() != nil {
			cc = nil
		}
	}()
	cfg := config.GetServerConfig().Consul
	if cfg.Addr == "" {
		return nil
	}
	client, err := consulx.NewConsulClient(cfg)
	if err != nil {
		return nil
	}
	return client
}

// Exit codes (§4.8): 0 normal, 1 error, 4 interrupted, 99 clean stop (do not
// cascade).
const (
	exitNormal      = supervisor.ExitNormal
	exitError       = supervisor.ExitError
	exitInterrupted = supervisor.ExitInterrupted
	exitCleanStop   = supervisor.ExitCleanStop
)

// runChild is the body of a re-exec'd `dirtrun run --child NAME` process: it
// constructs the named app, serves its API, and blocks until a termination
// signal arrives (§4.8 "in the child constructs and starts the app").
func runChild(settings *config.Settings, name string) int {
	as, ok := settings.Apps[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "dirtrun: no such app %q in settings\n", name)
		return exitError
	}

	built, err := app.Build(as.AppClass, as)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dirtrun: build app %q: %v\n", name, err)
		return exitError
	}

	driver := app.NewDriver(built, as, rpc.DefaultRegistry, rpc.StdLogger{})
	driver.Resolver = supervisor.NewRunner(settings, rpc.DefaultRegistry, rpc.StdLogger{})
	if err := driver.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "dirtrun: start app %q: %v\n", name, err)
		return exitError
	}

	if settings.AppPIDFile != "" {
		if err := supervisor.WritePIDFile(settings.PIDFilePath(name)); err != nil {
			fmt.Fprintf(os.Stderr, "dirtrun: write pidfile for %q: %v\n", name, err)
		}
		defer supervisor.RemovePIDFile(settings.PIDFilePath(name))
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigc

	_ = driver.Stop()

	if sig == syscall.SIGINT {
		return exitInterrupted
	}
	return exitCleanStop
}
