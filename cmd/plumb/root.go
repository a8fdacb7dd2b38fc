package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/odvcencio/plumb/pkg/object"
	"github.com/odvcencio/plumb/pkg/repo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const version = "plumb 0.1.0-dev"

// defaultIdentity is used for any field the config file leaves empty.
var defaultIdentity = object.Identity{
	Name:     "Plumb User",
	Email:    "plumb@localhost",
	Timezone: "+0000",
}

// app holds state shared by every subcommand of one invocation.
type app struct {
	verbose    bool
	configPath string
	log        *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: logrus.New()}

	root := &cobra.Command{
		Use:           "plumb",
		Short:         "Content-addressed object store and snapshot builder",
		Version:       version,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setupLogging(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug events to stderr")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "identity config file (default .git/"+repo.ConfigFileName+")")

	root.AddCommand(newInitCmd(a))
	root.AddCommand(newCatFileCmd(a))
	root.AddCommand(newHashObjectCmd(a))
	root.AddCommand(newLsTreeCmd(a))
	root.AddCommand(newWriteTreeCmd(a))
	root.AddCommand(newCommitTreeCmd(a))

	return root
}

func (a *app) setupLogging(w io.Writer) {
	a.log.SetOutput(w)
	a.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	a.log.SetLevel(logrus.WarnLevel)
	if a.verbose {
		a.log.SetLevel(logrus.DebugLevel)
	}
}

// openRepo opens the repository containing the working directory and
// routes its debug events to the command logger.
func (a *app) openRepo() (*repo.Repo, error) {
	r, err := repo.Open(".")
	if err != nil {
		return nil, err
	}
	r.Log = a.log
	return r, nil
}

// identity resolves the commit identity: config file values over
// defaultIdentity.
func (a *app) identity(r *repo.Repo) (object.Identity, error) {
	var (
		cfg *repo.Config
		err error
	)
	if a.configPath != "" {
		path, perr := filepath.Abs(a.configPath)
		if perr != nil {
			return object.Identity{}, fmt.Errorf("resolve config path: %w", perr)
		}
		if _, serr := os.Stat(path); serr != nil {
			return object.Identity{}, fmt.Errorf("config: %w", serr)
		}
		cfg, err = repo.LoadConfig(path)
	} else {
		cfg, err = r.ReadConfig()
	}
	if err != nil {
		return object.Identity{}, err
	}
	id := cfg.Identity(defaultIdentity)
	a.log.WithFields(logrus.Fields{"name": id.Name, "email": id.Email, "timezone": id.Timezone}).Debug("resolved identity")
	return id, nil
}
