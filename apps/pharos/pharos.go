package main

import (
	"fmt"
	"os"

	"github.com/APTrust/pharos/models/common"
	"github.com/APTrust/pharos/store"
	"github.com/APTrust/pharos/util"
	"github.com/APTrust/pharos/util/cli"
	"github.com/APTrust/pharos/web"
)

func main() {
	cli.Init()
	opts := cli.ParseOpts()
	if opts.PrintHelp {
		printHelp()
		os.Exit(0)
	}

	config, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if config.PidFile != "" {
		if err = util.ClaimPidFile(config.PidFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer util.DeletePidFile(config.PidFile)
	}

	context, err := common.NewContextFromConfig(config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer context.Close()

	if opts.Migrate {
		context.Logger.Info("Migrating database")
		if err = store.Migrate(context.DB); err != nil {
			context.Logger.Fatalf("Migration failed: %v", err)
		}
	}

	server := web.NewServer(context)
	if err = server.Run(); err != nil {
		context.Logger.Errorf("Server stopped: %v", err)
	}
}

func loadConfig(opts cli.Options) (*common.Config, error) {
	if opts.HasConfig() {
		return common.LoadConfig(opts.ConfigDir, opts.ConfigName)
	}
	return common.NewConfig(), nil
}

func printHelp() {
	message := `
pharos serves the APTrust registry: institutions, users, intellectual
objects, generic files, PREMIS events and work items, each filtered
by what the requesting user is allowed to see.

Workers and scripts authenticate with the X-Pharos-API-User and
X-Pharos-API-Key headers. Browsers use a session cookie, and users of
institutions that require two-factor auth must approve a push
challenge before they see anything.

Run with -migrate to create or update the database tables first.
`
	fmt.Println(message)
	fmt.Println(cli.EnvMessage)
	cli.PrintDefaults()
}
