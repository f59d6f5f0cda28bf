// Command server runs the whisper web backend.
//
//	server                  # serve (default command)
//	server serve --port 9000
//	server seed             # fill an empty encouragement pool and exit
//
// Every flag can also be set through the environment variable shown in
// --help, so container deployments need no command line.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("whisper"),
		kong.Description("Mood journal web server."),
		kong.UsageOnError(),
	)

	logger, closeLog, err := newLogger(cli.LogLevel, cli.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := ctx.Run(&appContext{logger: logger}); err != nil {
		logger.Error("command failed",
			slog.String("command", ctx.Command()),
			slog.String("error", err.Error()),
		)
		closeLog()
		os.Exit(1)
	}
}
