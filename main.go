package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/tplc/cli"
	"github.com/ardnew/tplc/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		cli.Report(os.Stderr, err)
		log.Debug(
			"run failed",
			slog.Any("error", err),
		) // slog automatically uses LogValue()
		os.Exit(1)
	}
}
