// Package main is the entry point for the Videoflix command line client.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/common-nighthawk/go-figure"

	"github.com/videoflix/videoflix-client/internal/config"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Printf("loading .env failed: %v\n", err)
	}

	displayAppname(config.New().GetAppName())

	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
