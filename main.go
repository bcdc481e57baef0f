package main

import (
	"github.com/sirupsen/logrus"

	"signup-relay/pkg/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		logrus.Fatalf("Error starting server: %v", err)
	}
}
