package main

import (
	"log"

	"adminql/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		log.Fatalf("adminql: %v", err)
	}
}
