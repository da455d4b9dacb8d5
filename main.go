package main

import (
	"log"

	"github.com/spigell/career-chef/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
