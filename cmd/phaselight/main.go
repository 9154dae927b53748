package main

import (
	"log"

	cmd "github.com/anggasct/phaselight/cmd/phaselight/commands"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Fatalf("Panic: %+v", r)
		}
	}()

	cmd.Execute()
}
