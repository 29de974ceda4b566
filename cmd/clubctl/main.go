package main

import (
	"github.com/bornholm/clubhouse/internal/command"
	"github.com/bornholm/clubhouse/internal/command/fixture"
	"github.com/bornholm/clubhouse/internal/command/record"
)

func main() {
	command.Main(
		"clubctl",
		"Clubhouse administration tool",
		fixture.Command(),
		record.Command(),
	)
}
