package main

import "github.com/cfm-gis/unarchive/cmd"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the unarchive cli
func main() {
	cmd.Run(version, commit, date)
}
