package main

import "github.com/korryu3/github-profile-trophy/cmd"

func main() {
	cmd.Execute()
}
