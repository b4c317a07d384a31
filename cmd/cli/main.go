package main

import "helmtest/cmd/cli/app/cmd"

func main() {
	cmd.Execute()
}
