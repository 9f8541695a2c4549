package main

import "edusync/cmd/client/cmd"

func main() {
	cmd.Execute()
}
