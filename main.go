package main

import "github.com/agendaq/agendaq_backend/cmd"

func main() {
	cmd.Execute()
}
