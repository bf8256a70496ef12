package main

import "github.com/dsg/pharmacy-finder/cmd"

func main() {
	cmd.Execute()
}
