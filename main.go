package main

import "github.com/ngrobisa/artifactory-plugin/cmd"

func main() {
	cmd.Execute()
}
