package main

import "github.com/RyanBlaney/drone-sonar/cmd"

func main() {
	cmd.Execute()
}
