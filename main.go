package main

import "github.com/RyanBlaney/audio-risk/cmd"

func main() {
	cmd.Execute()
}
