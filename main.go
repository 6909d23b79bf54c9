package main

import "github.com/llmsh-dev/llmsh/cmd"

func main() {
	cmd.Execute()
}
