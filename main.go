package main

import "github.com/macterm/quillkit/cmd"

func main() {
	cmd.Execute()
}
