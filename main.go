package main

import "github.com/KaramelBytes/vizrec-cli/cmd"

func main() {
	cmd.Execute()
}
