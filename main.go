package main

import "github.com/TunaEngine/OcarinaArranger-sub000/cmd"

func main() {
	cmd.Execute()
}
