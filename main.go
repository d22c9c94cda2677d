package main

import "github.com/KaramelBytes/limnoplot/cmd"

func main() {
	cmd.Execute()
}
