package main

import "github.com/pfrederiksen/dp-monitor/internal/cli"

func main() {
	cli.Execute()
}
