package main

import (
	"fmt"
	"os"

	"hornerito/cmd/classify"
	"hornerito/cmd/root"
	"hornerito/cmd/serve"
	"hornerito/internal/config"
)

func init() {
	config.LoadEnv()

	root.Cmd.AddCommand(serve.Cmd)
	root.Cmd.AddCommand(classify.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
