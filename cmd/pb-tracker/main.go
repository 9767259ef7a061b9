package main

import "github.com/grahampellegrini/pb-tracker/internal/cli"

func main() {
	cli.Execute()
}
