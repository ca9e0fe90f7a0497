package main

import "github.com/Seghelicious/build-ml-pipeline-for-short-term-rental-prices/cmd"

func main() {
	cmd.Execute()
}
