package main

import "github.com/nyambati/funclet/cmd/funclet"

func main() {
	funclet.Execute()
}
