// Package main provides the rollup CLI for evaluating cost graphs.
package main

func main() {
	Execute()
}
