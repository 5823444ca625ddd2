// Package main starts the geovault server and tooling.
package main

import "github.com/yeisme/geovault/pkg/cmd"

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
