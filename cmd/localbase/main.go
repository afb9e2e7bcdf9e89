// Package main provides the localbase CLI.
package main

import "github.com/rewardmaths/localbase/internal/cli"

func main() {
	cli.Execute()
}
