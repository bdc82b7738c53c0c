package main

import (
	"github.com/spf13/cobra"
)

const releaseVersion = "1.0.0"

func main() {
	cobra.CheckErr(newCmd().Execute())
}
