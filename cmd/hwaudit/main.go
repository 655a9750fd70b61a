package main

import (
	"fmt"
	"os"

	"github.com/abdidvp/hwaudit/internal/adapters/inbound/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hwaudit:", err)
		os.Exit(1)
	}
}
