package main

import (
	"fmt"
	"os"

	"github.com/oakwood-commons/jsonview/cmd"
	"github.com/oakwood-commons/jsonview/pkg/logger"
)

func main() {
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	logger.Sync()
	if code := cmd.ExitCode(err); code != 0 {
		os.Exit(code)
	}
}
