package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blockedby/resumekit/internal/models"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run checks every file and returns the process exit code.
func run(paths []string, out io.Writer) int {
	if len(paths) == 0 {
		fmt.Fprintln(out, "No files to check.")
		return 0
	}

	failed := false
	for _, path := range paths {
		if err := check(path); err != nil {
			fmt.Fprintf(out, "❌ %s\n", path)
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(out, "   %s\n", line)
			}
			failed = true
			continue
		}
		fmt.Fprintf(out, "✅ %s is valid\n", path)
	}

	if failed {
		return 1
	}
	return 0
}

func check(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	resume, err := models.ParseResume(data)
	if err != nil {
		return err
	}

	var errs []error
	if err := resume.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(resume.SelectedSkills()) == 0 && len(resume.HardSkills)+len(resume.SoftSkills) > 0 {
		errs = append(errs, errors.New("no skill is selected, the skills section will show a placeholder"))
	}
	return errors.Join(errs...)
}
