// Package procs reports which of a desktop's dependencies are running.
package procs

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mitchellh/go-ps"
)

// Lister enumerates running processes.
type Lister func() ([]ps.Process, error)

// Status is the run state of one dependency.
type Status struct {
	Name    string
	Running bool
	PIDs    []int
}

// Checker matches dependency names against running executables.
type Checker struct {
	list Lister
}

// NewChecker returns a Checker backed by list, or by ps.Processes when list
// is nil.
func NewChecker(list Lister) *Checker {
	if list == nil {
		list = ps.Processes
	}
	return &Checker{list: list}
}

// Check returns the status of every dependency, in the order given.
// Dependencies may name a command with arguments or a path; only the base
// name of the first word is compared.
func (c *Checker) Check(deps []string) ([]Status, error) {
	processes, err := c.list()
	if err != nil {
		return nil, fmt.Errorf("failed to get process list: %w", err)
	}

	byName := make(map[string][]int, len(processes))
	for _, p := range processes {
		byName[p.Executable()] = append(byName[p.Executable()], p.Pid())
	}

	statuses := make([]Status, 0, len(deps))
	for _, dep := range deps {
		exe := executable(dep)
		pids := slices.Clone(byName[exe])
		slices.Sort(pids)
		statuses = append(statuses, Status{Name: dep, Running: len(pids) > 0, PIDs: pids})
	}
	return statuses, nil
}

func executable(dep string) string {
	fields := strings.Fields(dep)
	if len(fields) == 0 {
		return ""
	}
	return filepath.Base(fields[0])
}
