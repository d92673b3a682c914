package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
)

// CommandData runs a program and returns its standard output unchanged. A
// nonzero exit is an error unless allowNonzeroExit is set, in which case the
// output gathered so far is returned.
func CommandData(ctx context.Context, argv []string, allowNonzeroExit bool) ([]byte, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, ErrEmptyCommand
	}

	// #nosec G204 - argv comes from configuration or the caller
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && allowNonzeroExit {
			return stdout.Bytes(), nil
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("failed to run %s: %w: %s", argv[0], err, msg)
		}
		return nil, fmt.Errorf("failed to run %s: %w", argv[0], err)
	}

	return stdout.Bytes(), nil
}

// ProcessCwds finds the current working directories of the given processes
// with a single lsof invocation. Processes lsof cannot report on are left out
// of the result.
func ProcessCwds(ctx context.Context, lsofPath string, pids []int) (map[int]string, error) {
	if len(pids) == 0 {
		return map[int]string{}, nil
	}

	argv := []string{lsofPath, "-a", "-d", "cwd", "-Fn"}
	for _, pid := range pids {
		argv = append(argv, "-p", strconv.Itoa(pid))
	}

	// lsof exits nonzero if any pid is missing even when others are found
	out, err := CommandData(ctx, argv, true)
	if err != nil {
		return nil, err
	}

	return ParseLsofCwds(out), nil
}

// ParseLsofCwds reads lsof field output, where a "p<pid>" line is followed by
// an "n<path>" line for the process's directory.
func ParseLsofCwds(out []byte) map[int]string {
	result := make(map[int]string)
	pid := -1

	for _, field := range strings.Split(string(out), "\n") {
		if len(field) < 2 {
			continue
		}
		switch field[0] {
		case 'p':
			n, err := strconv.Atoi(field[1:])
			if err != nil {
				pid = -1
				continue
			}
			pid = n
		case 'n':
			if pid >= 0 {
				result[pid] = field[1:]
				pid = -1
			}
		}
	}

	return result
}

// SortedPids returns the keys of a ProcessCwds result in ascending order.
func SortedPids(cwds map[int]string) []int {
	pids := make([]int, 0, len(cwds))
	for pid := range cwds {
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids
}
