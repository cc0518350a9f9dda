package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"todo-cli/internal/store"

	"github.com/spf13/cobra"
)

// warnNotFound reports an unknown id without failing: the store treats it as a no-op.
func warnNotFound(cmd *cobra.Command, id int64) {
	fmt.Fprintln(cmd.ErrOrStderr(), "warning: "+store.NotFoundError{ID: id}.Error())
}

// warnPersist surfaces a failed write. The change is kept in memory for the
// rest of the command, but it is lost once the process exits.
func warnPersist(cmd *cobra.Command, s *store.Store) {
	if err := s.LastPersistError(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: "+err.Error())
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, store.ValidationError{Field: "id", Reason: fmt.Sprintf("must be a positive integer, got %q", s)}
	}
	return id, nil
}

func parseIndex(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, store.ValidationError{Field: name, Reason: fmt.Sprintf("must be an integer, got %q", s)}
	}
	return n, nil
}

// isUserError reports failures caused by bad input rather than the environment.
func isUserError(err error) bool {
	var verr store.ValidationError
	return errors.As(err, &verr) || errors.Is(err, store.ErrOutOfRange)
}

// ExitCode maps a command error to the process exit status: 1 for bad input,
// 2 for everything else (unreadable config, listen failures, ...).
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case isUserError(err):
		return 1
	default:
		return 2
	}
}
