package environment

import "strings"

type RequiredEnvError struct {
	Missing []string
}

var _ error = &RequiredEnvError{}

func (e *RequiredEnvError) Error() string {
	if len(e.Missing) == 1 {
		return e.Missing[0] + " not set"
	}
	return "missing required environment variables: " + strings.Join(e.Missing, ", ")
}
