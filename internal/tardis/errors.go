package tardis

import "fmt"

// ConfigError reports that the invocation cannot start: the working
// directory or the home directory could not be resolved.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ParseError reports a metadata file that exists but cannot be decoded.
// Path is empty when the error comes straight from ParseRecord.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parsing history record: %v", e.Err)
	}
	return fmt.Sprintf("parsing history record %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NotFoundError reports that a requested backup, entry or file is missing.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return e.What + " not found"
}

// PathError reports a path that cannot be expressed relative to Base.
type PathError struct {
	Path string
	Base string
	Err  error
}

func (e *PathError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("path %s is not under %s: %v", e.Path, e.Base, e.Err)
	}
	return fmt.Sprintf("path %s is not under %s", e.Path, e.Base)
}

func (e *PathError) Unwrap() error { return e.Err }

// IOError reports a failed filesystem operation during restore or diff.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
