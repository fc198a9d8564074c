package scanner

import "fmt"

// TooLargeError marks a source skipped for exceeding the size ceiling.
type TooLargeError struct {
	Name  string
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("source %s is %d bytes, exceeds limit of %d", e.Name, e.Size, e.Limit)
}
