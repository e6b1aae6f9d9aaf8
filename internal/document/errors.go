package document

import "fmt"

// NotFoundError reports an element id with no matching element.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("element %q not found", e.ID)
}

// AttributeMissingError reports an attribute absent from its element.
type AttributeMissingError struct {
	ID   string
	Attr string
}

func (e *AttributeMissingError) Error() string {
	return fmt.Sprintf("element %q has no attribute %q", e.ID, e.Attr)
}
