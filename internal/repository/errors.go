package repository

// ValidationError reports a cross-field inconsistency in client-supplied
// filter parameters. It is raised before any query executes.
type ValidationError struct {
	Message string
}

func (v *ValidationError) Error() string {
	return v.Message
}

// NotFoundError reports a lookup that yielded no rows where exactly one was
// expected, e.g. a single storage item fetch.
type NotFoundError struct {
	Message string
}

func (n *NotFoundError) Error() string {
	return n.Message
}

// UniqueConstraintError represents a database unique constraint violation error.
type UniqueConstraintError struct {
	Detail string
}

func (u *UniqueConstraintError) Error() string {
	return "resource must be unique: " + u.Detail
}
