package domain

import "github.com/gofiber/fiber/v2"

type ErrorKind string

const (
	KindInvalidUUID          ErrorKind = "invalid_changeset_uuid"
	KindInvalidChangesetData ErrorKind = "invalid_changeset_data"
	KindBadChangesetStatus   ErrorKind = "bad_changeset_status"
	KindForbidden            ErrorKind = "forbidden"
	KindCannotEdit           ErrorKind = "cannot_edit"
	KindCannotCreate         ErrorKind = "cannot_create"
	KindCannotEditOthers     ErrorKind = "cannot_edit_others"
	KindPublishUnauthorized  ErrorKind = "publish_unauthorized"
	KindInvalidParam         ErrorKind = "invalid_param"
	KindAlreadyTrashed       ErrorKind = "already_trashed"
	KindNotFound             ErrorKind = "not_found"
	KindStorageFailure       ErrorKind = "storage_failure"
)

// Error is the domain-level failure type. Services return it and the
// middleware error handler maps it onto the HTTP response.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func ErrInvalidUUID() *Error {
	return &Error{Kind: KindInvalidUUID, Status: fiber.StatusNotFound, Message: "Invalid changeset UUID"}
}

func ErrInvalidChangesetData(message string) *Error {
	if message == "" {
		message = "Invalid changeset data"
	}
	return &Error{Kind: KindInvalidChangesetData, Status: fiber.StatusBadRequest, Message: message}
}

func ErrBadChangesetStatus(status string) *Error {
	return &Error{Kind: KindBadChangesetStatus, Status: fiber.StatusBadRequest, Message: "Invalid changeset status: " + status}
}

func ErrForbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Status: fiber.StatusForbidden, Message: message}
}

func ErrCannotEdit(message string) *Error {
	return &Error{Kind: KindCannotEdit, Status: fiber.StatusForbidden, Message: message}
}

func ErrCannotCreate(message string) *Error {
	return &Error{Kind: KindCannotCreate, Status: fiber.StatusForbidden, Message: message}
}

func ErrCannotEditOthers() *Error {
	return &Error{Kind: KindCannotEditOthers, Status: fiber.StatusForbidden, Message: "Not allowed to save changesets as this user"}
}

func ErrPublishUnauthorized() *Error {
	return &Error{Kind: KindPublishUnauthorized, Status: fiber.StatusForbidden, Message: "Not allowed to publish changesets"}
}

func ErrInvalidParam(message string) *Error {
	return &Error{Kind: KindInvalidParam, Status: fiber.StatusBadRequest, Message: message}
}

func ErrAlreadyTrashed() *Error {
	return &Error{Kind: KindAlreadyTrashed, Status: fiber.StatusGone, Message: "The changeset has already been deleted"}
}

func ErrNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: fiber.StatusNotFound, Message: message}
}

func ErrStorageFailure(err error) *Error {
	return &Error{Kind: KindStorageFailure, Status: fiber.StatusInternalServerError, Message: "Storage failure: " + err.Error()}
}
