package inkwell

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes carried by pipeline errors. Callers branch on the class through
// the Is* predicates rather than matching messages.
const (
	TextCodeCredentialRejected   = "CREDENTIAL_REJECTED"
	TextCodeTransportUnavailable = "TRANSPORT_UNAVAILABLE"
	TextCodeOperationRejected    = "OPERATION_REJECTED"
	TextCodeMalformedResponse    = "MALFORMED_RESPONSE"
)

func newCredentialRejected(detail, method, path string) error {
	msg := "credential rejected"
	if detail != "" {
		msg = detail
	}
	return goerrors.New(msg, goerrors.CategoryAuth).
		WithTextCode(TextCodeCredentialRejected).
		WithCode(goerrors.CodeUnauthorized).
		WithMetadata(map[string]any{
			"method": method,
			"path":   path,
		})
}

func newTransportUnavailable(err error, method, path string) error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, "transport unavailable").
		WithTextCode(TextCodeTransportUnavailable).
		WithMetadata(map[string]any{
			"method": method,
			"path":   path,
		})
}

func newMalformedResponse(err error, method, path string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "malformed response payload").
		WithTextCode(TextCodeMalformedResponse).
		WithMetadata(map[string]any{
			"method": method,
			"path":   path,
		})
}

// newOperationRejected keeps the server's message verbatim; the status only
// picks the category and code.
func newOperationRejected(status int, detail, method, path string) error {
	msg := detail
	if msg == "" {
		msg = "request rejected"
	}

	category := goerrors.CategoryOperation
	code := goerrors.CodeInternal
	switch {
	case status == 403:
		category = goerrors.CategoryAuthz
		code = goerrors.CodeForbidden
	case status == 404:
		category = goerrors.CategoryNotFound
		code = goerrors.CodeNotFound
	case status == 409:
		category = goerrors.CategoryConflict
		code = goerrors.CodeConflict
	case status == 400 || status == 422:
		category = goerrors.CategoryValidation
		code = goerrors.CodeBadRequest
	}

	return goerrors.New(msg, category).
		WithTextCode(TextCodeOperationRejected).
		WithCode(code).
		WithMetadata(map[string]any{
			"status": status,
			"method": method,
			"path":   path,
		})
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == code
	}
	return false
}

// IsCredentialRejected reports whether err came from a 401: the stored
// credential was cleared and the rejection hook fired.
func IsCredentialRejected(err error) bool {
	return hasTextCode(err, TextCodeCredentialRejected)
}

// IsTransportUnavailable reports whether the request never produced a
// server response.
func IsTransportUnavailable(err error) bool {
	return hasTextCode(err, TextCodeTransportUnavailable)
}

// IsOperationRejected reports whether the server refused the operation with
// a non-401 error status. The credential is untouched.
func IsOperationRejected(err error) bool {
	return hasTextCode(err, TextCodeOperationRejected)
}

// IsMalformedResponse reports whether a success response carried a payload
// that could not be decoded.
func IsMalformedResponse(err error) bool {
	return hasTextCode(err, TextCodeMalformedResponse)
}

// ErrorMessage returns the display message for err: the server's verbatim
// detail for rejected operations, the rich message otherwise.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.Message
	}
	return err.Error()
}
