package httpapi

import (
	"errors"
	"net/http"

	"libraria/auth"
	"libraria/circulation"
	"libraria/inventory"
	"libraria/membership"
	"libraria/reviews"
)

// Stable error codes for API clients. Each sentinel of the business
// error taxonomy maps to exactly one code, so clients can branch on the
// code instead of parsing messages.
const (
	codeInvalidRequest         = "INVALID_REQUEST"
	codeInvalidCredential      = "INVALID_CREDENTIAL"
	codeForbidden              = "FORBIDDEN"
	codeBookNotFound           = "BOOK_NOT_FOUND"
	codeBorrowLogNotFound      = "BORROW_LOG_NOT_FOUND"
	codeOutOfStock             = "OUT_OF_STOCK"
	codeAlreadyReturned        = "ALREADY_RETURNED"
	codeEmailAlreadyRegistered = "EMAIL_ALREADY_REGISTERED"
	codeInvalidRating          = "INVALID_RATING"
	codeTransactionFailed      = "TRANSACTION_FAILED"
	codeInternal               = "INTERNAL"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusAndCode maps a business error to its HTTP status and stable code.
func statusAndCode(err error) (int, string) {
	switch {
	case errors.Is(err, circulation.ErrInvalidRequest),
		errors.Is(err, reviews.ErrMissingReviewer),
		errors.Is(err, membership.ErrInvalidUserData):
		return http.StatusBadRequest, codeInvalidRequest
	case errors.Is(err, reviews.ErrInvalidRating):
		return http.StatusBadRequest, codeInvalidRating
	case errors.Is(err, auth.ErrInvalidCredential):
		return http.StatusUnauthorized, codeInvalidCredential
	case errors.Is(err, circulation.ErrForbidden):
		return http.StatusForbidden, codeForbidden
	case errors.Is(err, inventory.ErrBookNotFound):
		return http.StatusNotFound, codeBookNotFound
	case errors.Is(err, inventory.ErrBorrowLogNotFound):
		return http.StatusNotFound, codeBorrowLogNotFound
	case errors.Is(err, circulation.ErrOutOfStock):
		return http.StatusConflict, codeOutOfStock
	case errors.Is(err, circulation.ErrAlreadyReturned):
		return http.StatusConflict, codeAlreadyReturned
	case errors.Is(err, membership.ErrEmailAlreadyRegistered):
		return http.StatusConflict, codeEmailAlreadyRegistered
	case errors.Is(err, inventory.ErrTransactionFailed):
		return http.StatusInternalServerError, codeTransactionFailed
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
