// Package apperr define os tipos de erro que atravessam o serviço e como
// cada um é exposto via HTTP.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifica a origem de uma falha
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDatastore
	KindCompletion
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDatastore:
		return "datastore"
	case KindCompletion:
		return "completion"
	default:
		return "internal"
	}
}

// Status retorna o código HTTP correspondente ao tipo
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindDatastore:
		return http.StatusServiceUnavailable
	case KindCompletion:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage é o texto usado quando os detalhes do erro são ocultados
func (k Kind) PublicMessage() string {
	switch k {
	case KindValidation:
		return "invalid request"
	case KindDatastore:
		return "inventory data is unavailable"
	case KindCompletion:
		return "the assistant is unavailable"
	default:
		return "internal server error"
	}
}

// Error carrega o tipo e a operação que falhou
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New cria um erro do tipo informado
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf retorna o tipo do primeiro *Error na cadeia, ou KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
