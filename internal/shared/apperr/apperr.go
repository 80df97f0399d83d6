// Package apperr classifies failures coming out of the REST collaborator and
// the client-side validators so callers can decide between inline field
// errors, forced logout and transient notifications.
package apperr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindAuth         Kind = "auth"
	KindConflict     Kind = "conflict"
	KindBusinessRule Kind = "business_rule"
	KindNetwork      Kind = "network"
	KindUnknown      Kind = "unknown"
)

// Sentinels matched through errors.Is against any *Error of the same kind.
var (
	ErrValidation   = errors.New("validation failed")
	ErrAuth         = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrBusinessRule = errors.New("business rule violated")
	ErrNetwork      = errors.New("network failure")
	ErrUnknown      = errors.New("unexpected error")
)

var sentinels = map[Kind]error{
	KindValidation:   ErrValidation,
	KindAuth:         ErrAuth,
	KindConflict:     ErrConflict,
	KindBusinessRule: ErrBusinessRule,
	KindNetwork:      ErrNetwork,
	KindUnknown:      ErrUnknown,
}

// Error is the single error type crossing package boundaries.
type Error struct {
	Kind          Kind
	Op            string // e.g. "POST /auth/login"
	Status        int    // HTTP status, 0 when no response was received
	ServerMessage string
	Fields        map[string]string
	Timeout       bool
	Err           error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.ServerMessage != "" {
		b.WriteString(": ")
		b.WriteString(e.ServerMessage)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// Field returns the error for a single field, if any.
func (e *Error) Field(name string) string {
	return e.Fields[name]
}

// errorBody is the REST collaborator's error payload. Validation failures
// carry a field map under "errors".
type errorBody struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// FromResponse classifies a non-2xx response. body may be empty or non-JSON.
func FromResponse(op string, status int, body []byte) *Error {
	e := &Error{Op: op, Status: status}

	var parsed errorBody
	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil {
		e.ServerMessage = strings.TrimSpace(parsed.Message)
		if len(parsed.Errors) > 0 {
			e.Fields = parsed.Errors
		}
	}

	switch status {
	case http.StatusUnauthorized:
		e.Kind = KindAuth
	case http.StatusConflict:
		e.Kind = KindConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		e.Kind = KindBusinessRule
	default:
		e.Kind = KindUnknown
	}
	return e
}

// Network wraps a transport failure (no response received).
func Network(op string, err error) *Error {
	e := &Error{Kind: KindNetwork, Op: op, Err: err}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		e.Timeout = true
	}
	return e
}

// Validation builds a client-side schema failure. It never reaches the server.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

// KindOf reports the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsUnauthorized reports a 401 from the collaborator.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrAuth)
}

const DefaultMessage = "Algo deu errado. Tente novamente."

var statusMessages = map[int]string{
	400: "Dados inválidos. Verifique as informações e tente novamente.",
	401: "Usuário não autorizado. Faça login novamente.",
	403: "Você não tem permissão para esta ação.",
	404: "Recurso não encontrado.",
	409: "Este registro já existe.",
	422: "Dados inválidos.",
	500: "Falha ao conectar com o servidor. Tente mais tarde.",
}

// Server messages starting with one of these prefixes are replaced verbatim.
// Ordered so the first match wins.
var messageOverrides = []struct {
	prefix  string
	message string
}{
	{"Conta bancária não encontrada", "Conta não encontrada."},
	{"Categoria não encontrada", "Categoria não encontrada."},
	{"Transação não encontrada", "Transação não encontrada."},
	{"Meta não encontrada", "Meta não encontrada."},
	{"Saldo insuficiente na conta", "Saldo insuficiente."},
	{"O tipo da transação", "Categoria incompatível com o tipo da transação."},
}

// technicalMessage matches server messages that must not be shown to users.
var technicalMessage = regexp.MustCompile(`(?i)^\d{3}\s|error|failed`)

// Message turns any error into the user-facing notification text.
// fallback replaces DefaultMessage when non-empty.
func Message(err error, fallback string) string {
	if fallback == "" {
		fallback = DefaultMessage
	}

	var e *Error
	if !errors.As(err, &e) {
		return fallback
	}

	if msg := e.ServerMessage; msg != "" {
		for _, o := range messageOverrides {
			if strings.HasPrefix(msg, o.prefix) {
				return o.message
			}
		}
		if !technicalMessage.MatchString(msg) {
			return msg
		}
	}

	if text, ok := statusMessages[e.Status]; ok {
		return text
	}
	if e.Kind == KindNetwork {
		if e.Timeout {
			return "Tempo limite excedido. Tente novamente."
		}
		return "Falha ao conectar com o servidor."
	}
	return fallback
}
