package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthenticated    = errors.New("no autenticado")
	ErrUnauthorized       = errors.New("credenciales inválidas")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrPlanLimitReached   = errors.New("límite del plan alcanzado")
)

// ErrorKind clasifica un error para que la capa HTTP decida el status sin mirar el texto.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindInvalidInput
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "INVALID_INPUT"
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	default:
		return "INTERNAL"
	}
}

// Error es el error tipado de la aplicación: Kind decide el status HTTP y Message
// es legible por el operador.
type Error struct {
	Kind    ErrorKind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is permite errors.Is(err, domain.ErrForbidden) sobre un *Error de tipo KindForbidden.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput
	case ErrUnauthenticated:
		return e.Kind == KindUnauthenticated
	case ErrForbidden:
		return e.Kind == KindForbidden
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrConflict:
		return e.Kind == KindConflict
	}
	return false
}

// Forbidden construye un error de acceso denegado con motivo legible.
func Forbidden(reason string) error {
	return &Error{Kind: KindForbidden, Message: reason}
}

// Unauthenticated construye un error de sesión ausente o inválida.
func Unauthenticated(reason string) error {
	return &Error{Kind: KindUnauthenticated, Message: reason}
}

// InvalidInput construye un error de validación; details viaja en la respuesta 400.
func InvalidInput(reason string, details any) error {
	return &Error{Kind: KindInvalidInput, Message: reason, Details: details}
}

// NotFound construye un error de recurso ausente (tras aplicar el alcance).
func NotFound(reason string) error {
	return &Error{Kind: KindNotFound, Message: reason}
}

// Conflict construye un error de conflicto con el estado actual.
func Conflict(reason string, cause error) error {
	return &Error{Kind: KindConflict, Message: reason, Err: cause}
}

// KindOf devuelve la clase del error. Los centinelas heredados se mapean a su clase;
// cualquier otro error es KindInternal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindInternal
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrUnauthorized), errors.Is(err, ErrUserNotFound):
		return KindUnauthenticated
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicate), errors.Is(err, ErrEmailAlreadyExists),
		errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrPlanLimitReached):
		return KindConflict
	}
	return KindInternal
}

// DetailsOf devuelve los detalles adjuntos a un error tipado, si los hay.
func DetailsOf(err error) any {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}
