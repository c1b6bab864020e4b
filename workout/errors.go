package workout

// ErrorKind classifies why a generated expression was rejected.
type ErrorKind int

const (
	ErrSyntax ErrorKind = iota
	ErrUnknownSymbol
	ErrConstruction
	ErrStructural
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax"
	case ErrUnknownSymbol:
		return "unknown_symbol"
	case ErrConstruction:
		return "construction"
	case ErrStructural:
		return "structural"
	default:
		return "unknown"
	}
}

// ValidationError is the typed outcome of a failed validation. The Message
// is forwarded verbatim to the model on retry.
type ValidationError struct {
	Kind    ErrorKind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Kind.String() + ": " + e.Message
}

func syntaxErr(msg string) *ValidationError {
	return &ValidationError{Kind: ErrSyntax, Message: msg}
}

func unknownSymbolErr(msg string) *ValidationError {
	return &ValidationError{Kind: ErrUnknownSymbol, Message: msg}
}

func constructionErr(msg string) *ValidationError {
	return &ValidationError{Kind: ErrConstruction, Message: msg}
}

func structuralErr(msg string) *ValidationError {
	return &ValidationError{Kind: ErrStructural, Message: msg}
}
