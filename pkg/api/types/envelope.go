package types

// Envelope is the uniform result of every gateway operation.
//
// Exactly one of Data and Error is set: OK with Data on success, not OK with
// Error on failure. A successful empty answer still carries Data.
type Envelope[T any] struct {
	OK    bool    `json:"ok"`
	Data  *T      `json:"data"`
	Error *string `json:"error"`
}

// Success wraps data in a successful envelope.
func Success[T any](data T) Envelope[T] {
	return Envelope[T]{OK: true, Data: &data}
}

// Failure returns a failed envelope carrying msg.
func Failure[T any](msg string) Envelope[T] {
	return Envelope[T]{OK: false, Error: &msg}
}

// Erase drops the payload type so envelopes of different operations can be
// handled uniformly by the dispatch layer.
func (e Envelope[T]) Erase() Envelope[any] {
	out := Envelope[any]{OK: e.OK, Error: e.Error}
	if e.Data != nil {
		var v any = *e.Data
		out.Data = &v
	}
	return out
}

// Message returns the error message, or "" on success.
func (e Envelope[T]) Message() string {
	if e.Error == nil {
		return ""
	}
	return *e.Error
}

// Valid reports whether the envelope satisfies the success/failure invariant.
func (e Envelope[T]) Valid() bool {
	if e.OK {
		return e.Error == nil && e.Data != nil
	}
	return e.Data == nil && e.Error != nil
}
