package audit

import (
	"strconv"
	"strings"

	pp "github.com/vilterp/audit/pkg/prettyprint"
)

// Signature is a parsed "<typeName>" or "<typeName>:<length>".
type Signature struct {
	Type Kind
	// -1 when unconstrained
	Length int
}

var _ Checker = &Signature{}

func ParseSignature(sig string) (*Signature, error) {
	name, length, hasLength := strings.Cut(strings.TrimSpace(sig), ":")
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, &BadSignature{Signature: sig, Reason: "missing type name"}
	}
	if !isIdent(name) {
		return nil, &BadSignature{Signature: sig, Reason: "type name must be an identifier"}
	}
	parsed := &Signature{
		Type:   Kind(name),
		Length: -1,
	}
	if !hasLength {
		return parsed, nil
	}
	length = strings.TrimSpace(length)
	n, err := strconv.Atoi(length)
	if err != nil || strings.TrimLeft(length, "0123456789") != "" {
		return nil, &BadSignature{Signature: sig, Reason: "length must be a non-negative integer"}
	}
	parsed.Length = n
	return parsed, nil
}

func MustParseSignature(sig string) *Signature {
	parsed, err := ParseSignature(sig)
	if err != nil {
		panic(err)
	}
	return parsed
}

func isIdent(s string) bool {
	for idx, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z':
		case idx > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func (s *Signature) Check(v interface{}) error {
	actual := TypeOf(v)
	if actual != s.Type {
		return &TypeMismatch{Value: v, Expected: s.Type, Actual: actual}
	}
	if s.Length < 0 {
		return nil
	}
	length, ok := LengthOf(v)
	if !ok || length != s.Length {
		return &LengthMismatch{Value: v, Expected: s.Length, Actual: length, HasLength: ok}
	}
	return nil
}

func (s *Signature) Format() pp.Doc {
	if s.Length < 0 {
		return pp.Text(string(s.Type))
	}
	return pp.Textf("%s:%d", s.Type, s.Length)
}

func (s *Signature) String() string {
	return s.Format().String()
}
