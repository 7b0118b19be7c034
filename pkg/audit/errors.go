package audit

import "fmt"

type TypeMismatch struct {
	Value    interface{}
	Expected Kind
	Actual   Kind
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("%s is not a %s. It's a %s", FormatValue(e.Value), e.Expected, e.Actual)
}

type LengthMismatch struct {
	Value    interface{}
	Expected int
	Actual   int
	// false when the value has no length at all
	HasLength bool
}

func (e *LengthMismatch) Error() string {
	if !e.HasLength {
		return fmt.Sprintf("%s does not have the length %d. It has no length", FormatValue(e.Value), e.Expected)
	}
	return fmt.Sprintf("%s does not have the length %d. It's %d", FormatValue(e.Value), e.Expected, e.Actual)
}

type ConditionFailed struct {
	Value     interface{}
	Condition string
}

func (e *ConditionFailed) Error() string {
	return fmt.Sprintf("%s did not meet the condition %s", FormatValue(e.Value), e.Condition)
}

type MissingValue struct {
	Value interface{}
}

func (e *MissingValue) Error() string {
	return fmt.Sprintf("expected a value, but got %s", FormatValue(e.Value))
}

// FieldMismatch annotates a field check failure with the field name.
type FieldMismatch struct {
	Field string
	Err   error
}

func (e *FieldMismatch) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Err.Error())
}

func (e *FieldMismatch) Cause() error { return e.Err }

func (e *FieldMismatch) Unwrap() error { return e.Err }

type BadSignature struct {
	Signature string
	Reason    string
}

func (e *BadSignature) Error() string {
	return fmt.Sprintf("bad signature %q: %s", e.Signature, e.Reason)
}

// Names of the error kinds, as reported by KindOf.
const (
	ErrKindTypeMismatch    = "type_mismatch"
	ErrKindLengthMismatch  = "length_mismatch"
	ErrKindConditionFailed = "condition_failed"
	ErrKindMissingValue    = "missing_value"
	ErrKindFieldMismatch   = "field_mismatch"
	ErrKindBadSignature    = "bad_signature"
	ErrKindOther           = "other"
)

// KindOf names the failure kind of err. Wrapping with errors.Wrap is seen
// through; a FieldMismatch is reported as such rather than by its cause.
func KindOf(err error) string {
	for err != nil {
		switch err.(type) {
		case *FieldMismatch:
			return ErrKindFieldMismatch
		case *TypeMismatch:
			return ErrKindTypeMismatch
		case *LengthMismatch:
			return ErrKindLengthMismatch
		case *ConditionFailed:
			return ErrKindConditionFailed
		case *MissingValue:
			return ErrKindMissingValue
		case *BadSignature:
			return ErrKindBadSignature
		}
		causer, ok := err.(interface{ Cause() error })
		if !ok {
			break
		}
		err = causer.Cause()
	}
	return ErrKindOther
}
