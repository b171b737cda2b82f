package validation

// Func adapts a plain function to Validator. A nil Func reports no errors.
type Func func(any) map[string]string

var _ Validator = Func(nil)

func (f Func) ValidateStruct(s any) map[string]string {
	if f == nil {
		return nil
	}
	return f(s)
}
