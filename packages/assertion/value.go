package assertion

// Kind identifies which outcome a Value holds.
type Kind int

const (
	Passed Kind = iota + 1
	Failed
	Errored
)

var kindNames = map[Kind]string{
	Passed:  "passed",
	Failed:  "failed",
	Errored: "errored",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Value is the outcome of an assertion. Only Errored values carry an error.
type Value struct {
	kind Kind
	err  error
}

func Pass() Value {
	return Value{kind: Passed}
}

func Fail() Value {
	return Value{kind: Failed}
}

// ErroredWith returns an Errored value. A nil err yields Fail, since an
// errored outcome without a cause cannot be reported.
func ErroredWith(err error) Value {
	if err == nil {
		return Fail()
	}
	return Value{kind: Errored, err: err}
}

func (v Value) Kind() Kind {
	return v.kind
}

// Err returns the error of an Errored value and nil otherwise.
func (v Value) Err() error {
	return v.err
}

func (v Value) String() string {
	if v.kind == Errored {
		return v.kind.String() + ": " + v.err.Error()
	}
	return v.kind.String()
}
