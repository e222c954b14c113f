package lexer

// Mode is the grammatical position the scanner is in. It decides how the
// next lexeme is classified.
type Mode int

const (
	ModeInitial Mode = iota
	ModeImportPath
	ModeImportAlias
	ModeSubject
	ModeSubjectArgument
	ModeCondition
	ModeConditionArgument
)

var modeNames = [...]string{
	ModeInitial:           "initial",
	ModeImportPath:        "import",
	ModeImportAlias:       "importmodule",
	ModeSubject:           "subject",
	ModeSubjectArgument:   "subjectargument",
	ModeCondition:         "condition",
	ModeConditionArgument: "conditionargument",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Stack is the scanner's mode stack. Import clauses push a mode so they can
// be entered from any position; everything else replaces the top.
type Stack []Mode

// NewStack returns a stack holding only ModeInitial.
func NewStack() Stack {
	return Stack{ModeInitial}
}

// Top returns the current mode.
func (s Stack) Top() Mode {
	if len(s) == 0 {
		return ModeInitial
	}
	return s[len(s)-1]
}

// Next returns the stack that follows s after emitting a token of type t.
// It never modifies s.
func (s Stack) Next(t TokenType) Stack {
	top := s.Top()
	switch t {
	case End:
		return NewStack()
	case Import:
		return s.push(ModeImportPath)
	case Path:
		return s.replace(ModeImportAlias)
	case Module:
		return s.pop()
	case Action:
		return s.replace(ModeSubject)
	case Subject:
		return s.replace(ModeSubjectArgument)
	case And:
		if top == ModeSubjectArgument {
			return s.replace(ModeSubject)
		}
	case If, With:
		if top == ModeSubject || top == ModeSubjectArgument {
			return s.replace(ModeCondition)
		}
	case Condition:
		return s.replace(ModeConditionArgument)
	}
	return s
}

func (s Stack) push(m Mode) Stack {
	out := make(Stack, len(s), len(s)+1)
	copy(out, s)
	return append(out, m)
}

func (s Stack) replace(m Mode) Stack {
	if len(s) == 0 {
		return Stack{m}
	}
	out := make(Stack, len(s))
	copy(out, s)
	out[len(out)-1] = m
	return out
}

func (s Stack) pop() Stack {
	if len(s) <= 1 {
		return NewStack()
	}
	out := make(Stack, len(s)-1)
	copy(out, s)
	return out
}
