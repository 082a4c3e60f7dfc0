package ride

import (
	"strings"
)

// maxEvaluationDepth bounds the recursion of the tree walk.
const maxEvaluationDepth = 1000

type esValue struct {
	id         string
	value      rideType
	expression Node
}

type esFunction struct {
	fn *FunctionDeclarationNode
	sp int
}

type evaluationScope struct {
	constants    map[string]rideConstructor
	cs           [][]esValue
	system       map[string]rideFunction
	constructors map[string]rideConstructor
	user         []esFunction
	cl           int
}

func (s *evaluationScope) declare(n Node) error {
	switch d := n.(type) {
	case *FunctionDeclarationNode:
		s.pushUserFunction(d)
		return nil
	case *AssignmentNode:
		s.pushExpression(d.Name, d.Expression)
		return nil
	default:
		return RuntimeError.Errorf("not a declaration '%T'", n)
	}
}

func (s *evaluationScope) pushExpression(id string, n Node) {
	s.cs[len(s.cs)-1] = append(s.cs[len(s.cs)-1], esValue{id: id, expression: n})
}

func (s *evaluationScope) pushValue(id string, v rideType) {
	s.cs[len(s.cs)-1] = append(s.cs[len(s.cs)-1], esValue{id: id, value: v})
}

func (s *evaluationScope) popValue() {
	s.cs[len(s.cs)-1] = s.cs[len(s.cs)-1][:len(s.cs[len(s.cs)-1])-1]
}

func lookup(s []esValue, id string) (esValue, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if v := s[i]; v.id == id {
			return v, true
		}
	}
	return esValue{}, false
}

func (s *evaluationScope) value(id string) (esValue, bool) {
	if p := len(s.cs) - 1; p >= 0 {
		v, ok := lookup(s.cs[p], id)
		if ok {
			return v, true
		}
	}
	for i := s.cl - 1; i >= 0; i-- {
		v, ok := lookup(s.cs[i], id)
		if ok {
			return v, true
		}
	}
	return esValue{}, false
}

func (s *evaluationScope) pushUserFunction(uf *FunctionDeclarationNode) {
	s.user = append(s.user, esFunction{fn: uf, sp: len(s.cs)})
}

func (s *evaluationScope) popUserFunction() error {
	l := len(s.user)
	if l == 0 {
		return RuntimeError.New("empty user functions scope")
	}
	s.user = s.user[:l-1]
	return nil
}

func (s *evaluationScope) userFunction(id string) (*FunctionDeclarationNode, int, bool) {
	for i := len(s.user) - 1; i >= 0; i-- {
		uf := s.user[i]
		if uf.fn.Name == id {
			return uf.fn, uf.sp, true
		}
	}
	return nil, 0, false
}

func selectConstants(env *EvaluationEnvironment) map[string]rideConstructor {
	roundingMode := func(name string) rideConstructor {
		return func(*EvaluationEnvironment, ...rideType) (rideType, error) {
			return newRideObject(name), nil
		}
	}
	return map[string]rideConstructor{
		"unit": func(*EvaluationEnvironment, ...rideType) (rideType, error) {
			return rideUnit{}, nil
		},
		"nil": func(*EvaluationEnvironment, ...rideType) (rideType, error) {
			return rideList{}, nil
		},
		"height": func(e *EvaluationEnvironment, _ ...rideType) (rideType, error) {
			return rideInt(e.Height), nil
		},
		"NETWORKBYTE": func(e *EvaluationEnvironment, _ ...rideType) (rideType, error) {
			return rideByteVector([]byte{e.Scheme}), nil
		},
		"this": func(e *EvaluationEnvironment, _ ...rideType) (rideType, error) {
			return rideAddress(e.ThisAddress), nil
		},
		"Down":     roundingMode("Down"),
		"Up":       roundingMode("Up"),
		"HalfUp":   roundingMode("HalfUp"),
		"HalfEven": roundingMode("HalfEven"),
		"Ceiling":  roundingMode("Ceiling"),
		"Floor":    roundingMode("Floor"),
	}
}

func newEvaluationScope(env *EvaluationEnvironment, enableInvocation bool) (evaluationScope, error) {
	functions, err := selectFunctions(env.Lib)
	if err != nil {
		return evaluationScope{}, err
	}
	if !enableInvocation {
		// Sync invocations are disabled for expression and verifier calls.
		delete(functions, n(FunctionInvoke))
		delete(functions, n(FunctionReentrantInvoke))
	}
	return evaluationScope{
		constants:    selectConstants(env),
		system:       functions,
		constructors: selectConstructors(env.Lib),
		cs:           [][]esValue{make([]esValue, 0)},
	}, nil
}

type logEntry struct {
	name  string
	value rideType
}

type treeEvaluator struct {
	dapp      bool
	f         Node
	s         evaluationScope
	env       *EvaluationEnvironment
	limit     uint64
	spent     uint64
	depth     int
	log       []logEntry
	constants map[string]rideType
}

// charge subtracts cost from the remaining budget. On exhaustion the
// consumed complexity is pinned to the limit exactly.
func (e *treeEvaluator) charge(cost int) error {
	if cost < 0 {
		return RuntimeError.New("negative complexity cost")
	}
	e.spent += uint64(cost)
	if e.spent > e.limit {
		e.spent = e.limit
		return ComplexityLimitExceeded.Errorf("evaluation complexity exceeds the limit of %d", e.limit)
	}
	return nil
}

func (e *treeEvaluator) bind(name string, v rideType) {
	e.log = append(e.log, logEntry{name: name, value: v})
}

// renderLog produces the deterministic textual form of the evaluation log
// used in validation-error messages.
func (e *treeEvaluator) renderLog() string {
	sb := strings.Builder{}
	for i, entry := range e.log {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteByte('\t')
		sb.WriteString(entry.name)
		sb.WriteString(" = ")
		sb.WriteString(entry.value.String())
	}
	return sb.String()
}

func (e *treeEvaluator) complexity() uint64 {
	return e.spent
}

func (e *treeEvaluator) evaluate() (rideType, error) {
	r, err := e.walk(e.f)
	if err != nil {
		return nil, EvaluationErrorSetLog(EvaluationErrorSetComplexity(err, e.spent), e.renderLog())
	}
	return r, nil
}

func (e *treeEvaluator) walk(node Node) (rideType, error) {
	if e.depth++; e.depth > maxEvaluationDepth {
		return nil, StackOverflow.Errorf("evaluation depth exceeds %d", maxEvaluationDepth)
	}
	defer func() { e.depth-- }()

	switch n := node.(type) {
	case *LongNode:
		return rideInt(n.Value), nil

	case *BytesNode:
		return newByteVector(n.Value)

	case *BooleanNode:
		return rideBoolean(n.Value), nil

	case *StringNode:
		return newString(n.Value)

	case *ConditionalNode:
		if err := e.charge(1); err != nil {
			return nil, err
		}
		ce, err := e.walk(n.Condition)
		if err != nil {
			return nil, EvaluationErrorPush(err, "failed to evaluate the condition of if")
		}
		cr, ok := ce.(rideBoolean)
		if !ok {
			return nil, RuntimeError.Errorf("not a boolean condition of type '%s'", ce.instanceOf())
		}
		if cr {
			return e.walk(n.TrueExpression)
		}
		return e.walk(n.FalseExpression)

	case *AssignmentNode:
		id := n.Name
		e.s.pushExpression(id, n.Expression)
		r, err := e.walk(n.Block)
		if err != nil {
			return nil, EvaluationErrorPush(err, "failed to evaluate block after declaration of variable '%s'", id)
		}
		e.s.popValue()
		return r, nil

	case *ReferenceNode:
		id := n.Name
		if err := e.charge(1); err != nil {
			return nil, err
		}
		v, ok := e.s.value(id)
		if !ok {
			if cv, ok := e.constants[id]; ok {
				return cv, nil
			}
			c, ok := e.s.constants[id]
			if !ok {
				return nil, RuntimeError.Errorf("value '%s' not found", id)
			}
			cv, err := c(e.env)
			if err != nil {
				return nil, EvaluationErrorPush(err, "failed to materialize constant '%s'", id)
			}
			if e.constants == nil {
				e.constants = make(map[string]rideType)
			}
			e.constants[id] = cv
			e.bind(id, cv)
			return cv, nil
		}
		if v.value == nil {
			if v.expression == nil {
				return nil, RuntimeError.Errorf("scope value '%s' is empty", id)
			}
			r, err := e.walk(v.expression)
			if err != nil {
				return nil, EvaluationErrorPush(err, "failed to evaluate expression of scope value '%s'", id)
			}
			e.s.pushValue(id, r)
			e.bind(id, r)
			return r, nil
		}
		return v.value, nil

	case *FunctionDeclarationNode:
		id := n.Name
		e.s.pushUserFunction(n)
		r, err := e.walk(n.Block)
		if err != nil {
			return nil, EvaluationErrorPush(err, "failed to evaluate block after declaration of function '%s'", id)
		}
		if err := e.s.popUserFunction(); err != nil {
			return nil, EvaluationErrorPush(err, "failed to evaluate declaration of function '%s'", id)
		}
		return r, nil

	case *FunctionCallNode:
		return e.walkFunctionCall(n)

	case *PropertyNode:
		name := n.Name
		if err := e.charge(1); err != nil {
			return nil, err
		}
		obj, err := e.walk(n.Object)
		if err != nil {
			return nil, EvaluationErrorPush(err, "failed to evaluate an object to get property '%s' on it", name)
		}
		v, err := obj.get(name)
		if err != nil {
			return nil, EvaluationErrorPush(err, "failed to get property '%s'", name)
		}
		return v, nil

	default:
		return nil, RuntimeError.Errorf("unsupported type of node '%T'", node)
	}
}

func (e *treeEvaluator) walkFunctionCall(n *FunctionCallNode) (rideType, error) {
	id := n.Function.Name()
	switch n.Function.(type) {
	case NativeFunction:
		f, ok := e.s.system[id]
		if !ok {
			return nil, RuntimeError.Errorf("function '%s' not found", id)
		}
		cost, err := e.nativeCost(id)
		if err != nil {
			return nil, err
		}
		if err := e.charge(cost); err != nil {
			return nil, err
		}
		args := make([]rideType, len(n.Arguments))
		for i, arg := range n.Arguments {
			a, err := e.walk(arg)
			if err != nil {
				return nil, EvaluationErrorPush(err, "failed to materialize argument %d of system function '%s'", i+1, id)
			}
			args[i] = a
		}
		r, err := f(e.env, args...)
		if err != nil {
			return nil, EvaluationErrorPush(err, "failed to call system function '%s'", id)
		}
		return r, nil

	case UserFunction:
		if uf, cl, ok := e.s.userFunction(id); ok {
			return e.callUserFunction(n, uf, cl)
		}
		if c, ok := e.s.constructors[id]; ok {
			if err := e.charge(constructorCost); err != nil {
				return nil, err
			}
			args := make([]rideType, len(n.Arguments))
			for i, arg := range n.Arguments {
				a, err := e.walk(arg)
				if err != nil {
					return nil, EvaluationErrorPush(err, "failed to materialize argument %d of constructor '%s'", i+1, id)
				}
				args[i] = a
			}
			r, err := c(e.env, args...)
			if err != nil {
				return nil, EvaluationErrorPush(err, "failed to construct '%s'", id)
			}
			return r, nil
		}
		return nil, RuntimeError.Errorf("function '%s' not found", id)

	default:
		return nil, RuntimeError.Errorf("unknown function header '%T'", n.Function)
	}
}

func (e *treeEvaluator) nativeCost(id string) (int, error) {
	catalogue, err := selectCatalogue(e.env.Lib)
	if err != nil {
		return 0, err
	}
	cost, ok := catalogue[id]
	if !ok {
		return 0, RuntimeError.Errorf("no cost for function '%s'", id)
	}
	return cost, nil
}

func (e *treeEvaluator) callUserFunction(n *FunctionCallNode, uf *FunctionDeclarationNode, cl int) (rideType, error) {
	id := uf.Name
	if err := e.charge(1); err != nil {
		return nil, err
	}
	if len(n.Arguments) != len(uf.Arguments) {
		return nil, RuntimeError.Errorf("mismatched arguments number of user function '%s'", id)
	}
	args := make([]esValue, len(n.Arguments))
	for i, arg := range n.Arguments {
		an := uf.Arguments[i]
		av, err := e.walk(arg)
		if err != nil {
			return nil, EvaluationErrorPush(err, "failed to materialize argument '%s' of user function '%s'", an, id)
		}
		args[i] = esValue{id: an, value: av}
		e.bind(an, av)
	}
	e.s.cs = append(e.s.cs, args)
	var tmp int
	tmp, e.s.cl = e.s.cl, cl
	r, err := e.walk(uf.Body)
	if err != nil {
		return nil, EvaluationErrorPush(err, "failed to evaluate function '%s' body", id)
	}
	e.s.cs = e.s.cs[:len(e.s.cs)-1]
	e.s.cl = tmp
	return r, nil
}
