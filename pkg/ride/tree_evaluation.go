package ride

import (
	"github.com/wavesplatform/txdiff/pkg/proto"
	"github.com/wavesplatform/txdiff/pkg/settings"
)

// CallVerifier evaluates an expression script, or the verifier function of
// a dApp, against the transaction object bound in the environment. The
// returned result carries the consumed complexity and the rendered
// evaluation log; a throw surfaces as a UserError evaluation error.
func CallVerifier(env *EvaluationEnvironment, tree *Tree, limit uint64) (RideResult, error) {
	if err := env.validate(); err != nil {
		return nil, RuntimeError.Wrap(err, "invalid evaluation environment")
	}
	s, err := newEvaluationScope(env, false)
	if err != nil {
		return nil, RuntimeError.Wrap(err, "failed to create scope")
	}
	e := treeEvaluator{env: env, limit: limit}
	if tree.IsDApp {
		if !tree.HasVerifier() {
			return nil, RuntimeError.New("no verifier declaration")
		}
		verifier, ok := tree.Verifier.(*FunctionDeclarationNode)
		if !ok {
			return nil, RuntimeError.New("invalid verifier declaration")
		}
		for _, declaration := range tree.Declarations {
			if err := s.declare(declaration); err != nil {
				return nil, RuntimeError.Wrap(err, "invalid declaration")
			}
		}
		s.constants[verifier.InvocationParameter] = func(e *EvaluationEnvironment, _ ...rideType) (rideType, error) {
			if e.tx == nil {
				return nil, RuntimeError.New("no transaction in environment")
			}
			return e.tx, nil
		}
		e.dapp = true
		e.f = verifier.Body
		e.s = s
	} else {
		s.constants["tx"] = func(e *EvaluationEnvironment, _ ...rideType) (rideType, error) {
			if e.tx == nil {
				return nil, RuntimeError.New("no transaction in environment")
			}
			return e.tx, nil
		}
		e.f = tree.Verifier
		e.s = s
	}
	r, err := e.evaluate()
	if err != nil {
		return nil, err
	}
	b, ok := r.(rideBoolean)
	if !ok {
		return nil, EvaluationErrorSetLog(
			EvaluationErrorSetComplexity(
				RuntimeError.Errorf("unexpected result type '%s' of verifier", r.instanceOf()), e.complexity()),
			e.renderLog())
	}
	return ScriptResult{res: bool(b), complexity: e.complexity(), log: e.renderLog()}, nil
}

// CallFunction evaluates the named callable of a dApp script. The callable
// name defaults to "default" when empty. The result carries the ordered
// action list, the V5 return value if any, the consumed complexity and the
// evaluation log.
func CallFunction(env *EvaluationEnvironment, tree *Tree, name string, args proto.Arguments, limit uint64) (RideResult, error) {
	if err := env.validate(); err != nil {
		return nil, RuntimeError.Wrap(err, "invalid evaluation environment")
	}
	if !tree.IsDApp {
		return nil, RuntimeError.Errorf("unable to call function '%s' on simple script", name)
	}
	if name == "" {
		name = "default"
	}
	s, err := newEvaluationScope(env, tree.LibVersion >= settings.StdLibV5)
	if err != nil {
		return nil, RuntimeError.Wrap(err, "failed to create scope")
	}
	for _, declaration := range tree.Declarations {
		if err := s.declare(declaration); err != nil {
			return nil, RuntimeError.Wrap(err, "invalid declaration")
		}
	}
	function, err := tree.FunctionByName(name)
	if err != nil {
		return nil, err
	}
	if l := len(args); l != len(function.Arguments) {
		return nil, RuntimeError.Errorf("invalid arguments count %d for function '%s'", l, name)
	}
	s.constants[function.InvocationParameter] = func(e *EvaluationEnvironment, _ ...rideType) (rideType, error) {
		if e.inv == nil {
			return nil, RuntimeError.New("no invocation in environment")
		}
		return e.inv, nil
	}
	e := treeEvaluator{dapp: true, f: function.Body, s: s, env: env, limit: limit}
	for i, arg := range args {
		a, err := convertArgument(arg)
		if err != nil {
			return nil, RuntimeError.Wrapf(err, "failed to call function '%s'", name)
		}
		e.s.pushValue(function.Arguments[i], a)
	}
	r, err := e.evaluate()
	if err != nil {
		return nil, err
	}
	actions, ret, err := objectToActions(env, r)
	if err != nil {
		return nil, EvaluationErrorSetLog(
			EvaluationErrorSetComplexity(
				EvaluationErrorPush(err, "failed to convert evaluation result"), e.complexity()),
			e.renderLog())
	}
	return DAppResult{actions: actions, ret: ret, complexity: e.complexity(), log: e.renderLog()}, nil
}
