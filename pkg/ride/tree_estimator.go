package ride

import (
	"github.com/wavesplatform/txdiff/pkg/settings"
)

const (
	letDeclarationCost   = 5
	referenceCost        = 1
	conditionalCost      = 1
	userFunctionCallCost = 1
)

// TreeEstimation is the static worst-case complexity of a compiled tree.
// Functions carries a per-callable breakdown for dApp trees.
type TreeEstimation struct {
	Estimation uint64
	Verifier   uint64
	Functions  map[string]uint64
}

type estimationScope struct {
	functions map[string]uint64
	builtin   map[string]int
	lib       settings.StdLibVersion
}

func (s *estimationScope) functionCost(f Function, enableInvocation bool) (uint64, error) {
	id := f.Name()
	switch f.(type) {
	case NativeFunction:
		if (id == n(FunctionInvoke) || id == n(FunctionReentrantInvoke)) && !enableInvocation {
			return 0, RuntimeError.Errorf("function '%s' not found", id)
		}
		if c, ok := s.builtin[id]; ok {
			return uint64(c), nil
		}
		return 0, RuntimeError.Errorf("native function '%s' not found", id)
	case UserFunction:
		if c, ok := s.functions[id]; ok {
			return c, nil
		}
		// Constructors of case objects share a flat cost.
		return constructorCost, nil
	default:
		return 0, RuntimeError.Errorf("unknown type of function '%s'", id)
	}
}

type treeEstimator struct {
	tree             *Tree
	scope            *estimationScope
	enableInvocation bool
}

// EstimateTree statically computes the worst-case complexity of every entry
// point of the tree. The estimation is deterministic and independent of
// runtime values: conditionals cost the more expensive branch, user
// functions are estimated by inlining once at the declaration and the cost
// propagates to each call site.
func EstimateTree(tree *Tree) (TreeEstimation, error) {
	catalogue, err := selectCatalogue(tree.LibVersion)
	if err != nil {
		return TreeEstimation{}, err
	}
	e := &treeEstimator{
		tree: tree,
		scope: &estimationScope{
			functions: make(map[string]uint64),
			builtin:   catalogue,
			lib:       tree.LibVersion,
		},
		enableInvocation: tree.IsDApp && tree.LibVersion >= settings.StdLibV5,
	}
	res := TreeEstimation{Functions: make(map[string]uint64)}
	for _, d := range tree.Declarations {
		if err := e.declare(d); err != nil {
			return TreeEstimation{}, err
		}
	}
	if tree.IsDApp {
		for _, f := range tree.Functions {
			fn, ok := f.(*FunctionDeclarationNode)
			if !ok {
				return TreeEstimation{}, RuntimeError.New("invalid callable declaration")
			}
			c, err := e.walk(fn.Body)
			if err != nil {
				return TreeEstimation{}, err
			}
			res.Functions[fn.Name] = c
			if c > res.Estimation {
				res.Estimation = c
			}
		}
		if tree.HasVerifier() {
			verifier, ok := tree.Verifier.(*FunctionDeclarationNode)
			if !ok {
				return TreeEstimation{}, RuntimeError.New("invalid verifier declaration")
			}
			c, err := e.walk(verifier.Body)
			if err != nil {
				return TreeEstimation{}, err
			}
			res.Verifier = c
			if c > res.Estimation {
				res.Estimation = c
			}
		}
		return res, nil
	}
	c, err := e.walk(tree.Verifier)
	if err != nil {
		return TreeEstimation{}, err
	}
	res.Estimation = c
	res.Verifier = c
	return res, nil
}

func (e *treeEstimator) declare(n Node) error {
	switch d := n.(type) {
	case *FunctionDeclarationNode:
		c, err := e.walk(d.Body)
		if err != nil {
			return err
		}
		e.scope.functions[d.Name] = c
		return nil
	case *AssignmentNode:
		// Global lets are charged at the use site through the block rule.
		return nil
	default:
		return RuntimeError.Errorf("not a declaration '%T'", n)
	}
}

func (e *treeEstimator) walk(node Node) (uint64, error) {
	switch n := node.(type) {
	case *LongNode, *BytesNode, *StringNode, *BooleanNode:
		return 1, nil

	case *ConditionalNode:
		cc, err := e.walk(n.Condition)
		if err != nil {
			return 0, err
		}
		tc, err := e.walk(n.TrueExpression)
		if err != nil {
			return 0, err
		}
		fc, err := e.walk(n.FalseExpression)
		if err != nil {
			return 0, err
		}
		if fc > tc {
			tc = fc
		}
		return conditionalCost + cc + tc, nil

	case *AssignmentNode:
		ec, err := e.walk(n.Expression)
		if err != nil {
			return 0, err
		}
		bc, err := e.walk(n.Block)
		if err != nil {
			return 0, err
		}
		return letDeclarationCost + ec + bc, nil

	case *ReferenceNode:
		return referenceCost, nil

	case *FunctionDeclarationNode:
		bodyCost, err := e.walk(n.Body)
		if err != nil {
			return 0, err
		}
		e.scope.functions[n.Name] = bodyCost
		blockCost, err := e.walk(n.Block)
		if err != nil {
			return 0, err
		}
		return blockCost, nil

	case *FunctionCallNode:
		fc, err := e.scope.functionCost(n.Function, e.enableInvocation)
		if err != nil {
			return 0, err
		}
		total := fc
		if _, ok := n.Function.(UserFunction); ok {
			if _, declared := e.scope.functions[n.Function.Name()]; declared {
				total += userFunctionCallCost
			}
		}
		for _, arg := range n.Arguments {
			ac, err := e.walk(arg)
			if err != nil {
				return 0, err
			}
			total += ac
		}
		return total, nil

	case *PropertyNode:
		oc, err := e.walk(n.Object)
		if err != nil {
			return 0, err
		}
		return 1 + oc, nil

	default:
		return 0, RuntimeError.Errorf("unsupported type of node '%T'", node)
	}
}
