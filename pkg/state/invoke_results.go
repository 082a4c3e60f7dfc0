package state

import (
	"github.com/wavesplatform/txdiff/pkg/proto"
)

// InnerInvoke records one synchronous dApp-to-dApp call performed during an
// invocation, with its own nested state changes.
type InnerInvoke struct {
	DApp         proto.Address
	Function     string
	Payments     []proto.ScriptPayment
	StateChanges *InvokeScriptResult
}

// InvokeScriptResult is the per-transaction record of produced actions and
// nested invocations. It is stored in the Diff under the transaction id and
// exposed through the API.
type InvokeScriptResult struct {
	Actions proto.ScriptActions
	Invokes []InnerInvoke
	Error   string
}

func NewInvokeScriptResult() *InvokeScriptResult {
	return &InvokeScriptResult{}
}

func (r *InvokeScriptResult) AppendActions(actions proto.ScriptActions) {
	r.Actions = append(r.Actions, actions...)
}

func (r *InvokeScriptResult) AppendInvoke(invoke InnerInvoke) {
	r.Invokes = append(r.Invokes, invoke)
}

// CalledAddresses collects the dApp addresses of all nested invocations,
// recursively. Used to compute the affected address set of the
// transaction record.
func (r *InvokeScriptResult) CalledAddresses() []proto.Address {
	if r == nil {
		return nil
	}
	var out []proto.Address
	for _, inv := range r.Invokes {
		out = append(out, inv.DApp)
		out = append(out, inv.StateChanges.CalledAddresses()...)
	}
	return out
}
