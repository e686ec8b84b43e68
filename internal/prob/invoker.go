package prob

import "fmt"

// Invoker identifies which entry point is driving the pipeline. The same
// normalization runs for the top-level front end and for direct solver
// calls, but a few corrections depend on who asked; that dependency is an
// explicit parameter validated once here, never inferred from call context.
type Invoker string

const (
	InvokeTop    Invoker = "dfonorm"
	InvokeUOBYQA Invoker = "uobyqa"
	InvokeNEWUOA Invoker = "newuoa"
	InvokeBOBYQA Invoker = "bobyqa"
	InvokeLINCOA Invoker = "lincoa"
	InvokeCOBYLA Invoker = "cobyla"
)

var knownInvokers = map[Invoker]bool{
	InvokeTop:    true,
	InvokeUOBYQA: true,
	InvokeNEWUOA: true,
	InvokeBOBYQA: true,
	InvokeLINCOA: true,
	InvokeCOBYLA: true,
}

// Validate rejects invokers outside the closed enum.
func (iv Invoker) Validate() error {
	if !knownInvokers[iv] {
		return fmt.Errorf("%w: %q", ErrInvalidInvoker, string(iv))
	}
	return nil
}

// IsSolver reports whether the invoker is a direct solver entry point
// rather than the top-level front end.
func (iv Invoker) IsSolver() bool {
	return knownInvokers[iv] && iv != InvokeTop
}
