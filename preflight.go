package goslingshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

// preflightScript parses the embedded literal the same way the page does and
// rejects anything that is not a JSON object.
const preflightScript = `(function () {
	var spec = %s;
	if (spec === null || typeof spec !== "object" || Array.isArray(spec)) {
		throw new TypeError("top-level value must be an object");
	}
	return true;
})()`

// preflightSpec evaluates the spec expression in an embedded JavaScript VM
// so malformed specs fail before a browser is launched.
func preflightSpec(ctx context.Context, spec string) error {
	vm := goja.New()
	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(ctx.Err())
	})
	defer stop()

	_, err := vm.RunString(fmt.Sprintf(preflightScript, specExpression(spec)))
	if err == nil {
		return nil
	}

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return ctx.Err()
	}

	var exc *goja.Exception
	if errors.As(err, &exc) {
		return fmt.Errorf("%w: %s", ErrInvalidSpec, exc.Value().String())
	}
	return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
}
