package machine

import "time"

// clockNative is the one native function the reference interpreter
// exposes: the number of seconds (as a float) since an arbitrary epoch,
// for benchmarking scripts.
func clockNative(_ []Value) (Value, error) {
	return Number(float64(time.Now().UnixNano()) / 1e9), nil
}

// defineNatives installs the VM's native function bindings into globals.
func (vm *VM) defineNatives() {
	vm.define("clock", &NativeFunction{Name: "clock", Fn: clockNative})
}

func (vm *VM) define(name string, v Value) {
	vm.globals.Put(name, v)
}
