// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package memrt

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// fatal reports an unrecoverable invariant violation and terminates the
// process. The heap cannot be trusted past such a violation, so there is
// no error return. Tests substitute the hook to observe the failure
// in-process.
var fatal = func(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "memrt fatal error: %s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}

// Runtime carries the process-wide state of the memory runtime: the
// allocator binding, the shutdown flag and the allocation statistics.
// Records remember the Runtime that created them, so all lifecycle
// operations account against it.
//
// Every counter is an independent atomic; reading several of them is
// not a consistent snapshot and must only be used for monitoring.
type Runtime struct {
	shutting atomic.Bool

	statsAlloc   atomic.Uint64
	statsFree    atomic.Uint64
	statsMiAlloc atomic.Uint64
	statsMiFree  atomic.Uint64

	// mem may only be swapped while no allocation is outstanding, so
	// reads are deliberately unsynchronized. See SetAllocator.
	mem Allocator

	apiOnce sync.Once
	api     *APITable
}

// Default is the shared process-wide runtime instance.
var Default = NewRuntime()

// NewRuntime returns a runtime with zeroed statistics, a cleared
// shutdown flag and DefaultAllocator as its binding.
func NewRuntime() *Runtime {
	return &Runtime{mem: DefaultAllocator}
}

// Shutdown marks the runtime as shutting down. Afterwards Release still
// frees backing memory and moves the statistics, but destructors are no
// longer invoked: caller-supplied cleanup may touch host state that is
// itself being torn down.
func (r *Runtime) Shutdown() {
	r.shutting.Store(true)
}

// ShuttingDown reports whether Shutdown has been called.
func (r *Runtime) ShuttingDown() bool {
	return r.shutting.Load()
}

// SetAllocator swaps the allocator binding. Swapping while any
// allocation is live would hand memory allocated by one binding to
// another's Free, so a differing binding with unbalanced counters is
// fatal. The swap is a quiescent-state operation: it must not race with
// concurrent allocation.
func (r *Runtime) SetAllocator(mem Allocator) {
	if mem != r.mem &&
		(r.statsAlloc.Load() != r.statsFree.Load() ||
			r.statsMiAlloc.Load() != r.statsMiFree.Load()) {
		fatal("cannot change allocator while blocks are allocated")
		return
	}
	r.mem = mem
}

// Allocator returns the current binding.
func (r *Runtime) Allocator() Allocator {
	return r.mem
}

// Allocate obtains size bytes from the binding and counts the
// allocation. Returns nil when the binding fails.
func (r *Runtime) Allocate(size int) []byte {
	return r.AllocateExternal(size, nil)
}

// AllocateExternal is Allocate routed through ea when ea is non-nil.
func (r *Runtime) AllocateExternal(size int, ea *ExternalAllocator) []byte {
	var b []byte
	if ea != nil {
		b = ea.Malloc(size, ea.Ctx)
	} else {
		b = r.mem.Allocate(size)
	}
	r.statsAlloc.Add(1)
	return b
}

// Reallocate resizes b through the binding. The byte-level counters do
// not move: the allocation stays live under a new address.
func (r *Runtime) Reallocate(size int, b []byte) []byte {
	return r.mem.Reallocate(size, b)
}

// Free returns b to the binding and counts the free.
func (r *Runtime) Free(b []byte) {
	r.mem.Free(b)
	r.statsFree.Add(1)
}
