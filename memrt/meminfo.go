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
	"sync/atomic"

	"github.com/memrt/memrt-go/internal/debug"
)

// Destructor is caller-supplied cleanup invoked when a record's
// refcount reaches zero, before the backing memory is returned. The
// runtime never inspects data; info is the record's destructor context,
// passed through unmodified.
type Destructor interface {
	Destroy(data []byte, size int, info any)
}

// DestructorFunc adapts a plain function to the Destructor interface.
type DestructorFunc func(data []byte, size int, info any)

func (f DestructorFunc) Destroy(data []byte, size int, info any) { f(data, size, info) }

// InvalidRefcount is returned by Refcount for a nil record or a record
// whose payload is gone.
const InvalidRefcount = ^uint64(0)

// MemInfo is the reference-counted control block owning one payload.
//
// The order of the first six fields is a layout contract with callers
// that read records by offset; changing it is a breaking change:
// refct, dtor, dtorInfo, data, size, external. Bookkeeping fields come
// after and carry no such guarantee.
type MemInfo struct {
	refct    atomic.Int64
	dtor     Destructor
	dtorInfo any
	data     []byte
	size     int
	external *ExternalAllocator

	// backing is the raw binding (or external) allocation the payload
	// was carved from, freed on destroy. It is nil for records whose
	// payload has an independent lifetime: varsize and adopted memory.
	backing []byte
	rt      *Runtime
}

func (r *Runtime) newMemInfo(data []byte, size int, dtor Destructor, info any,
	ea *ExternalAllocator, backing []byte) *MemInfo {
	mi := &MemInfo{
		dtor:     dtor,
		dtorInfo: info,
		data:     data,
		size:     size,
		external: ea,
		backing:  backing,
		rt:       r,
	}
	mi.refct.Store(1) // the constructing caller holds the first reference
	r.statsMiAlloc.Add(1)
	debug.Logf("newMemInfo %p external=%p", mi, ea)
	return mi
}

// NewMemInfo wraps caller-prepared bytes in a record with refcount 1.
// The record does not own a backing allocation of its own; freeing data
// is the destructor's business.
func (r *Runtime) NewMemInfo(data []byte, size int, dtor Destructor, info any) *MemInfo {
	return r.newMemInfo(data, size, dtor, info, nil, nil)
}

// Alloc returns a record owning a fresh size-byte payload from the
// binding, with no destructor. Returns nil if the binding fails.
func (r *Runtime) Alloc(size int) *MemInfo {
	return r.AllocExternal(size, nil)
}

// AllocExternal is Alloc with the payload obtained from, and later
// returned to, ea.
func (r *Runtime) AllocExternal(size int, ea *ExternalAllocator) *MemInfo {
	data := r.AllocateExternal(size, ea)
	if data == nil {
		return nil
	}
	return r.newMemInfo(data, size, nil, nil, ea, data)
}

// managedDestructor forwards release of adopted memory to the function
// supplied at adoption time.
type managedDestructor struct {
	release func([]byte)
}

func (d *managedDestructor) Destroy(data []byte, size int, info any) {
	d.release(data)
}

// ManageMemory brings externally allocated, externally owned bytes
// under the runtime's shared-ownership scheme without copying. The
// record's size is recorded as zero (the runtime neither knows nor
// cares); when the last reference is released, ownership is handed back
// through release.
func (r *Runtime) ManageMemory(data []byte, release func([]byte)) *MemInfo {
	return r.newMemInfo(data, 0, &managedDestructor{release: release}, nil, nil, nil)
}

// Retain adds a reference. The record must be live.
func (mi *MemInfo) Retain() {
	debug.Assert(mi.refct.Load() > 0, "refcount cannot be zero on retain")
	mi.refct.Add(1)
}

// Release drops a reference. The caller whose decrement observes zero
// destroys the record: the destructor runs (unless the runtime is
// shutting down) and the backing memory is returned. The decrement is a
// single atomic read-modify-write, so exactly one releaser destroys.
func (mi *MemInfo) Release() {
	debug.Assert(mi.refct.Load() > 0, "refcount cannot be zero on release")
	if mi.refct.Add(-1) == 0 {
		mi.rt.destroy(mi)
	}
}

func (r *Runtime) destroy(mi *MemInfo) {
	debug.Logf("destroy %p", mi)
	if mi.dtor != nil && !r.shutting.Load() {
		mi.dtor.Destroy(mi.data, mi.size, mi.dtorInfo)
	}
	r.dealloc(mi)
	r.statsMiFree.Add(1)
}

func (r *Runtime) dealloc(mi *MemInfo) {
	if mi.backing == nil {
		return
	}
	if mi.external != nil {
		mi.external.Free(mi.backing, mi.external.Ctx)
		r.statsFree.Add(1)
		return
	}
	r.Free(mi.backing)
}

// Refcount returns the current reference count, or InvalidRefcount when
// the record or its payload is nil. Reading it while other goroutines
// retain or release is inherently racy; use it for diagnostics only.
func (mi *MemInfo) Refcount() uint64 {
	if mi == nil || mi.data == nil {
		return InvalidRefcount
	}
	return uint64(mi.refct.Load())
}

// Data returns the payload. It is valid only while the caller holds a
// reference.
func (mi *MemInfo) Data() []byte { return mi.data }

// Size returns the payload length in bytes. It is advisory for fixed
// records and authoritative for varsize ones.
func (mi *MemInfo) Size() int { return mi.size }

// ExternalAllocator returns the allocator the record is bound to, or
// nil when the record uses the runtime's binding.
func (mi *MemInfo) ExternalAllocator() *ExternalAllocator { return mi.external }

// Parent returns the record's destructor context. Some callers use it
// as a non-owning back-reference to a parent object; the reference is
// not counted and the parent's lifetime is the caller's problem.
func (mi *MemInfo) Parent() any { return mi.dtorInfo }

func (mi *MemInfo) String() string {
	return fmt.Sprintf("MemInfo %p refcount %d", mi, mi.refct.Load())
}
