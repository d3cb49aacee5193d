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

// Poison sentinels. A buffer full of PoisonAlloc was handed out and
// never written; PoisonFree means it was read after release.
const (
	PoisonAlloc byte = 0xCB
	PoisonFree  byte = 0xDE

	// poisonSpan bounds the poisoned prefix to a couple of cache
	// lines so the debug variants stay cheap on large buffers.
	poisonSpan = 256
)

func poison(b []byte, pattern byte) {
	n := min(len(b), poisonSpan)
	for i := range n {
		b[i] = pattern
	}
}

// safeDestructor poisons a released payload, running the user
// destructor first when one is present so it still sees the caller's
// bytes.
type safeDestructor struct {
	user Destructor
}

func (d *safeDestructor) Destroy(data []byte, size int, info any) {
	if d.user != nil {
		d.user.Destroy(data, size, nil)
	}
	poison(data, PoisonFree)
}

// AllocSafe is Alloc with debug poisoning: the first min(size,256)
// bytes are filled with PoisonAlloc on allocation and with PoisonFree
// when the record is destroyed. Uninitialized reads and use-after-free
// in caller code then show up as a deterministic pattern instead of
// silent corruption.
func (r *Runtime) AllocSafe(size int) *MemInfo {
	return r.AllocDtorSafe(size, nil)
}

// AllocDtorSafe is AllocSafe composed with a user destructor, which
// runs before the freed-poison fill.
func (r *Runtime) AllocDtorSafe(size int, dtor Destructor) *MemInfo {
	data := r.Allocate(size)
	if data == nil {
		return nil
	}
	poison(data, PoisonAlloc)
	return r.newMemInfo(data, size, &safeDestructor{user: dtor}, nil, nil, data)
}

// AllocSafeAligned is AllocAligned with debug poisoning.
func (r *Runtime) AllocSafeAligned(size, align int) *MemInfo {
	return r.AllocSafeAlignedExternal(size, align, nil)
}

// AllocSafeAlignedExternal is AllocSafeAligned with the payload bound
// to ea.
func (r *Runtime) AllocSafeAlignedExternal(size, align int, ea *ExternalAllocator) *MemInfo {
	data, backing := r.allocateAligned(size, align, ea)
	if data == nil {
		return nil
	}
	poison(data, PoisonAlloc)
	return r.newMemInfo(data, size, &safeDestructor{}, nil, ea, backing)
}
