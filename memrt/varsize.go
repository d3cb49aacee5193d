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

// varsizeDestructor frees a record's independently allocated payload,
// invoking the element destructor first when one is registered. Its
// concrete type doubles as the marker distinguishing varsize records.
type varsizeDestructor struct {
	rt   *Runtime
	elem func([]byte)
}

func (d *varsizeDestructor) Destroy(data []byte, size int, info any) {
	if data == nil {
		// payload was varsize-freed ahead of the record
		return
	}
	if d.elem != nil {
		d.elem(data)
	}
	d.rt.Free(data)
}

// NewVarsize returns a record whose payload is an independent binding
// allocation, so it can be grown, shrunk or freed while the record and
// its references stay put. Returns nil if the binding fails.
func (r *Runtime) NewVarsize(size int) *MemInfo {
	data := r.Allocate(size)
	if data == nil {
		return nil
	}
	return r.newMemInfo(data, size, &varsizeDestructor{rt: r}, nil, nil, nil)
}

// NewVarsizeDtor is NewVarsize with an element destructor run on the
// payload before it is freed.
func (r *Runtime) NewVarsizeDtor(size int, elem func([]byte)) *MemInfo {
	mi := r.NewVarsize(size)
	if mi != nil {
		mi.dtor.(*varsizeDestructor).elem = elem
	}
	return mi
}

func (mi *MemInfo) asVarsize(op string) *varsizeDestructor {
	d, ok := mi.dtor.(*varsizeDestructor)
	if !ok {
		fatal("%s called with a non varsize-allocated record", op)
		return nil
	}
	return d
}

// VarsizeAlloc points the record at a fresh size-byte payload, leaving
// the previous one (if any) to the caller. Fatal on a non-varsize
// record; nil if the binding fails, in which case the record is
// untouched.
func (mi *MemInfo) VarsizeAlloc(size int) []byte {
	if mi.asVarsize("VarsizeAlloc") == nil {
		return nil
	}
	data := mi.rt.Allocate(size)
	if data == nil {
		return nil
	}
	mi.data = data
	mi.size = size
	return data
}

// VarsizeRealloc resizes the payload in place (address may change),
// preserving its prefix. Fatal on a non-varsize record; nil if the
// binding fails.
func (mi *MemInfo) VarsizeRealloc(size int) []byte {
	if mi.asVarsize("VarsizeRealloc") == nil {
		return nil
	}
	data := mi.rt.Reallocate(size, mi.data)
	if data == nil {
		return nil
	}
	mi.data = data
	mi.size = size
	return data
}

// VarsizeFree returns b to the binding ahead of the record's own
// destruction. When b is the record's stored payload the stored slice
// is nilled out, so a later double free or stale read faults on nil
// instead of corrupting reused memory.
func (mi *MemInfo) VarsizeFree(b []byte) {
	mi.rt.Free(b)
	if addressOf(b) == addressOf(mi.data) {
		mi.data = nil
	}
}
