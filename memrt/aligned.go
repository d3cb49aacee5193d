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

// AllocAligned returns a record whose payload address is a multiple of
// align, which must be a power of two. The backing allocation is
// over-sized by 2*align and the payload is shifted forward to the next
// aligned address; the slack stays part of the single backing
// allocation and is freed with it.
func (r *Runtime) AllocAligned(size, align int) *MemInfo {
	data, backing := r.allocateAligned(size, align, nil)
	if data == nil {
		return nil
	}
	return r.newMemInfo(data, size, nil, nil, nil, backing)
}

func (r *Runtime) allocateAligned(size, align int, ea *ExternalAllocator) (data, backing []byte) {
	backing = r.AllocateExternal(size+2*align, ea)
	if backing == nil {
		return nil, nil
	}
	var offset int
	if rem := int(addressOf(backing) % uintptr(align)); rem != 0 {
		offset = align - rem
	}
	return backing[offset : offset+size : offset+size], backing
}
