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

// APITable is the capability surface handed to callers that cannot
// resolve the runtime's symbols directly, such as code generated after
// the runtime was built. Such a caller captures the table once and
// invokes the six entries indirectly; their contracts are exactly those
// of the corresponding Runtime and MemInfo operations.
//
// The layout is frozen: these six entries, in this order, and no
// version or size field. A caller has no way to detect additional
// entries, so extending the runtime's indirect surface means a new
// accessor, never appending here.
type APITable struct {
	Allocate         func(size int) *MemInfo
	AllocateExternal func(size int, ea *ExternalAllocator) *MemInfo
	ManageMemory     func(data []byte, release func([]byte)) *MemInfo
	Retain           func(mi *MemInfo)
	Release          func(mi *MemInfo)
	Data             func(mi *MemInfo) []byte
}

// APITable returns the runtime's capability table. Every call returns
// the same frozen instance.
func (r *Runtime) APITable() *APITable {
	r.apiOnce.Do(func() {
		r.api = &APITable{
			Allocate:         r.Alloc,
			AllocateExternal: r.AllocExternal,
			ManageMemory:     r.ManageMemory,
			Retain:           (*MemInfo).Retain,
			Release:          (*MemInfo).Release,
			Data:             (*MemInfo).Data,
		}
	})
	return r.api
}
